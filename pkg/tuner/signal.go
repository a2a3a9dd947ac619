package tuner

import (
	"os"
	"os/signal"
	"sync"
)

// interruptible is the subset of *Tuner the global signal dispatcher
// needs: just a way to raise the cooperative cancellation flag.
type interruptible interface {
	requestInterrupt()
}

var (
	handlerMu sync.Mutex
	stack     []interruptible
	sigCh     chan os.Signal
)

// pushInterruptHandler registers t as the innermost active tuner. Only
// the innermost handler receives the process's interrupt signal; when
// the stack empties, the signal disposition reverts to whatever it was
// before any tuner installed a handler (the OS default, in practice).
func pushInterruptHandler(t interruptible) {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	stack = append(stack, t)
	if len(stack) == 1 {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		go dispatchInterrupts(sigCh)
	}
}

// popInterruptHandler removes t from the stack. t should be the
// innermost handler (the caller's defer ordering guarantees this in
// normal use); if it is found elsewhere in the stack, it is removed in
// place rather than treated as an error, since a tuner's Tune call can
// legitimately outlive an improperly nested caller.
func popInterruptHandler(t interruptible) {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == t {
			stack = append(stack[:i], stack[i+1:]...)
			break
		}
	}

	if len(stack) == 0 && sigCh != nil {
		signal.Stop(sigCh)
		close(sigCh)
		sigCh = nil
	}
}

func dispatchInterrupts(ch chan os.Signal) {
	for range ch {
		handlerMu.Lock()
		if len(stack) > 0 {
			stack[len(stack)-1].requestInterrupt()
		}
		handlerMu.Unlock()
	}
}
