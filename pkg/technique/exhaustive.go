package technique

// Exhaustive emits every index 0..size-1 in order, wrapping to 0 on
// overflow. It ignores reported costs and serves as the deterministic
// ground-truth baseline.
type Exhaustive struct {
	size int64
	next int64
}

// NewExhaustive builds an Exhaustive technique.
func NewExhaustive() *Exhaustive { return &Exhaustive{} }

func (e *Exhaustive) Kind() Kind { return KindIndex }

func (e *Exhaustive) Initialize(size int64) {
	e.size = size
	e.next = 0
}

func (e *Exhaustive) Next() []int64 {
	if e.size <= 0 {
		return []int64{0}
	}
	idx := e.next
	e.next = (e.next + 1) % e.size
	return []int64{idx}
}

func (e *Exhaustive) Report(costs []float64) {}

func (e *Exhaustive) Finalize() {}
