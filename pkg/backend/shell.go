// Package backend gives the cost-function back-ends spec.md names as
// external collaborators (§6) a concrete Go home: Shell runs a real
// subprocess per evaluation; GPU documents the kernel-execution
// contract without running device code, since compiling/running user
// device code is explicitly out of the core's scope.
package backend

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/atf-go/atf/pkg/ratelimit"
	"github.com/atf-go/atf/pkg/retry"
	"github.com/atf-go/atf/pkg/tuningdata"
)

// ShellConfig configures a shell-command cost-function back-end.
type ShellConfig struct {
	// Command is the argv of the evaluation command; required.
	Command []string
	// CompileCommand, if set, runs (and must succeed) before Command on
	// every evaluation.
	CompileCommand []string
	// CostFile, if set, is read for the cost after Command exits
	// instead of parsing Command's stdout. Re-read fresh on every
	// evaluation, relative to WorkDir if not absolute.
	CostFile string
	// WorkDir is the working directory for both commands; empty means
	// the current process's working directory.
	WorkDir string
	// Timeout bounds each command's run; zero means no timeout beyond
	// ctx's own deadline.
	Timeout time.Duration
	// Retry configures transient-launch-failure retries. Zero value
	// means retry.DefaultConfig().
	Retry retry.Config
	// Limiter, if set, throttles concurrent evaluations across tuning
	// runs sharing the limiter (e.g. a shared cluster resource).
	Limiter *ratelimit.Limiter
}

// NewShell builds a tuningdata.CostFunction that runs the configured
// command, injecting every tuning parameter into the child process
// environment as TP_<NAME>=<value>, and reports the resulting cost.
//
// A non-zero exit from either command is treated as an
// InvalidConfigurationError (this configuration doesn't run, try
// another), matching the common "failed to compile with these flags"
// case. Any error reading or parsing the cost afterwards is a real
// FatalEvaluationError, since it indicates a broken harness rather than
// a bad configuration.
func NewShell(cfg ShellConfig) tuningdata.CostFunction {
	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig()
	}

	return func(ctx context.Context, config tuningdata.Configuration) (float64, tuningdata.MetaData, error) {
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Wait(ctx); err != nil {
				return 0, nil, &tuningdata.FatalEvaluationError{Cfg: config, Err: err}
			}
		}

		env := buildEnv(config)

		var stdout string
		runErr := retry.Do(ctx, retryCfg, func() error {
			if len(cfg.CompileCommand) > 0 {
				if _, err := runCommand(ctx, cfg.CompileCommand, env, cfg.WorkDir, cfg.Timeout); err != nil {
					return err
				}
			}
			out, err := runCommand(ctx, cfg.Command, env, cfg.WorkDir, cfg.Timeout)
			stdout = out
			return err
		})
		if runErr != nil {
			return 0, nil, tuningdata.NewInvalidConfiguration(runErr.Error(), tuningdata.MetaData{"stdout": stdout})
		}

		cost, err := readCost(stdout, cfg.CostFile, cfg.WorkDir)
		if err != nil {
			return 0, nil, &tuningdata.FatalEvaluationError{Cfg: config, Err: err}
		}
		return cost, tuningdata.MetaData{"stdout": stdout}, nil
	}
}

// buildEnv extends the current process environment with one TP_<NAME>
// variable per tuning parameter, matching spec.md §6's shell
// back-end contract.
func buildEnv(config tuningdata.Configuration) []string {
	env := os.Environ()
	for name, value := range config {
		env = append(env, fmt.Sprintf("TP_%s=%v", strings.ToUpper(name), value))
	}
	return env
}

func runCommand(ctx context.Context, argv []string, env []string, workDir string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Dir = workDir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout

	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("backend: running %q: %w: %s", strings.Join(argv, " "), err, stdout.String())
	}
	return stdout.String(), nil
}

// readCost extracts the evaluation's cost either from a dedicated cost
// file (last non-blank line, parsed as a float) or from the command's
// own stdout (same rule), matching the original's generic shell
// cost-function convention.
func readCost(stdout string, costFile string, workDir string) (float64, error) {
	if costFile == "" {
		return lastFloatLine(stdout)
	}

	path := costFile
	if !strings.HasPrefix(path, "/") && workDir != "" {
		path = workDir + "/" + path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("backend: reading cost file %s: %w", path, err)
	}
	return lastFloatLine(string(data))
}

func lastFloatLine(s string) (float64, error) {
	scanner := bufio.NewScanner(strings.NewReader(s))
	last := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			last = line
		}
	}
	if last == "" {
		return 0, errors.New("backend: no cost value found in command output")
	}
	cost, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, fmt.Errorf("backend: parsing cost %q: %w", last, err)
	}
	return cost, nil
}
