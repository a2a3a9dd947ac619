package tuningdata

import (
	"context"
	"fmt"
)

// CostFunction is the external collaborator the Tuner drives each step:
// given a concrete Configuration, it returns a cost (smaller is better)
// plus optional meta-data, or an error. A *InvalidConfigurationError
// marks the configuration as unusable without aborting the run; any
// other error is wrapped as FatalEvaluationError and propagated to the
// caller after the log is flushed.
type CostFunction func(ctx context.Context, cfg Configuration) (cost float64, meta MetaData, err error)

// InvalidConfigurationError is raised by a CostFunction to signal that a
// particular Configuration could not be evaluated (e.g. it failed to
// compile, or produced a result the caller's checker rejected). The
// Tuner records it as an invalid evaluation and continues.
type InvalidConfigurationError struct {
	Reason string
	Meta   MetaData
}

func (e *InvalidConfigurationError) Error() string {
	if e.Reason == "" {
		return "tuningdata: invalid configuration"
	}
	return "tuningdata: invalid configuration: " + e.Reason
}

// NewInvalidConfiguration builds an InvalidConfigurationError carrying a
// copy of meta, so later mutation by the caller cannot corrupt the
// recorded entry.
func NewInvalidConfiguration(reason string, meta MetaData) *InvalidConfigurationError {
	return &InvalidConfigurationError{Reason: reason, Meta: cloneMeta(meta)}
}

// FatalEvaluationError wraps any error from a CostFunction that is not
// an InvalidConfigurationError. The Tuner records it (valid=false, no
// cost), flushes the log, and returns it to the caller.
type FatalEvaluationError struct {
	Cfg Configuration
	Err error
}

func (e *FatalEvaluationError) Error() string {
	return fmt.Sprintf("tuningdata: fatal evaluation error for %v: %v", e.Cfg, e.Err)
}

func (e *FatalEvaluationError) Unwrap() error { return e.Err }

func cloneMeta(m MetaData) MetaData {
	if m == nil {
		return nil
	}
	cp := make(MetaData, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
