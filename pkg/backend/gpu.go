package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/atf-go/atf/pkg/tuningdata"
)

// ErrNotImplemented is returned by GPU's cost function: compiling and
// launching device kernels is inherently platform-specific (CUDA,
// HIP, OpenCL, ...) and out of scope for the core tuner, per spec.md's
// Non-goals. GPUConfig exists so a caller can wire a real
// implementation behind the same CostFunction contract Shell uses,
// without the core depending on any particular GPU toolchain.
var ErrNotImplemented = errors.New("backend: GPU cost function is a contract only, not implemented")

// GPUConfig describes the shape a device-kernel cost function is
// expected to take: compile a kernel with the proposed configuration's
// launch parameters, run it some number of times on-device, and report
// the resulting measurement (typically kernel runtime or throughput)
// as the cost.
type GPUConfig struct {
	// KernelSource names the kernel source file or module to compile.
	KernelSource string
	// LaunchParamNames lists which tuning-parameter names map to
	// kernel launch configuration (block size, grid size, shared
	// memory, unroll factor, ...); every other parameter is passed
	// through as a compile-time define.
	LaunchParamNames []string
	// Repetitions is how many timed launches to average per
	// evaluation.
	Repetitions int
}

// NewGPU returns a CostFunction stub satisfying pkg/tuner's contract.
// Every call fails with a FatalEvaluationError wrapping
// ErrNotImplemented; it exists so callers can reference
// backend.NewGPU(...) in configuration today and swap in a real
// device-specific build without changing pkg/tuner or pkg/technique.
func NewGPU(cfg GPUConfig) tuningdata.CostFunction {
	return func(_ context.Context, config tuningdata.Configuration) (float64, tuningdata.MetaData, error) {
		return 0, nil, &tuningdata.FatalEvaluationError{
			Cfg: config,
			Err: fmt.Errorf("backend: GPU kernel %q: %w", cfg.KernelSource, ErrNotImplemented),
		}
	}
}
