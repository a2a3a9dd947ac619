package abort

import (
	"fmt"
	"time"

	"github.com/atf-go/atf/pkg/registry"
)

// Registry is the capability registry for abort conditions, populated
// by this file's init() and looked up by name from pkg/config/cmd/atf.
var Registry = registry.New[Condition]("abort")

func init() {
	Registry.Register("evaluations", func(cfg registry.Config) (Condition, error) {
		n := registry.GetInt(cfg, "n", 0)
		if n <= 0 {
			return nil, fmt.Errorf("abort: evaluations requires positive 'n'")
		}
		return Evaluations{N: int64(n)}, nil
	})

	Registry.Register("valid_evaluations", func(cfg registry.Config) (Condition, error) {
		n := registry.GetInt(cfg, "n", 0)
		if n <= 0 {
			return nil, fmt.Errorf("abort: valid_evaluations requires positive 'n'")
		}
		return ValidEvaluations{N: int64(n)}, nil
	})

	Registry.Register("duration", func(cfg registry.Config) (Condition, error) {
		s := registry.GetString(cfg, "duration", "")
		if s == "" {
			return nil, fmt.Errorf("abort: duration requires a 'duration' string (e.g. \"5m\")")
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("abort: parsing duration: %w", err)
		}
		return Duration{D: d}, nil
	})

	Registry.Register("fraction", func(cfg registry.Config) (Condition, error) {
		f := registry.GetFloat64(cfg, "fraction", 0)
		size := registry.GetInt(cfg, "space_size", 0)
		if f <= 0 || size <= 0 {
			return nil, fmt.Errorf("abort: fraction requires positive 'fraction' and 'space_size'")
		}
		return Fraction{F: f, SpaceSize: int64(size)}, nil
	})

	Registry.Register("valid_fraction", func(cfg registry.Config) (Condition, error) {
		f := registry.GetFloat64(cfg, "fraction", 0)
		size := registry.GetInt(cfg, "space_size", 0)
		if f <= 0 || size <= 0 {
			return nil, fmt.Errorf("abort: valid_fraction requires positive 'fraction' and 'space_size'")
		}
		return ValidFraction{F: f, SpaceSize: int64(size)}, nil
	})

	Registry.Register("cost", func(cfg registry.Config) (Condition, error) {
		return Cost{C: registry.GetFloat64(cfg, "cost", 0)}, nil
	})

	Registry.Register("speedup", func(cfg registry.Config) (Condition, error) {
		s := registry.GetFloat64(cfg, "speedup", 0)
		window := registry.GetInt(cfg, "window", 0)
		if s <= 0 || window <= 0 {
			return nil, fmt.Errorf("abort: speedup requires positive 'speedup' and 'window'")
		}
		return Speedup{S: s, Window: window}, nil
	})
}
