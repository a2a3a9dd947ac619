package technique

import (
	"fmt"
	"time"

	"github.com/atf-go/atf/pkg/registry"
)

// Registry is the capability registry for search techniques, populated
// by this file's init() and looked up by name from pkg/config/cmd/atf,
// mirroring the teacher's probes/detectors/generators registries.
var Registry = registry.New[Technique]("technique")

func seedFromConfig(cfg registry.Config) int64 {
	seed := registry.GetInt(cfg, "seed", 0)
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return int64(seed)
}

func init() {
	Registry.Register("random", func(cfg registry.Config) (Technique, error) {
		return NewRandom(seedFromConfig(cfg)), nil
	})

	Registry.Register("exhaustive", func(cfg registry.Config) (Technique, error) {
		return NewExhaustive(), nil
	})

	Registry.Register("simulated_annealing", func(cfg registry.Config) (Technique, error) {
		return NewSimulatedAnnealing(seedFromConfig(cfg)), nil
	})

	Registry.Register("pattern_search", func(cfg registry.Config) (Technique, error) {
		return NewPatternSearch(seedFromConfig(cfg)), nil
	})

	Registry.Register("torczon", func(cfg registry.Config) (Technique, error) {
		return NewTorczon(seedFromConfig(cfg)), nil
	})

	Registry.Register("differential_evolution", func(cfg registry.Config) (Technique, error) {
		return NewDifferentialEvolution(seedFromConfig(cfg)), nil
	})

	Registry.Register("round_robin", func(cfg registry.Config) (Technique, error) {
		names, err := registry.RequireStringSlice(cfg, "techniques")
		if err != nil {
			return nil, fmt.Errorf("technique: round_robin: %w", err)
		}
		inner, err := buildCoordinateInner(names, cfg)
		if err != nil {
			return nil, err
		}
		return NewRoundRobin(inner...), nil
	})

	Registry.Register("auc_bandit", func(cfg registry.Config) (Technique, error) {
		names, err := registry.RequireStringSlice(cfg, "techniques")
		if err != nil {
			return nil, fmt.Errorf("technique: auc_bandit: %w", err)
		}
		inner, err := buildCoordinateInner(names, cfg)
		if err != nil {
			return nil, err
		}
		window := registry.GetInt(cfg, "window", aucDefaultWindow)
		c := registry.GetFloat64(cfg, "c", aucDefaultC)
		return NewAUCBandit(seedFromConfig(cfg), window, c, inner...), nil
	})
}

// buildCoordinateInner instantiates a list of named techniques for a
// meta-technique, rejecting any that turn out to be index-type.
func buildCoordinateInner(names []string, cfg registry.Config) ([]CoordinateTechnique, error) {
	out := make([]CoordinateTechnique, 0, len(names))
	for _, name := range names {
		t, err := Registry.Create(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("technique: building inner technique %q: %w", name, err)
		}
		ct, ok := t.(CoordinateTechnique)
		if !ok {
			return nil, fmt.Errorf("technique: inner technique %q is not coordinate-type", name)
		}
		out = append(out, ct)
	}
	return out, nil
}

// DefaultTechnique is the Tuner's default when none is configured: an
// AUC-Bandit over the five non-meta coordinate techniques, matching
// spec.md's stated default.
func DefaultTechnique(seed int64) Technique {
	return NewAUCBandit(seed, aucDefaultWindow, aucDefaultC,
		NewRandom(seed+1),
		NewSimulatedAnnealing(seed+2),
		NewPatternSearch(seed+3),
		NewTorczon(seed+4),
		NewDifferentialEvolution(seed+5),
	)
}
