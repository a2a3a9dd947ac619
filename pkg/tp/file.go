package tp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/atf-go/atf/pkg/ranges"
)

// FileSpec is the on-disk YAML representation of a parameter space. A
// closure-valued Constraint cannot be expressed in YAML, so constrained
// parameters name a constraint that the caller of LoadFile must supply
// in its constraints map.
type FileSpec struct {
	Parameters []ParamSpec `yaml:"parameters"`
}

// ParamSpec is the YAML form of a single parameter.
type ParamSpec struct {
	Name       string     `yaml:"name"`
	Range      RangeSpec  `yaml:"range"`
	Constraint string     `yaml:"constraint,omitempty"`
	DependsOn  []string   `yaml:"depends_on,omitempty"`
}

// RangeSpec is the YAML form of a Range.
type RangeSpec struct {
	// Kind is one of "interval_int", "interval_float", or "set".
	Kind   string  `yaml:"kind"`
	Start  float64 `yaml:"start,omitempty"`
	End    float64 `yaml:"end,omitempty"`
	Step   float64 `yaml:"step,omitempty"`
	Values []any   `yaml:"values,omitempty"`
}

// Build materializes the Range described by the spec.
func (rs RangeSpec) Build() (ranges.Range, error) {
	switch rs.Kind {
	case "interval_int":
		return ranges.NewIntInterval(int(rs.Start), int(rs.End), int(rs.Step))
	case "interval_float":
		return ranges.NewFloatInterval(rs.Start, rs.End, rs.Step)
	case "set":
		return ranges.NewSet(rs.Values...), nil
	default:
		return nil, fmt.Errorf("tp: unknown range kind %q", rs.Kind)
	}
}

// LoadFile reads a YAML parameter-space file. constraints maps a
// constraint name referenced in the file to the Go closure that
// implements it; a parameter naming a constraint not present in
// constraints is an error.
func LoadFile(path string, constraints map[string]Constraint) ([]*Param, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tp: reading %s: %w", path, err)
	}

	var spec FileSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("tp: parsing %s: %w", path, err)
	}

	params := make([]*Param, 0, len(spec.Parameters))
	for _, ps := range spec.Parameters {
		rng, err := ps.Range.Build()
		if err != nil {
			return nil, fmt.Errorf("tp: parameter %q: %w", ps.Name, err)
		}

		if ps.Constraint == "" {
			params = append(params, New(ps.Name, rng))
			continue
		}

		c, ok := constraints[ps.Constraint]
		if !ok {
			return nil, fmt.Errorf("tp: parameter %q references unknown constraint %q", ps.Name, ps.Constraint)
		}
		params = append(params, NewConstrained(ps.Name, rng, c, ps.DependsOn...))
	}

	return params, nil
}
