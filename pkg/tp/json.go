package tp

import "github.com/atf-go/atf/pkg/ranges"

// Descriptor is the JSON-serializable summary of a parameter, used in
// the tuning log's parameter section.
type Descriptor struct {
	Name       string             `json:"name"`
	Range      ranges.Descriptor  `json:"range"`
	Constraint bool               `json:"has_constraint"`
	DependsOn  []string           `json:"depends_on,omitempty"`
}

// Describe builds the JSON descriptor for a parameter.
func Describe(p *Param) Descriptor {
	return Descriptor{
		Name:       p.name,
		Range:      ranges.Describe(p.values),
		Constraint: p.constraint != nil,
		DependsOn:  p.dependsOn,
	}
}
