// Package tp defines tuning parameters: a name, a value Range, and an
// optional constraint predicate over the values of earlier parameters.
package tp

import (
	"fmt"

	"github.com/atf-go/atf/pkg/ranges"
)

// Constraint is a predicate over the (partial) values of the parameters
// it depends on, keyed by parameter name. It returns whether a candidate
// assignment is admissible. Constraints are evaluated during SearchSpace
// construction, never at addressing time.
type Constraint func(values map[string]any) bool

// Param is a single tuning parameter.
type Param struct {
	name       string
	values     ranges.Range
	constraint Constraint
	// dependsOn lists the names of the other parameters the constraint
	// inspects. It is supplied explicitly rather than recovered via
	// reflection, since Go constraints are plain closures.
	dependsOn []string
}

// New builds a tuning parameter with no constraint.
func New(name string, values ranges.Range) *Param {
	return &Param{name: name, values: values}
}

// NewConstrained builds a tuning parameter whose admissible values also
// depend on the current values of dependsOn (which must name parameters
// appearing earlier in the SearchSpace's parameter list).
func NewConstrained(name string, values ranges.Range, constraint Constraint, dependsOn ...string) *Param {
	return &Param{name: name, values: values, constraint: constraint, dependsOn: dependsOn}
}

func (p *Param) Name() string          { return p.name }
func (p *Param) Values() ranges.Range   { return p.values }
func (p *Param) Constraint() Constraint { return p.constraint }
func (p *Param) DependsOn() []string    { return p.dependsOn }
func (p *Param) HasConstraint() bool    { return p.constraint != nil }

// Satisfies reports whether the given partial assignment (which must
// already contain every name in DependsOn) admits value candidate at the
// given range position.
func (p *Param) Satisfies(assignment map[string]any, pos int) bool {
	if p.constraint == nil {
		return true
	}
	scoped := make(map[string]any, len(p.dependsOn)+1)
	for _, dep := range p.dependsOn {
		v, ok := assignment[dep]
		if !ok {
			panic(fmt.Sprintf("tp: constraint for %q requires %q, which is not yet assigned", p.name, dep))
		}
		scoped[dep] = v
	}
	scoped[p.name] = p.values.At(pos)
	return p.constraint(scoped)
}

// ValidationError describes a problem found while constructing a
// SearchSpace from a set of parameters, before any tree is built.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "tp: " + e.Msg }
