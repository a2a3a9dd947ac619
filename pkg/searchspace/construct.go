package searchspace

import (
	"github.com/atf-go/atf/pkg/tp"
)

// reachability labels, mirroring the construction algorithm's
// transitive-closure matrix.
const (
	unreachable = iota
	referencing  // row depends on column
	referencedBy // column depends on row
)

// SearchSpace is the immutable, once-built addressable domain of
// configurations admitted by a set of tuning parameters and their
// constraints. Build it with New; it is safe for concurrent read-only
// use (Configuration/ConfigurationAt/Len/etc.) once constructed.
type SearchSpace struct {
	params []*tp.Param
	// group assigns each parameter's index to its independent group.
	group []int
	trees []*ChainedTree

	constrainedSize   int64
	unconstrainedSize int64

	enable1D bool
}

// Option configures New.
type Option func(*options)

type options struct {
	enable1D bool
}

// WithIndexAddressing enables by-index addressing (ConfigurationAt),
// materializing every leaf configuration per independent group at
// construction time for O(D) lookups. Without it, ConfigurationAt
// returns a DomainError, per spec: index addressing is an opt-in
// capability, not a fallback-to-slow-path default.
func WithIndexAddressing() Option {
	return func(o *options) { o.enable1D = true }
}

// New builds a SearchSpace from the given tuning parameters. Parameter
// order matters: a constrained parameter's DependsOn entries must name
// parameters appearing earlier in params.
func New(params []*tp.Param, opts ...Option) (*SearchSpace, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateNames(params); err != nil {
		return nil, err
	}
	nameIdx := indexByName(params)
	if err := validateDependencies(params, nameIdx); err != nil {
		return nil, err
	}

	groupOf, groups, err := partitionGroups(params, nameIdx)
	if err != nil {
		return nil, err
	}

	ss := &SearchSpace{
		params:            params,
		group:             groupOf,
		constrainedSize:   1,
		unconstrainedSize: 1,
		enable1D:          o.enable1D,
	}

	for _, groupParamIdx := range groups {
		groupParams := make([]*tp.Param, len(groupParamIdx))
		for i, idx := range groupParamIdx {
			groupParams[i] = params[idx]
		}

		tree := buildTree(groupParams)
		if o.enable1D {
			tree.LeafConfigs = flattenLeafConfigs(tree)
		}

		ss.trees = append(ss.trees, tree)
		ss.constrainedSize *= int64(tree.NumLeafs())

		unconstrained := int64(1)
		for _, p := range groupParams {
			unconstrained *= int64(p.Values().Len())
		}
		ss.unconstrainedSize *= unconstrained
	}

	return ss, nil
}

func validateNames(params []*tp.Param) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name()] {
			return configErrorf("duplicate parameter name %q", p.Name())
		}
		seen[p.Name()] = true
	}
	return nil
}

func indexByName(params []*tp.Param) map[string]int {
	idx := make(map[string]int, len(params))
	for i, p := range params {
		idx[p.Name()] = i
	}
	return idx
}

// validateDependencies checks that every DependsOn name exists and
// refers to a parameter declared strictly earlier than the dependent
// one. This is the structural guarantee that rules out circular
// constraints: a cycle would require some parameter to (transitively)
// depend on a later-declared parameter, which is rejected here.
func validateDependencies(params []*tp.Param, nameIdx map[string]int) error {
	for i, p := range params {
		for _, dep := range p.DependsOn() {
			j, ok := nameIdx[dep]
			if !ok {
				return configErrorf("parameter %q constraint depends on unknown parameter %q", p.Name(), dep)
			}
			if j >= i {
				return configErrorf(
					"parameter %q constraint depends on %q, which is not declared earlier (circular or forward constraint)",
					p.Name(), dep)
			}
		}
	}
	return nil
}

// partitionGroups builds the reachability matrix (Floyd-Warshall
// transitive closure over direct REFERENCING/REFERENCED_BY edges) and
// reads off each parameter's independent group from it. Two parameters
// are independent iff there is no path between them in the constraint
// graph.
func partitionGroups(params []*tp.Param, nameIdx map[string]int) ([]int, [][]int, error) {
	n := len(params)
	reach := make([][]int, n)
	for i := range reach {
		reach[i] = make([]int, n)
	}

	for i, p := range params {
		for _, dep := range p.DependsOn() {
			j := nameIdx[dep]
			reach[i][j] = referencing
			reach[j][i] = referencedBy
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if reach[i][k] == unreachable && i != k {
				continue
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if reach[k][j] == unreachable && k != j {
					continue
				}
				if reach[i][j] == unreachable {
					reach[i][j] = referencing
				}
			}
		}
	}

	groupOf := make([]int, n)
	for i := range groupOf {
		groupOf[i] = -1
	}

	var groups [][]int
	for i := 0; i < n; i++ {
		if groupOf[i] != -1 {
			continue
		}
		gid := len(groups)
		var members []int
		for j := 0; j < n; j++ {
			if j == i || reach[i][j] != unreachable || reach[j][i] != unreachable {
				groupOf[j] = gid
				members = append(members, j)
			}
		}
		groups = append(groups, members)
	}

	return groupOf, groups, nil
}
