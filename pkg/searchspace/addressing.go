package searchspace

import "math"

// Coordinates addresses a configuration by one weight per tree level
// (one per tuning parameter, in declaration order across groups), each
// in (0,1]. Index addresses a configuration by a single integer in
// [0, Len()).
type Coordinates []float64
type Index int64

// Len returns the number of configurations admitted by the constraints
// (the product of each independent group's leaf count).
func (ss *SearchSpace) Len() int64 { return ss.constrainedSize }

// UnconstrainedLen returns the product of each group's raw range sizes,
// ignoring constraint pruning.
func (ss *SearchSpace) UnconstrainedLen() int64 { return ss.unconstrainedSize }

// NumGroups returns the number of independent parameter groups.
func (ss *SearchSpace) NumGroups() int { return len(ss.trees) }

// Dimensionality returns D, the number of coordinates Configuration
// expects: one per tuning parameter (one per tree level), not one per
// independent group. A coordinate technique addressing a group with
// several dependent parameters gets one coordinate per parameter in
// that group, so it can step along each dimension independently.
func (ss *SearchSpace) Dimensionality() int { return len(ss.params) }

// Configuration decodes a coordinate vector (one value per tuning
// parameter, consumed one per tree level in descent order: a group's
// tree consumes as many leading coordinates as it has levels before
// the next group's tree starts consuming) into a full parameter
// assignment.
func (ss *SearchSpace) Configuration(coords Coordinates) (map[string]any, error) {
	if ss.constrainedSize == 0 {
		return nil, domainErrorf("search space is empty")
	}
	if len(coords) != len(ss.params) {
		return nil, domainErrorf("expected %d coordinates, got %d", len(ss.params), len(coords))
	}
	for _, c := range coords {
		if c <= 0 || c > 1 {
			return nil, domainErrorf("coordinate %v out of range (0,1]", c)
		}
	}

	config := make(map[string]any, len(ss.params))
	offset := 0
	for _, tree := range ss.trees {
		levels := len(tree.ParamOrder)
		leaf := descendByCoordinate(tree.Root, coords[offset:offset+levels])
		assignLeaf(tree, leaf.path, config)
		offset += levels
	}
	return config, nil
}

// ConfigurationAt decodes a global index into a full parameter
// assignment. Index i addresses configurations in mixed-radix order,
// with the first group varying slowest.
func (ss *SearchSpace) ConfigurationAt(idx Index) (map[string]any, error) {
	if !ss.enable1D {
		return nil, domainErrorf("index addressing was not enabled for this search space (use WithIndexAddressing)")
	}
	if ss.constrainedSize == 0 {
		return nil, domainErrorf("search space is empty")
	}
	if idx < 0 || int64(idx) >= ss.constrainedSize {
		return nil, domainErrorf("index %d out of range [0,%d)", idx, ss.constrainedSize)
	}

	groupIndices := make([]int64, len(ss.trees))
	divisor := int64(1)
	for i := len(ss.trees) - 1; i >= 0; i-- {
		n := int64(ss.trees[i].NumLeafs())
		groupIndices[i] = (int64(idx) / divisor) % n
		divisor *= n
	}

	config := make(map[string]any, len(ss.params))
	for i, tree := range ss.trees {
		gi := int(groupIndices[i])
		if tree.LeafConfigs != nil {
			for k, v := range tree.LeafConfigs[gi] {
				config[k] = v
			}
			continue
		}
		path := descendByIndex(tree.Root, gi)
		assignLeaf(tree, path, config)
	}
	return config, nil
}

type leafResult struct {
	path []any
}

func assignLeaf(tree *ChainedTree, path []any, config map[string]any) {
	for i, name := range tree.ParamOrder {
		config[name] = path[i]
	}
}

// descendByCoordinate walks a tree root, consuming one coordinate per
// level: at each level it picks the child whose cumulative leaf-count
// interval contains that level's own coordinate (no renormalization —
// every level gets a fresh, independent coordinate from the vector, so
// a chain of N dependent parameters is addressed by N coordinates, one
// per parameter).
func descendByCoordinate(root *Node, coords []float64) leafResult {
	node := root
	var path []any
	level := 0

	for {
		if len(node.Children) == 1 && node.Children[0].compressed() {
			rng := node.Children[0].CompressedRange
			c := coords[level]
			pos := int(math.Ceil(c*float64(rng.Len()))) - 1
			if pos < 0 {
				pos = 0
			}
			if pos >= rng.Len() {
				pos = rng.Len() - 1
			}
			path = append(path, rng.At(pos))
			return leafResult{path: path}
		}

		c := coords[level]
		total := node.NumLeafs
		cumulative := 0
		var chosen *Node
		for _, child := range node.Children {
			l := float64(cumulative)
			h := float64(cumulative + child.NumLeafs)
			if c*float64(total) > l && c*float64(total) <= h {
				chosen = child
				break
			}
			cumulative += child.NumLeafs
		}
		if chosen == nil {
			chosen = node.Children[len(node.Children)-1]
		}

		path = append(path, chosen.Data)
		level++
		if len(chosen.Children) == 0 {
			return leafResult{path: path}
		}
		node = chosen
	}
}

// descendByIndex walks a tree root by successive division/modulo over
// child leaf counts, picking the child covering idx and reducing idx to
// that child's local offset.
func descendByIndex(root *Node, idx int) []any {
	node := root
	var path []any

	for {
		if len(node.Children) == 1 && node.Children[0].compressed() {
			rng := node.Children[0].CompressedRange
			path = append(path, rng.At(idx))
			return path
		}

		remaining := idx
		var chosen *Node
		for _, child := range node.Children {
			if remaining < child.NumLeafs {
				chosen = child
				break
			}
			remaining -= child.NumLeafs
		}
		path = append(path, chosen.Data)
		if len(chosen.Children) == 0 {
			return path
		}
		idx = remaining
		node = chosen
	}
}
