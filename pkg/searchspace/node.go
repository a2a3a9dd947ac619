package searchspace

import "github.com/atf-go/atf/pkg/ranges"

// Node is one vertex of a chain-of-trees. A non-compressed Node holds the
// value assigned to its level's parameter in Data; a compressed Node (the
// sole child of a single-parameter, unconstrained group's root) holds the
// group's Range directly in CompressedRange and has no children.
type Node struct {
	Data            any
	Children        []*Node
	NumLeafs        int
	CompressedRange ranges.Range
}

func (n *Node) compressed() bool { return n.CompressedRange != nil }

// ChainedTree is one independent parameter group's materialized tree.
type ChainedTree struct {
	// ParamOrder lists, in descent order, the names of the parameters
	// this tree assigns one level per. For a compressed tree it has
	// exactly one entry.
	ParamOrder []string
	Root       *Node
	// LeafConfigs holds, when 1D indexing was requested at construction,
	// every leaf's partial configuration in left-to-right leaf order,
	// giving O(1) by-index lookups instead of a tree descent.
	LeafConfigs []map[string]any
}

// NumLeafs is the number of concrete assignments this tree admits.
func (t *ChainedTree) NumLeafs() int { return t.Root.NumLeafs }
