package searchspace

import (
	"github.com/atf-go/atf/pkg/tp"
)

// buildTree materializes an independent parameter group's chain of
// trees. groupParams must already be ordered so that every parameter's
// dependencies precede it (New guarantees this by construction order).
func buildTree(groupParams []*tp.Param) *ChainedTree {
	names := make([]string, len(groupParams))
	for i, p := range groupParams {
		names[i] = p.Name()
	}
	tree := &ChainedTree{ParamOrder: names}

	if len(groupParams) == 1 && !groupParams[0].HasConstraint() {
		rng := groupParams[0].Values()
		compressed := &Node{CompressedRange: rng, NumLeafs: rng.Len()}
		tree.Root = &Node{Children: []*Node{compressed}, NumLeafs: rng.Len()}
		return tree
	}

	children := expandLevel(groupParams, 0, make(map[string]any, len(groupParams)))
	total := 0
	for _, c := range children {
		total += c.NumLeafs
	}
	tree.Root = &Node{Children: children, NumLeafs: total}
	return tree
}

// expandLevel recursively builds every admissible child at the given
// level, pruning branches whose constraint rejects the partial
// assignment built so far and branches left with no feasible leaf.
func expandLevel(groupParams []*tp.Param, level int, partial map[string]any) []*Node {
	param := groupParams[level]
	rng := param.Values()
	isLeafLevel := level == len(groupParams)-1

	var children []*Node
	for pos := 0; pos < rng.Len(); pos++ {
		if !param.Satisfies(partial, pos) {
			continue
		}
		val := rng.At(pos)

		node := &Node{Data: val}
		if isLeafLevel {
			node.NumLeafs = 1
		} else {
			next := make(map[string]any, len(partial)+1)
			for k, v := range partial {
				next[k] = v
			}
			next[param.Name()] = val
			node.Children = expandLevel(groupParams, level+1, next)
			for _, c := range node.Children {
				node.NumLeafs += c.NumLeafs
			}
			if node.NumLeafs == 0 {
				continue
			}
		}
		children = append(children, node)
	}
	return children
}

// flattenLeafConfigs walks a tree in leaf order, returning each leaf's
// partial configuration (parameter name -> value) for this tree's
// parameters only.
func flattenLeafConfigs(tree *ChainedTree) []map[string]any {
	var out []map[string]any
	if root := tree.Root; len(root.Children) == 1 && root.Children[0].compressed() {
		rng := root.Children[0].CompressedRange
		for pos := 0; pos < rng.Len(); pos++ {
			out = append(out, map[string]any{tree.ParamOrder[0]: rng.At(pos)})
		}
		return out
	}

	var walk func(node *Node, level int, partial map[string]any)
	walk = func(node *Node, level int, partial map[string]any) {
		if len(node.Children) == 0 {
			cp := make(map[string]any, len(partial))
			for k, v := range partial {
				cp[k] = v
			}
			out = append(out, cp)
			return
		}
		for _, child := range node.Children {
			next := make(map[string]any, len(partial)+1)
			for k, v := range partial {
				next[k] = v
			}
			next[tree.ParamOrder[level]] = child.Data
			walk(child, level+1, next)
		}
	}
	walk(tree.Root, 0, map[string]any{})
	return out
}
