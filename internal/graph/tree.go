package graph

import (
	"fmt"

	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

// TreeNode is one node of a nested dependency rendering.
type TreeNode struct {
	Notation string      `json:"notation"`
	RefType  string      `json:"ref_type,omitempty"` // edge type from the parent
	Cycle    bool        `json:"cycle,omitempty"`    // back-edge to an ancestor, not expanded
	Children []*TreeNode `json:"children,omitempty"`
}

// Tree renders the forward dependencies of start as a nested structure. A
// back-edge to an ancestor on the current root-to-node path becomes a cycle
// marker and is not descended; a shared dependency may still be re-listed
// under multiple parents.
func (g *Graph) Tree(start string, types []refs.Type, maxDepth int) (*TreeNode, error) {
	if !g.Has(start) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, start)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	allowed := typeSet(types)

	root := &TreeNode{Notation: start}
	onPath := map[string]bool{start: true}
	g.expand(root, allowed, onPath, maxDepth)
	return root, nil
}

func (g *Graph) expand(node *TreeNode, allowed map[refs.Type]bool, onPath map[string]bool, depthLeft int) {
	if depthLeft <= 0 {
		return
	}
	for _, edge := range g.out[node.Notation] {
		if !allowed[edge.Type] {
			continue
		}
		child := &TreeNode{Notation: edge.To, RefType: string(edge.Type)}
		node.Children = append(node.Children, child)

		if onPath[edge.To] {
			child.Cycle = true
			continue
		}
		onPath[edge.To] = true
		g.expand(child, allowed, onPath, depthLeft-1)
		delete(onPath, edge.To)
	}
}
