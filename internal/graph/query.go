package graph

import (
	"fmt"
	"sort"

	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

// DefaultMaxDepth bounds traversals when the caller does not set a depth.
const DefaultMaxDepth = 10

// DepEntry is one settled node of a bounded traversal.
type DepEntry struct {
	Notation string   `json:"notation"`
	Distance int      `json:"distance"`
	RefPath  []string `json:"ref_path"` // reference types along the path from the start
}

// Deps runs a forward breadth-first search from start along edges whose type
// is in types, bounded by maxDepth. The start node itself is excluded; each
// reachable node is settled exactly once, so cyclic graphs terminate.
func (g *Graph) Deps(start string, types []refs.Type, maxDepth int) ([]DepEntry, error) {
	return g.traverse(start, types, maxDepth, g.out)
}

// Rdeps is Deps on the transposed graph: the components that point at start.
// Depth 1 yields direct dependents only, the shape used for impact analysis.
func (g *Graph) Rdeps(start string, types []refs.Type, maxDepth int) ([]DepEntry, error) {
	return g.traverse(start, types, maxDepth, g.in)
}

func (g *Graph) traverse(start string, types []refs.Type, maxDepth int, edges map[string][]Edge) ([]DepEntry, error) {
	if !g.Has(start) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, start)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	allowed := typeSet(types)

	type queueItem struct {
		notation string
		depth    int
		refPath  []string
	}

	queue := []queueItem{{notation: start, depth: 0}}
	visited := map[string]bool{start: true}
	out := make([]DepEntry, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth >= maxDepth {
			continue
		}

		for _, edge := range edges[current.notation] {
			if !allowed[edge.Type] {
				continue
			}
			next := other(edge, current.notation)
			if visited[next] {
				continue
			}
			visited[next] = true

			refPath := make([]string, 0, len(current.refPath)+1)
			refPath = append(refPath, current.refPath...)
			refPath = append(refPath, string(edge.Type))

			out = append(out, DepEntry{
				Notation: next,
				Distance: current.depth + 1,
				RefPath:  refPath,
			})
			queue = append(queue, queueItem{notation: next, depth: current.depth + 1, refPath: refPath})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Notation < out[j].Notation
	})
	return out, nil
}

// other returns the far end of an edge relative to the node it was indexed
// under, so the same traversal works on forward and transposed edge maps.
func other(edge Edge, from string) string {
	if edge.From == from {
		return edge.To
	}
	return edge.From
}
