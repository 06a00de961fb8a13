package graph

import (
	"errors"
	"sort"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

// ErrUnknownComponent marks a query start component absent from the catalog.
// Callers surface it as a data-carrying error payload, not a crash, so batch
// iteration can continue past misses.
var ErrUnknownComponent = errors.New("component not found in catalog")

// Edge is one typed dependency between two components.
type Edge struct {
	From string
	To   string
	Type refs.Type
}

// Graph is a read-only view over a catalog and the references extracted from
// its components. It is built on demand and never mutated afterwards.
type Graph struct {
	cat  *catalog.Catalog
	out  map[string][]Edge
	in   map[string][]Edge
	refs map[string][]refs.Reference // by source notation, extraction order
}

// Build extracts references from every catalog component and assembles the
// dependency graph. Unresolved references are retained for validation but
// contribute no edge.
func Build(cat *catalog.Catalog) *Graph {
	g := &Graph{
		cat:  cat,
		out:  make(map[string][]Edge),
		in:   make(map[string][]Edge),
		refs: make(map[string][]refs.Reference),
	}

	for _, comp := range cat.Components {
		extracted := refs.Extract(comp, cat)
		if len(extracted) > 0 {
			g.refs[comp.Notation] = extracted
		}
		for _, ref := range extracted {
			if ref.Resolution != refs.Resolved || ref.Target == "" || ref.Target == comp.Notation {
				continue
			}
			edge := Edge{From: comp.Notation, To: ref.Target, Type: ref.Type}
			g.out[edge.From] = append(g.out[edge.From], edge)
			g.in[edge.To] = append(g.in[edge.To], edge)
		}
	}

	for node := range g.out {
		g.out[node] = normalizeEdges(g.out[node])
	}
	for node := range g.in {
		g.in[node] = normalizeEdges(g.in[node])
	}
	return g
}

// Catalog returns the snapshot this graph was built from.
func (g *Graph) Catalog() *catalog.Catalog {
	return g.cat
}

// References returns the extracted references for one component, in
// extraction order.
func (g *Graph) References(notation string) []refs.Reference {
	return g.refs[notation]
}

// Has reports whether the component exists in the underlying catalog.
func (g *Graph) Has(notation string) bool {
	_, ok := g.cat.Get(notation)
	return ok
}

func normalizeEdges(edges []Edge) []Edge {
	seen := make(map[Edge]bool, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if seen[edge] {
			continue
		}
		seen[edge] = true
		out = append(out, edge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func typeSet(types []refs.Type) map[refs.Type]bool {
	set := make(map[refs.Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	if len(set) == 0 {
		for _, t := range refs.AllTypes() {
			set[t] = true
		}
	}
	return set
}
