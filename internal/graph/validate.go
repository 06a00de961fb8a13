package graph

import (
	"sort"
	"strings"

	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

// BrokenRef reports one reference whose target could not be resolved.
type BrokenRef struct {
	Source     string `json:"source"`
	Type       string `json:"type"`
	RawMention string `json:"raw_mention"`
	Resolution string `json:"resolution"`
	Line       int    `json:"line"`
}

// Report is the outcome of Validate. Findings are data: a report full of
// problems is still a successful validation run.
type Report struct {
	Broken []BrokenRef `json:"broken"`
	Cycles [][]string  `json:"cycles"`
}

// Validate runs the two independent graph checks: broken references
// (unresolved or ambiguous; external targets are legitimate) and cycles.
// Each distinct cycle is reported once, rotated to start at its
// lexicographically smallest member. Validate never fails: pathology is
// what it reports.
func (g *Graph) Validate(types []refs.Type) Report {
	allowed := typeSet(types)
	report := Report{
		Broken: make([]BrokenRef, 0),
		Cycles: make([][]string, 0),
	}

	for _, comp := range g.cat.Components {
		for _, ref := range g.refs[comp.Notation] {
			if !allowed[ref.Type] {
				continue
			}
			if ref.Resolution == refs.Unresolved || ref.Resolution == refs.Ambiguous {
				report.Broken = append(report.Broken, BrokenRef{
					Source:     ref.Source,
					Type:       string(ref.Type),
					RawMention: ref.RawMention,
					Resolution: string(ref.Resolution),
					Line:       ref.Line,
				})
			}
		}
	}

	report.Cycles = g.findCycles(allowed)
	return report
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// findCycles is an iterative three-color depth-first search. A back-edge to
// a gray node closes a cycle; the cycle is cut out of the current path.
func (g *Graph) findCycles(allowed map[refs.Type]bool) [][]string {
	color := make(map[string]int, len(g.cat.Components))
	seen := make(map[string]bool)
	cycles := make([][]string, 0)

	type frame struct {
		notation string
		edgeIdx  int
	}

	for _, comp := range g.cat.Components {
		if color[comp.Notation] != colorWhite {
			continue
		}

		stack := []frame{{notation: comp.Notation}}
		path := []string{comp.Notation}
		color[comp.Notation] = colorGray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.out[top.notation]

			advanced := false
			for top.edgeIdx < len(edges) {
				edge := edges[top.edgeIdx]
				top.edgeIdx++
				if !allowed[edge.Type] {
					continue
				}

				switch color[edge.To] {
				case colorWhite:
					color[edge.To] = colorGray
					stack = append(stack, frame{notation: edge.To})
					path = append(path, edge.To)
					advanced = true
				case colorGray:
					cycle := cutCycle(path, edge.To)
					key := strings.Join(cycle, "\x00")
					if !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
				}
				if advanced {
					break
				}
			}

			if !advanced {
				color[top.notation] = colorBlack
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], "\x00") < strings.Join(cycles[j], "\x00")
	})
	return cycles
}

// cutCycle extracts the cycle closed by a back-edge to target and rotates it
// to start at its lexicographically smallest member, so the same cycle found
// from different entry points canonicalizes identically.
func cutCycle(path []string, target string) []string {
	start := 0
	for i, notation := range path {
		if notation == target {
			start = i
			break
		}
	}
	cycle := make([]string, len(path)-start)
	copy(cycle, path[start:])

	smallest := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}
