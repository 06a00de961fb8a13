package graph

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

func TestDepsFollowsChainWithDistances(t *testing.T) {
	g := buildTestGraph(t)

	deps, err := g.Deps("core:pipeline", nil, 2)
	if err != nil {
		t.Fatalf("Deps failed: %v", err)
	}

	expected := []DepEntry{
		{Notation: "core:build", Distance: 1, RefPath: []string{"skill"}},
		{Notation: "core:compile", Distance: 2, RefPath: []string{"skill", "skill"}},
	}
	if !reflect.DeepEqual(deps, expected) {
		t.Fatalf("unexpected deps:\n got %+v\nwant %+v", deps, expected)
	}
}

func TestDepsDepthBoundIsMonotonic(t *testing.T) {
	g := buildTestGraph(t)

	shallow, err := g.Deps("core:pipeline", nil, 1)
	if err != nil {
		t.Fatalf("Deps failed: %v", err)
	}
	deep, err := g.Deps("core:pipeline", nil, 2)
	if err != nil {
		t.Fatalf("Deps failed: %v", err)
	}

	if len(shallow) != 1 || shallow[0].Notation != "core:build" {
		t.Fatalf("expected depth 1 to stop at direct deps, got %+v", shallow)
	}
	if len(deep) < len(shallow) {
		t.Fatalf("deeper traversal lost nodes: %d < %d", len(deep), len(shallow))
	}
}

func TestDepsAtDepthOneMatchesDirectResolvedRefs(t *testing.T) {
	g := buildTestGraph(t)

	deps, err := g.Deps("core:pipeline", nil, 1)
	if err != nil {
		t.Fatalf("Deps failed: %v", err)
	}
	got := make(map[string]bool)
	for _, dep := range deps {
		got[dep.Notation] = true
	}

	want := make(map[string]bool)
	for _, ref := range g.References("core:pipeline") {
		if ref.Resolution == refs.Resolved && ref.Target != "core:pipeline" {
			want[ref.Target] = true
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("depth-1 deps diverge from direct resolved refs:\n got %v\nwant %v", got, want)
	}
}

func TestRdepsWalksTransposedEdges(t *testing.T) {
	g := buildTestGraph(t)

	direct, err := g.Rdeps("core:build", nil, 1)
	if err != nil {
		t.Fatalf("Rdeps failed: %v", err)
	}
	if len(direct) != 1 || direct[0].Notation != "core:pipeline" {
		t.Fatalf("expected only the direct dependent, got %+v", direct)
	}

	full, err := g.Rdeps("core:compile", nil, 0)
	if err != nil {
		t.Fatalf("Rdeps failed: %v", err)
	}
	expected := []DepEntry{
		{Notation: "core:build", Distance: 1, RefPath: []string{"skill"}},
		{Notation: "core:pipeline", Distance: 2, RefPath: []string{"skill", "skill"}},
	}
	if !reflect.DeepEqual(full, expected) {
		t.Fatalf("unexpected rdeps:\n got %+v\nwant %+v", full, expected)
	}
}

func TestTraversalTerminatesOnCycle(t *testing.T) {
	g := buildTestGraph(t)

	deps, err := g.Deps("core:ying", nil, 0)
	if err != nil {
		t.Fatalf("Deps failed: %v", err)
	}
	if len(deps) != 1 || deps[0].Notation != "core:yang" {
		t.Fatalf("expected cycle partner once and no revisits, got %+v", deps)
	}
}

func TestDepsTypeFilter(t *testing.T) {
	g := buildTestGraph(t)

	deps, err := g.Deps("core:pipeline", []refs.Type{refs.TypeImplements}, 0)
	if err != nil {
		t.Fatalf("Deps failed: %v", err)
	}
	if len(deps) != 0 {
		t.Fatalf("expected no implements edges from core:pipeline, got %+v", deps)
	}
}

func TestQueryUnknownComponent(t *testing.T) {
	g := buildTestGraph(t)

	if _, err := g.Deps("core:nope", nil, 0); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
	if _, err := g.Rdeps("core:nope", nil, 0); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
	if _, err := g.Tree("core:nope", nil, 0); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
}

func TestTreeNestsChildrenByEdgeType(t *testing.T) {
	g := buildTestGraph(t)

	tree, err := g.Tree("core:pipeline", nil, 0)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if tree.Notation != "core:pipeline" || len(tree.Children) != 1 {
		t.Fatalf("unexpected root: %+v", tree)
	}
	build := tree.Children[0]
	if build.Notation != "core:build" || build.RefType != "skill" {
		t.Fatalf("unexpected child: %+v", build)
	}
	if len(build.Children) != 1 || build.Children[0].Notation != "core:compile" {
		t.Fatalf("unexpected grandchild: %+v", build.Children)
	}
}

func TestTreeMarksCycleBackEdge(t *testing.T) {
	g := buildTestGraph(t)

	tree, err := g.Tree("core:ying", nil, 0)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected one child, got %+v", tree.Children)
	}
	yang := tree.Children[0]
	if yang.Notation != "core:yang" || yang.Cycle {
		t.Fatalf("unexpected child: %+v", yang)
	}
	if len(yang.Children) != 1 {
		t.Fatalf("expected the back-edge child, got %+v", yang.Children)
	}
	back := yang.Children[0]
	if back.Notation != "core:ying" || !back.Cycle || len(back.Children) != 0 {
		t.Fatalf("expected an unexpanded cycle marker, got %+v", back)
	}
}

func TestValidateReportsBrokenRefsAndCycles(t *testing.T) {
	g := buildTestGraph(t)

	report := g.Validate(nil)

	foundScript, foundImplements := false, false
	for _, broken := range report.Broken {
		if broken.Source == "core:pipeline" && broken.Type == "script" && broken.RawMention == "core:missing:run" {
			foundScript = true
		}
		if broken.Source == "core:pipeline" && broken.Type == "implements" && broken.RawMention == "contracts/api.md" {
			foundImplements = true
		}
	}
	if !foundScript || !foundImplements {
		t.Fatalf("expected both broken refs, got %+v", report.Broken)
	}

	expected := [][]string{{"core:yang", "core:ying"}}
	if !reflect.DeepEqual(report.Cycles, expected) {
		t.Fatalf("expected one canonical cycle:\n got %v\nwant %v", report.Cycles, expected)
	}
}

func TestValidateTypeFilterNarrowsFindings(t *testing.T) {
	g := buildTestGraph(t)

	report := g.Validate([]refs.Type{refs.TypeImplements})
	for _, broken := range report.Broken {
		if broken.Type != "implements" {
			t.Fatalf("type filter leaked %+v", broken)
		}
	}
	if len(report.Cycles) != 0 {
		t.Fatalf("skill cycle should vanish under implements filter, got %v", report.Cycles)
	}
}

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}

	write("core/skills/pipeline/SKILL.md", `---
name: pipeline
description: Runs the full pipeline
implements: contracts/api.md
---
# Pipeline

Use skill `+"`build`"+` first.
Run `+"`core:missing:run`"+` when stuck.
`)
	write("core/skills/build/SKILL.md", "# Build\n\nUse skill `compile` to finish.\n")
	write("core/skills/compile/SKILL.md", "# Compile\n")
	write("core/skills/ying/SKILL.md", "# Ying\n\nUse skill `yang` as needed.\n")
	write("core/skills/yang/SKILL.md", "# Yang\n\nUse skill `ying` as needed.\n")

	cat, err := catalog.Scan(catalog.ScanOptions{Roots: []string{root}})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return Build(cat)
}
