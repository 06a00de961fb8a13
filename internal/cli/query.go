package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/graph"
	"github.com/skillgraph-dev/skillgraph/internal/output"
	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

func RunDeps(cmd *cobra.Command, args []string) error {
	return runComponentQuery(cmd, "deps", func(rc *runContext, g *graph.Graph, component string, types []refs.Type, depth int) (any, error) {
		entries, err := g.Deps(component, types, depth)
		if err != nil {
			return nil, err
		}

		deps := make(map[string]output.DepInfo, len(entries))
		primary := 0
		for _, entry := range entries {
			deps[entry.Notation] = output.DepInfo{Distance: entry.Distance, RefPath: entry.RefPath}
			if entry.Distance == 1 {
				primary++
			}
		}
		return output.DepsResult{
			Status:       output.StatusOK,
			Operation:    "deps",
			Component:    component,
			MaxDepth:     depth,
			PrimaryCount: primary,
			Dependencies: deps,
		}, nil
	})
}

func RunRdeps(cmd *cobra.Command, args []string) error {
	return runComponentQuery(cmd, "rdeps", func(rc *runContext, g *graph.Graph, component string, types []refs.Type, depth int) (any, error) {
		entries, err := g.Rdeps(component, types, depth)
		if err != nil {
			return nil, err
		}

		dependents := make([]output.DependentRecord, 0, len(entries))
		for _, entry := range entries {
			dependents = append(dependents, output.DependentRecord{
				Notation: entry.Notation,
				Distance: entry.Distance,
				RefPath:  entry.RefPath,
			})
		}
		return output.RdepsResult{
			Status:         output.StatusOK,
			Operation:      "rdeps",
			Component:      component,
			MaxDepth:       depth,
			DependentCount: len(dependents),
			Dependents:     dependents,
		}, nil
	})
}

func RunTree(cmd *cobra.Command, args []string) error {
	return runComponentQuery(cmd, "tree", func(rc *runContext, g *graph.Graph, component string, types []refs.Type, depth int) (any, error) {
		root, err := g.Tree(component, types, depth)
		if err != nil {
			return nil, err
		}
		return output.TreeResult{
			Status:    output.StatusOK,
			Operation: "tree",
			Component: component,
			MaxDepth:  depth,
			Root:      root,
		}, nil
	})
}

func RunValidate(cmd *cobra.Command, args []string) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	types, err := ParseDepTypes(cmd)
	if err != nil {
		return err
	}

	g, err := buildGraph(rc, cmd)
	if err != nil {
		return err
	}

	report := g.Validate(types)
	return rc.emit(output.ValidateResult{
		Status:      output.StatusOK,
		Operation:   "validate",
		BrokenCount: len(report.Broken),
		Broken:      report.Broken,
		CycleCount:  len(report.Cycles),
		Cycles:      report.Cycles,
	})
}

type queryFunc func(rc *runContext, g *graph.Graph, component string, types []refs.Type, depth int) (any, error)

func runComponentQuery(cmd *cobra.Command, operation string, fn queryFunc) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	component, err := OptionalStringFlag(cmd, "component")
	if err != nil {
		return err
	}
	types, err := ParseDepTypes(cmd)
	if err != nil {
		return err
	}
	depth, err := rc.depth(cmd)
	if err != nil {
		return err
	}

	g, err := buildGraph(rc, cmd)
	if err != nil {
		return err
	}

	result, err := fn(rc, g, component, types, depth)
	if err != nil {
		// A missing component is data, not a crash: callers iterating a
		// batch branch on the status field and continue.
		if errors.Is(err, graph.ErrUnknownComponent) {
			return rc.emit(output.ErrorResult{
				Status:    output.StatusError,
				Operation: operation,
				Error:     err.Error(),
			})
		}
		return err
	}
	return rc.emit(result)
}

func buildGraph(rc *runContext, cmd *cobra.Command) (*graph.Graph, error) {
	opts, err := rc.scanOptions(cmd)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	cat, err := catalog.Scan(opts)
	if err != nil {
		return nil, err
	}
	rc.reportWarnings(cat.Warnings)

	g := graph.Build(cat)
	rc.logger.Debug("graph built", "components", cat.Stats.Total, "elapsed", time.Since(start))
	return g, nil
}
