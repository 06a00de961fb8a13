package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skillgraph",
		Short: "Index component bundles and answer dependency queries",
		Long: `Skillgraph indexes a tree of versioned component bundles - skills,
commands, agents, scripts, and tests - extracts the typed references each
component makes, and answers forward, reverse, tree, and validation
queries over the resulting dependency graph.

Each invocation re-scans the tree; nothing is persisted between calls.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringSlice("root", nil, "Bundle collection root (repeatable; default: config, then $SKILLGRAPH_ROOT, then cwd)")
	rootCmd.PersistentFlags().String("format", "", "Output serialization: json|toon")
	rootCmd.PersistentFlags().String("output", "", "Destination file when not using --direct-result")
	rootCmd.PersistentFlags().Bool("direct-result", false, "Emit the result to stdout instead of a file")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress diagnostics on stderr")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug diagnostics on stderr")
	rootCmd.PersistentFlags().Bool("include-tests", false, "Index test components")
	rootCmd.PersistentFlags().Bool("include-project", false, "Include the project-local component scope")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Index bundles and report the component inventory",
		RunE:  RunScan,
	}
	scanCmd.Flags().String("resource-types", "", "Filter of skill,command,agent,script,test (csv)")
	scanCmd.Flags().String("bundles", "", "Bundle name filter (csv)")
	scanCmd.Flags().String("name-pattern", "", "Glob patterns joined by | matched against component names")
	scanCmd.Flags().String("content-pattern", "", "Regular expression filter over component text")
	scanCmd.Flags().Bool("include-descriptions", false, "Parse metadata blocks and attach descriptions")

	depsCmd := &cobra.Command{
		Use:   "deps",
		Short: "List the components a component depends on",
		RunE:  RunDeps,
	}
	rdepsCmd := &cobra.Command{
		Use:   "rdeps",
		Short: "List the components that depend on a component",
		RunE:  RunRdeps,
	}
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Render a component's dependencies as a nested tree",
		RunE:  RunTree,
	}
	for _, cmd := range []*cobra.Command{depsCmd, rdepsCmd, treeCmd} {
		cmd.Flags().String("component", "", "Target component notation")
		cmd.Flags().String("dep-types", "", "Filter of script,skill,import,path,implements (csv)")
		cmd.Flags().Int("depth", 0, "Max traversal depth (default 10)")
		_ = cmd.MarkFlagRequired("component")
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Report broken references and dependency cycles",
		RunE:  RunValidate,
	}
	validateCmd.Flags().String("dep-types", "", "Filter of script,skill,import,path,implements (csv)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("skillgraph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		scanCmd,
		depsCmd,
		rdepsCmd,
		treeCmd,
		validateCmd,
		versionCmd,
	)

	return rootCmd
}
