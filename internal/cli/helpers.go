package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/config"
	"github.com/skillgraph-dev/skillgraph/internal/fileutil"
	"github.com/skillgraph-dev/skillgraph/internal/output"
)

var errInvalidDepth = errors.New("--depth must be a positive integer")

// runContext carries the config, logger, and output settings shared by every
// subcommand invocation.
type runContext struct {
	cfg    *config.Config
	logger *log.Logger
	format output.Format
	dest   output.Destination
	quiet  bool
}

func newRunContext(cmd *cobra.Command) (*runContext, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, err
	}

	quiet, err := OptionalBoolFlag(cmd, "quiet")
	if err != nil {
		return nil, err
	}
	verbose, err := OptionalBoolFlag(cmd, "verbose")
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false, Prefix: "skillgraph"})
	switch {
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	case verbose:
		logger.SetLevel(log.DebugLevel)
	}

	formatValue, err := OptionalStringFlag(cmd, "format")
	if err != nil {
		return nil, err
	}
	if formatValue == "" {
		formatValue = cfg.Format
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return nil, err
	}

	direct, err := OptionalBoolFlag(cmd, "direct-result")
	if err != nil {
		return nil, err
	}
	outputPath, err := OptionalStringFlag(cmd, "output")
	if err != nil {
		return nil, err
	}

	return &runContext{
		cfg:    cfg,
		logger: logger,
		format: format,
		dest:   output.Destination{Direct: direct, Path: outputPath},
		quiet:  quiet,
	}, nil
}

// scanOptions assembles catalog.ScanOptions from flags and config defaults.
// Scan-only filters are absent on query commands and resolve to zero values.
func (rc *runContext) scanOptions(cmd *cobra.Command) (catalog.ScanOptions, error) {
	var opts catalog.ScanOptions

	roots, err := OptionalStringSliceFlag(cmd, "root")
	if err != nil {
		return opts, err
	}
	if len(roots) == 0 {
		roots = rc.cfg.Roots
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	opts.Roots = fileutil.DedupeStrings(roots)
	opts.ProjectRoot = rc.cfg.ProjectRoot

	if opts.IncludeProject, err = OptionalBoolFlag(cmd, "include-project"); err != nil {
		return opts, err
	}
	if opts.IncludeTests, err = OptionalBoolFlag(cmd, "include-tests"); err != nil {
		return opts, err
	}
	if opts.IncludeDescriptions, err = OptionalBoolFlag(cmd, "include-descriptions"); err != nil {
		return opts, err
	}

	if opts.Types, err = ParseResourceTypes(cmd); err != nil {
		return opts, err
	}
	bundles, err := OptionalStringFlag(cmd, "bundles")
	if err != nil {
		return opts, err
	}
	if bundles != "" {
		opts.Bundles = fileutil.DedupeAndSort(splitCSV(bundles))
	}
	if opts.NamePattern, err = OptionalStringFlag(cmd, "name-pattern"); err != nil {
		return opts, err
	}
	if opts.ContentPattern, err = OptionalStringFlag(cmd, "content-pattern"); err != nil {
		return opts, err
	}

	return opts, nil
}

// depth resolves --depth against the configured default. An explicitly set
// flag must be positive: a zero bound would make every traversal empty.
func (rc *runContext) depth(cmd *cobra.Command) (int, error) {
	if cmd == nil || cmd.Flags().Lookup("depth") == nil || !cmd.Flags().Changed("depth") {
		return rc.cfg.Depth, nil
	}
	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return 0, fmt.Errorf("failed to read --depth flag: %w", err)
	}
	if depth <= 0 {
		return 0, errInvalidDepth
	}
	return depth, nil
}

// emit serializes the result and delivers it to the selected destination.
func (rc *runContext) emit(result any) error {
	data, err := output.Encode(result, rc.format)
	if err != nil {
		return err
	}
	path, err := output.Write(data, rc.dest, rc.format)
	if err != nil {
		return err
	}
	if path != "" {
		rc.logger.Info("result written", "path", path, "format", rc.format)
	}
	return nil
}

func (rc *runContext) reportWarnings(warnings []catalog.ScanWarning) {
	for _, warning := range warnings {
		rc.logger.Warn("scan warning", "file", warning.File, "message", warning.Message)
	}
}
