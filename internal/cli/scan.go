package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/output"
)

func RunScan(cmd *cobra.Command, args []string) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	opts, err := rc.scanOptions(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	cat, err := catalog.Scan(opts)
	if err != nil {
		return err
	}
	rc.reportWarnings(cat.Warnings)
	rc.logger.Debug("scan complete",
		"components", cat.Stats.Total, "bundles", len(cat.Bundles), "elapsed", time.Since(start))

	components := make([]output.ComponentRecord, 0, len(cat.Components))
	for _, comp := range cat.Components {
		components = append(components, output.ComponentRecord{
			Notation:    comp.Notation,
			Type:        comp.Kind.String(),
			Bundle:      comp.Bundle,
			Path:        comp.Path,
			Description: comp.Description,
		})
	}

	return rc.emit(output.ScanResult{
		Status:       output.StatusOK,
		Operation:    "scan",
		Total:        cat.Stats.Total,
		Scanned:      cat.Stats.Scanned,
		PerType:      cat.Stats.PerType,
		Bundles:      cat.Bundles,
		Components:   components,
		WarningCount: len(cat.Warnings),
		Warnings:     cat.Warnings,
	})
}
