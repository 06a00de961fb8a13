package output

import (
	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/graph"
)

// Result envelopes always carry status plus enough structure for a caller to
// branch on counts without re-parsing prose.

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ComponentRecord is the wire shape of one indexed component.
type ComponentRecord struct {
	Notation    string `json:"notation"`
	Type        string `json:"type"`
	Bundle      string `json:"bundle"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// ScanResult is the envelope of the scan operation.
type ScanResult struct {
	Status       string                `json:"status"`
	Operation    string                `json:"operation"`
	Total        int                   `json:"total"`
	Scanned      int                   `json:"scanned"`
	PerType      map[string]int        `json:"per_type"`
	Bundles      []catalog.Bundle      `json:"bundles"`
	Components   []ComponentRecord     `json:"components"`
	WarningCount int                   `json:"warning_count"`
	Warnings     []catalog.ScanWarning `json:"warnings,omitempty"`
}

// DepInfo describes one forward dependency in the flat deps map.
type DepInfo struct {
	Distance int      `json:"distance"`
	RefPath  []string `json:"ref_path"`
}

// DepsResult is the envelope of the deps operation.
type DepsResult struct {
	Status       string             `json:"status"`
	Operation    string             `json:"operation"`
	Component    string             `json:"component"`
	MaxDepth     int                `json:"max_depth"`
	PrimaryCount int                `json:"primary_count"`
	Dependencies map[string]DepInfo `json:"dependencies"`
}

// DependentRecord is one entry of the rdeps listing.
type DependentRecord struct {
	Notation string   `json:"notation"`
	Distance int      `json:"distance"`
	RefPath  []string `json:"ref_path"`
}

// RdepsResult is the envelope of the rdeps operation.
type RdepsResult struct {
	Status         string            `json:"status"`
	Operation      string            `json:"operation"`
	Component      string            `json:"component"`
	MaxDepth       int               `json:"max_depth"`
	DependentCount int               `json:"dependent_count"`
	Dependents     []DependentRecord `json:"dependents"`
}

// TreeResult is the envelope of the tree operation.
type TreeResult struct {
	Status    string          `json:"status"`
	Operation string          `json:"operation"`
	Component string          `json:"component"`
	MaxDepth  int             `json:"max_depth"`
	Root      *graph.TreeNode `json:"root"`
}

// ValidateResult is the envelope of the validate operation. Findings are
// data, not failure: status stays ok regardless of counts.
type ValidateResult struct {
	Status      string            `json:"status"`
	Operation   string            `json:"operation"`
	BrokenCount int               `json:"broken_count"`
	Broken      []graph.BrokenRef `json:"broken"`
	CycleCount  int               `json:"cycle_count"`
	Cycles      [][]string        `json:"cycles"`
}

// ErrorResult is the envelope for data-carrying failures, e.g. a query
// component absent from the catalog.
type ErrorResult struct {
	Status    string `json:"status"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
}
