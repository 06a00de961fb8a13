package refs

// Type classifies why one component points at another.
type Type string

const (
	TypeScript     Type = "script"
	TypeSkill      Type = "skill"
	TypeImport     Type = "import"
	TypePath       Type = "path"
	TypeImplements Type = "implements"
)

// AllTypes returns every reference type in pipeline order.
func AllTypes() []Type {
	return []Type{TypeScript, TypeSkill, TypeImport, TypePath, TypeImplements}
}

// Resolution is the outcome of resolving one reference against a catalog.
type Resolution string

const (
	// Resolved references name a component present in the catalog.
	Resolved Resolution = "resolved"
	// Unresolved references name a target absent from the catalog.
	Unresolved Resolution = "unresolved"
	// Ambiguous bare names match more than one catalog entry.
	Ambiguous Resolution = "ambiguous"
	// External targets are legitimate non-catalog modules or files.
	External Resolution = "external"
)

// Reference is a directed, typed edge extracted from one component's text.
type Reference struct {
	Source     string     `json:"source"`
	Type       Type       `json:"type"`
	RawMention string     `json:"raw_mention"`
	Target     string     `json:"target,omitempty"` // canonical notation once resolved
	Resolution Resolution `json:"resolution"`
	Line       int        `json:"line"`
}
