package catalog

import (
	"fmt"
	"os"
	"strings"
)

// ResourceKind classifies an indexed component.
type ResourceKind int

const (
	ResourceSkill ResourceKind = iota
	ResourceCommand
	ResourceAgent
	ResourceScript
	ResourceTest
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceSkill:
		return "skill"
	case ResourceCommand:
		return "command"
	case ResourceAgent:
		return "agent"
	case ResourceScript:
		return "script"
	case ResourceTest:
		return "test"
	default:
		return "unknown"
	}
}

// ParseResourceKind maps a user-supplied name to a ResourceKind.
func ParseResourceKind(value string) (ResourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "skill":
		return ResourceSkill, nil
	case "command":
		return ResourceCommand, nil
	case "agent":
		return ResourceAgent, nil
	case "script":
		return ResourceScript, nil
	case "test":
		return ResourceTest, nil
	default:
		return 0, fmt.Errorf("unknown resource type %q (supported: skill, command, agent, script, test)", value)
	}
}

// AllResourceKinds returns every kind in declaration order.
func AllResourceKinds() []ResourceKind {
	return []ResourceKind{ResourceSkill, ResourceCommand, ResourceAgent, ResourceScript, ResourceTest}
}

// Component is one named unit discovered by a scan. Text is loaded lazily
// and cached for the lifetime of the catalog.
type Component struct {
	Notation    string // canonical identifier, unique within one catalog
	Name        string
	Kind        ResourceKind
	Bundle      string
	Skill       string // owning skill for nested scripts/tests, else empty
	Path        string // slash path relative to the bundle collection root
	AbsPath     string
	Description string

	text       string
	textLoaded bool
	textErr    error
}

// Text returns the component's raw content, reading it on first use.
func (c *Component) Text() (string, error) {
	if c.textLoaded {
		return c.text, c.textErr
	}
	data, err := os.ReadFile(c.AbsPath)
	c.textLoaded = true
	if err != nil {
		c.textErr = fmt.Errorf("failed to read %s: %w", c.Path, err)
		return "", c.textErr
	}
	c.text = string(data)
	return c.text, nil
}

// Bundle is a named top-level grouping of components.
type Bundle struct {
	Name string `json:"name"`
	Root string `json:"root"` // absolute base path
}

// ScanWarning records a non-fatal per-file condition encountered during a scan.
type ScanWarning struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Stats aggregates scan counts. Scanned includes components that were
// discovered but later excluded by the content filter.
type Stats struct {
	Total   int            `json:"total"`
	Scanned int            `json:"scanned"`
	PerType map[string]int `json:"per_type"`
}

// Catalog is the aggregate result of one indexing pass. It is built fresh
// per invocation and never mutated afterwards.
type Catalog struct {
	Bundles    []Bundle
	Components []*Component // sorted by notation
	Roots      []string
	Stats      Stats
	Warnings   []ScanWarning

	byNotation    map[string]*Component
	byPath        map[string]*Component
	skillsByName  map[string][]*Component
	scriptsByName map[string][]*Component
}

func (c *Catalog) buildIndexes() {
	c.byNotation = make(map[string]*Component, len(c.Components))
	c.byPath = make(map[string]*Component, len(c.Components))
	c.skillsByName = make(map[string][]*Component)
	c.scriptsByName = make(map[string][]*Component)

	for _, comp := range c.Components {
		c.byNotation[comp.Notation] = comp
		c.byPath[comp.Path] = comp
		switch comp.Kind {
		case ResourceSkill:
			c.skillsByName[comp.Name] = append(c.skillsByName[comp.Name], comp)
		case ResourceScript:
			c.scriptsByName[comp.Name] = append(c.scriptsByName[comp.Name], comp)
		}
	}
}

// Get looks up a component by exact canonical notation.
func (c *Catalog) Get(notation string) (*Component, bool) {
	comp, ok := c.byNotation[notation]
	return comp, ok
}

// Lookup resolves a notation, also accepting the two-part default form for
// commands and agents when it is unambiguous within the bundle.
func (c *Catalog) Lookup(raw string) (*Component, bool) {
	raw = strings.TrimSpace(raw)
	if comp, ok := c.byNotation[raw]; ok {
		return comp, true
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return nil, false
	}

	candidates := make([]*Component, 0, 2)
	if comp, ok := c.byNotation[JoinNotation(parts[0], "commands", parts[1])]; ok {
		candidates = append(candidates, comp)
	}
	if comp, ok := c.byNotation[JoinNotation(parts[0], "agents", parts[1])]; ok {
		candidates = append(candidates, comp)
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return nil, false
}

// SkillsNamed returns all skills with the given bare name, sorted by notation.
func (c *Catalog) SkillsNamed(name string) []*Component {
	return c.skillsByName[name]
}

// ScriptsNamed returns all scripts with the given bare name, sorted by notation.
func (c *Catalog) ScriptsNamed(name string) []*Component {
	return c.scriptsByName[name]
}

// ByRelPath looks up the component owning the given slash path relative to
// the bundle collection root.
func (c *Catalog) ByRelPath(path string) (*Component, bool) {
	comp, ok := c.byPath[path]
	return comp, ok
}

// BundleNamed reports whether the catalog indexed a bundle with that name.
func (c *Catalog) BundleNamed(name string) (Bundle, bool) {
	for _, b := range c.Bundles {
		if b.Name == name {
			return b, true
		}
	}
	return Bundle{}, false
}

// JoinNotation builds a canonical notation from its segments.
func JoinNotation(parts ...string) string {
	return strings.Join(parts, ":")
}

// SplitNotation splits a notation into its segments.
func SplitNotation(notation string) []string {
	return strings.Split(notation, ":")
}
