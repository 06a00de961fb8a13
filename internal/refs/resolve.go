package refs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
)

// Bare skill names resolve same-bundle first, then to a unique global match.
// The precedence is inferred from usage in the source material rather than
// settled behavior; flipping this constant changes it in one place.
const bareNamePrefersSameBundle = true

func resolveScriptNotation(cat *catalog.Catalog, raw string, ref *Reference) {
	if comp, ok := cat.Get(raw); ok {
		ref.Target = comp.Notation
		ref.Resolution = Resolved
		return
	}
	ref.Resolution = Unresolved
}

func resolveSkillMention(cat *catalog.Catalog, fromBundle, raw string, ref *Reference) {
	if strings.Contains(raw, ":") {
		if comp, ok := cat.Get(raw); ok && comp.Kind == catalog.ResourceSkill {
			ref.Target = comp.Notation
			ref.Resolution = Resolved
			return
		}
		ref.Resolution = Unresolved
		return
	}

	if bareNamePrefersSameBundle {
		if comp, ok := cat.Get(catalog.JoinNotation(fromBundle, raw)); ok && comp.Kind == catalog.ResourceSkill {
			ref.Target = comp.Notation
			ref.Resolution = Resolved
			return
		}
	}

	matches := cat.SkillsNamed(raw)
	switch len(matches) {
	case 1:
		ref.Target = matches[0].Notation
		ref.Resolution = Resolved
	case 0:
		ref.Resolution = Unresolved
	default:
		ref.Resolution = Ambiguous
	}
}

// resolveImport maps an imported module to an indexed script: same skill
// first, then a unique global script name; anything else is an external
// module, not a broken reference.
func resolveImport(cat *catalog.Catalog, source *catalog.Component, raw string, ref *Reference) {
	name := moduleBase(raw)
	if name == "" {
		ref.Resolution = External
		return
	}

	matches := cat.ScriptsNamed(name)
	sameSkill := make([]*catalog.Component, 0, len(matches))
	for _, m := range matches {
		if m.Bundle == source.Bundle && m.Skill == source.Skill && m.Notation != source.Notation {
			sameSkill = append(sameSkill, m)
		}
	}

	if len(sameSkill) == 1 {
		ref.Target = sameSkill[0].Notation
		ref.Resolution = Resolved
		return
	}
	if len(sameSkill) == 0 {
		others := make([]*catalog.Component, 0, len(matches))
		for _, m := range matches {
			if m.Notation != source.Notation {
				others = append(others, m)
			}
		}
		switch len(others) {
		case 1:
			ref.Target = others[0].Notation
			ref.Resolution = Resolved
			return
		case 0:
			ref.Resolution = External
			return
		}
	}
	ref.Resolution = Ambiguous
}

// resolvePathMention reports whether the mention is a path under an indexed
// bundle at all; mentions with no known bundle prefix are dropped as noise.
func resolvePathMention(cat *catalog.Catalog, source *catalog.Component, raw string, ref *Reference) bool {
	candidates := []string{raw, source.Bundle + "/" + raw}
	for _, candidate := range candidates {
		if owner, ok := componentOwningPath(cat, candidate); ok {
			ref.Target = owner.Notation
			ref.Resolution = Resolved
			return true
		}
	}

	for _, candidate := range candidates {
		bundle, known := cat.BundleNamed(strings.SplitN(candidate, "/", 2)[0])
		if !known {
			continue
		}
		if _, err := os.Stat(filepath.Join(filepath.Dir(bundle.Root), filepath.FromSlash(candidate))); err == nil {
			// A real file inside a bundle that is not part of any
			// component's file set.
			ref.Resolution = External
			return true
		}
	}

	// Nothing on disk and no owning component. The mention is a broken path
	// only if it names a known bundle itself; otherwise it is noise.
	if _, known := cat.BundleNamed(strings.SplitN(raw, "/", 2)[0]); known {
		ref.Resolution = Unresolved
		return true
	}
	return false
}

func resolveImplements(cat *catalog.Catalog, source *catalog.Component, raw string, ref *Reference) {
	raw = strings.TrimPrefix(filepath.ToSlash(raw), "./")
	candidates := []string{raw, source.Bundle + "/" + raw}

	for _, candidate := range candidates {
		if owner, ok := componentOwningPath(cat, candidate); ok && owner.Notation != source.Notation {
			ref.Target = owner.Notation
			ref.Resolution = Resolved
			return
		}
	}

	for _, root := range cat.Roots {
		for _, candidate := range candidates {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(candidate))); err == nil {
				ref.Resolution = External
				return
			}
		}
	}
	ref.Resolution = Unresolved
}

// componentOwningPath finds the component whose file set contains the given
// slash path: an exact component file, or any file under a skill's directory.
func componentOwningPath(cat *catalog.Catalog, path string) (*catalog.Component, bool) {
	if comp, ok := cat.ByRelPath(path); ok {
		return comp, true
	}

	parts := strings.Split(path, "/")
	// bundle/skills/<skill>/... falls inside that skill's file set.
	if len(parts) >= 4 && parts[1] == "skills" {
		if comp, ok := cat.Get(catalog.JoinNotation(parts[0], parts[2])); ok && comp.Kind == catalog.ResourceSkill {
			return comp, true
		}
	}
	return nil, false
}

func moduleBase(raw string) string {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	if raw == "" {
		return ""
	}
	if idx := strings.LastIndex(raw, "/"); idx != -1 {
		raw = raw[idx+1:]
	}
	for _, ext := range []string{".py", ".sh", ".js", ".ts"} {
		raw = strings.TrimSuffix(raw, ext)
	}
	// Dotted python modules resolve by their last segment.
	if idx := strings.LastIndex(raw, "."); idx != -1 {
		raw = raw[idx+1:]
	}
	return strings.TrimSpace(raw)
}
