package refs

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
)

var (
	scriptRe = regexp.MustCompile("\x60([A-Za-z0-9][\\w.-]*:[\\w.-]+:[\\w.-]+)\x60")

	skillAfterRe  = regexp.MustCompile("(?i)\\bskill[:\\s]+\x60([A-Za-z0-9][\\w-]*(?::[\\w-]+)?)\x60")
	skillBeforeRe = regexp.MustCompile("(?i)\x60([A-Za-z0-9][\\w-]*(?::[\\w-]+)?)\x60\\s+skill\\b")
	skillCallRe   = regexp.MustCompile(`\bSkill\(([A-Za-z0-9][\w-]*(?::[\w-]+)?)\)`)

	pyImportRe  = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	pyFromRe    = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`)
	shSourceRe  = regexp.MustCompile(`^\s*(?:source|\.)\s+([^\s;&|]+)`)
	jsImportRe  = regexp.MustCompile(`^\s*import\b.*?\bfrom\s+['"]([^'"]+)['"]`)
	jsRequireRe = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)

	pathRe = regexp.MustCompile("(?:^|[\\s\x60\"'(=])((?:\\./)?(?:[\\w.-]+/)+[\\w.-]+\\.[A-Za-z0-9]{1,8})")
)

type extraction struct {
	comp      *catalog.Component
	cat       *catalog.Catalog
	lines     []string
	bodyStart int // first line index past the metadata block
}

// bodyLines yields (1-based line number, text) pairs for the component body,
// skipping the metadata block so header values are not reported as prose
// mentions.
func (ex *extraction) bodyLines(fn func(lineNo int, line string)) {
	for i := ex.bodyStart; i < len(ex.lines); i++ {
		fn(i+1, ex.lines[i])
	}
}

// Extract classifies and resolves the typed references a component makes.
// It never fails: an unreadable component simply yields no references, and
// resolution status is attached per reference rather than treated as an
// error. For a fixed component and catalog the result order is stable.
func Extract(comp *catalog.Component, cat *catalog.Catalog) []Reference {
	text, err := comp.Text()
	if err != nil {
		return nil
	}

	lines := strings.Split(text, "\n")
	ex := &extraction{comp: comp, cat: cat, lines: lines}
	if strings.HasSuffix(comp.Path, ".md") && len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				ex.bodyStart = i + 1
				break
			}
		}
	}

	extractors := []func(*extraction) []Reference{
		extractScripts,
		extractSkills,
		extractImports,
		extractPaths,
		extractImplements,
	}

	out := make([]Reference, 0)
	for _, extractor := range extractors {
		out = append(out, extractor(ex)...)
	}
	return dedupe(out)
}

func extractScripts(ex *extraction) []Reference {
	out := make([]Reference, 0)
	ex.bodyLines(func(lineNo int, line string) {
		for _, match := range scriptRe.FindAllStringSubmatch(line, -1) {
			raw := match[1]
			parts := catalog.SplitNotation(raw)
			// Disambiguated command/agent/test forms are three-part too but
			// are not script invocations.
			if len(parts) != 3 || parts[1] == "commands" || parts[1] == "agents" || parts[1] == "tests" {
				continue
			}
			ref := Reference{
				Source:     ex.comp.Notation,
				Type:       TypeScript,
				RawMention: raw,
				Line:       lineNo,
			}
			resolveScriptNotation(ex.cat, raw, &ref)
			out = append(out, ref)
		}
	})
	return out
}

func extractSkills(ex *extraction) []Reference {
	out := make([]Reference, 0)
	ex.bodyLines(func(lineNo int, line string) {
		seen := make(map[string]bool)
		for _, re := range []*regexp.Regexp{skillAfterRe, skillBeforeRe, skillCallRe} {
			for _, match := range re.FindAllStringSubmatch(line, -1) {
				raw := match[1]
				if seen[raw] {
					continue
				}
				seen[raw] = true
				ref := Reference{
					Source:     ex.comp.Notation,
					Type:       TypeSkill,
					RawMention: raw,
					Line:       lineNo,
				}
				resolveSkillMention(ex.cat, ex.comp.Bundle, raw, &ref)
				out = append(out, ref)
			}
		}
	})
	return out
}

func extractImports(ex *extraction) []Reference {
	if ex.comp.Kind != catalog.ResourceScript {
		return nil
	}

	var res []*regexp.Regexp
	switch strings.ToLower(filepath.Ext(ex.comp.Path)) {
	case ".py":
		res = []*regexp.Regexp{pyImportRe, pyFromRe}
	case ".sh":
		res = []*regexp.Regexp{shSourceRe}
	case ".js", ".ts":
		res = []*regexp.Regexp{jsImportRe, jsRequireRe}
	default:
		return nil
	}

	out := make([]Reference, 0)
	for i, line := range ex.lines {
		for _, re := range res {
			match := re.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			raw := strings.TrimSpace(match[1])
			if raw == "" {
				continue
			}
			ref := Reference{
				Source:     ex.comp.Notation,
				Type:       TypeImport,
				RawMention: raw,
				Line:       i + 1,
			}
			resolveImport(ex.cat, ex.comp, raw, &ref)
			out = append(out, ref)
		}
	}
	return out
}

func extractPaths(ex *extraction) []Reference {
	out := make([]Reference, 0)
	ex.bodyLines(func(lineNo int, line string) {
		for _, match := range pathRe.FindAllStringSubmatch(line, -1) {
			raw := strings.TrimPrefix(match[1], "./")
			ref := Reference{
				Source:     ex.comp.Notation,
				Type:       TypePath,
				RawMention: raw,
				Line:       lineNo,
			}
			if !resolvePathMention(ex.cat, ex.comp, raw, &ref) {
				continue // noise: not a path under any indexed bundle
			}
			if ref.Target == ex.comp.Notation {
				continue
			}
			out = append(out, ref)
		}
	})
	return out
}

func extractImplements(ex *extraction) []Reference {
	if !strings.HasSuffix(ex.comp.Path, ".md") {
		return nil
	}
	text := strings.Join(ex.lines, "\n")
	fm, line, found, err := catalog.ParseFrontmatter(text)
	if err != nil || !found || strings.TrimSpace(fm.Implements) == "" {
		return nil
	}

	raw := strings.TrimSpace(fm.Implements)
	ref := Reference{
		Source:     ex.comp.Notation,
		Type:       TypeImplements,
		RawMention: raw,
		Line:       line,
	}
	resolveImplements(ex.cat, ex.comp, raw, &ref)
	return []Reference{ref}
}

// dedupe removes repeated (type, mention, line) entries and keeps the rest
// in pipeline order, sorted by line within each type.
func dedupe(refs []Reference) []Reference {
	seen := make(map[string]bool, len(refs))
	out := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		key := string(ref.Type) + "|" + ref.RawMention + "|" + strconv.Itoa(ref.Line)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ref)
	}

	order := make(map[Type]int, len(AllTypes()))
	for i, t := range AllTypes() {
		order[t] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order[out[i].Type] != order[out[j].Type] {
			return order[out[i].Type] < order[out[j].Type]
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].RawMention < out[j].RawMention
	})
	return out
}
