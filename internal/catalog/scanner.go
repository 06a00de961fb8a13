package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// ErrRootNotFound marks a missing or unreadable scan root.
var ErrRootNotFound = errors.New("root not found")

var scriptExtensions = map[string]bool{
	".sh": true,
	".py": true,
	".js": true,
	".ts": true,
}

var skipDirs = map[string]bool{
	".git":         true,
	".skillgraph":  true,
	"node_modules": true,
	"vendor":       true,
}

const skillEntryFile = "SKILL.md"

// ScanOptions controls one indexing pass.
type ScanOptions struct {
	Roots               []string
	ProjectRoot         string // secondary scope, used only with IncludeProject
	IncludeProject      bool
	Types               []ResourceKind // empty = all
	Bundles             []string       // empty = all
	NamePattern         string         // glob patterns joined by |
	ContentPattern      string         // regexp over full component text
	IncludeDescriptions bool
	IncludeTests        bool
}

type bundleDir struct {
	name string
	path string // absolute
	base string // absolute bundle collection root
}

type bundleResult struct {
	components []*Component
	warnings   []ScanWarning
	scanned    int
}

// Scan indexes the bundle trees under opts.Roots and returns a fresh Catalog.
// A missing root is a hard failure; individual unreadable files are recorded
// as warnings and skipped.
func Scan(opts ScanOptions) (*Catalog, error) {
	var contentRe *regexp.Regexp
	if opts.ContentPattern != "" {
		re, err := regexp.Compile(opts.ContentPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid content pattern: %w", err)
		}
		contentRe = re
	}
	namePatterns, err := splitNamePattern(opts.NamePattern)
	if err != nil {
		return nil, err
	}

	kinds := make(map[ResourceKind]bool)
	for _, kind := range opts.Types {
		kinds[kind] = true
	}
	if len(kinds) == 0 {
		for _, kind := range AllResourceKinds() {
			kinds[kind] = true
		}
	}
	bundleFilter := make(map[string]bool)
	for _, name := range opts.Bundles {
		bundleFilter[strings.TrimSpace(name)] = true
	}

	bundles, roots, err := discoverBundles(opts)
	if err != nil {
		return nil, err
	}

	selected := make([]bundleDir, 0, len(bundles))
	for _, b := range bundles {
		if len(bundleFilter) > 0 && !bundleFilter[b.name] {
			continue
		}
		selected = append(selected, b)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].name < selected[j].name })

	scanner := &bundleScanner{
		kinds:        kinds,
		namePatterns: namePatterns,
		contentRe:    contentRe,
		opts:         opts,
	}

	// Bundles are independent: one worker each, results merged in bundle
	// name order so repeat scans are identical.
	results := make([]bundleResult, len(selected))
	var group errgroup.Group
	for i, b := range selected {
		i, b := i, b
		group.Go(func() error {
			results[i] = scanner.scanBundle(b)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	cat := &Catalog{
		Roots: roots,
		Stats: Stats{PerType: make(map[string]int)},
	}
	for i, b := range selected {
		cat.Bundles = append(cat.Bundles, Bundle{Name: b.name, Root: b.path})
		cat.Components = append(cat.Components, results[i].components...)
		cat.Warnings = append(cat.Warnings, results[i].warnings...)
		cat.Stats.Scanned += results[i].scanned
	}

	sort.Slice(cat.Components, func(i, j int) bool {
		if cat.Components[i].Notation != cat.Components[j].Notation {
			return cat.Components[i].Notation < cat.Components[j].Notation
		}
		return cat.Components[i].Path < cat.Components[j].Path
	})

	// Notation is unique within one catalog. Same-named scripts in two
	// subdirectories of a skill, or a skill test shadowed by a bundle-level
	// test file, would collide; the first path wins and the rest are
	// recorded as warnings.
	deduped := cat.Components[:0]
	for _, comp := range cat.Components {
		if n := len(deduped); n > 0 && deduped[n-1].Notation == comp.Notation {
			cat.Warnings = append(cat.Warnings, ScanWarning{
				File:    comp.Path,
				Message: fmt.Sprintf("notation %s already taken by %s; component skipped", comp.Notation, deduped[n-1].Path),
			})
			continue
		}
		deduped = append(deduped, comp)
	}
	cat.Components = deduped

	sort.Slice(cat.Warnings, func(i, j int) bool {
		if cat.Warnings[i].File == cat.Warnings[j].File {
			return cat.Warnings[i].Message < cat.Warnings[j].Message
		}
		return cat.Warnings[i].File < cat.Warnings[j].File
	})

	cat.Stats.Total = len(cat.Components)
	for _, comp := range cat.Components {
		cat.Stats.PerType[comp.Kind.String()]++
	}

	cat.buildIndexes()
	return cat, nil
}

func discoverBundles(opts ScanOptions) ([]bundleDir, []string, error) {
	roots := make([]string, 0, len(opts.Roots)+1)
	bundles := make([]bundleDir, 0)

	for _, root := range opts.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid root %s: %w", root, err)
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
		}
		roots = append(roots, abs)
		for _, entry := range entries {
			if !entry.IsDir() || skipDirs[entry.Name()] || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			bundles = append(bundles, bundleDir{
				name: entry.Name(),
				path: filepath.Join(abs, entry.Name()),
				base: abs,
			})
		}
	}

	if opts.IncludeProject && opts.ProjectRoot != "" {
		abs, err := filepath.Abs(opts.ProjectRoot)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid project root %s: %w", opts.ProjectRoot, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, opts.ProjectRoot, err)
		}
		// The project scope is a single bundle named after its directory.
		roots = append(roots, filepath.Dir(abs))
		bundles = append(bundles, bundleDir{
			name: filepath.Base(abs),
			path: abs,
			base: filepath.Dir(abs),
		})
	}

	return bundles, roots, nil
}

type bundleScanner struct {
	kinds        map[ResourceKind]bool
	namePatterns []string
	contentRe    *regexp.Regexp
	opts         ScanOptions
}

func (s *bundleScanner) scanBundle(b bundleDir) bundleResult {
	var result bundleResult

	if s.kinds[ResourceSkill] || s.kinds[ResourceScript] || s.kinds[ResourceTest] {
		s.scanSkillTree(b, &result)
	}
	if s.kinds[ResourceCommand] {
		s.scanFlatDir(b, "commands", ResourceCommand, &result)
	}
	if s.kinds[ResourceAgent] {
		s.scanFlatDir(b, "agents", ResourceAgent, &result)
	}
	if s.kinds[ResourceTest] && s.opts.IncludeTests {
		s.scanTestDir(b, filepath.Join(b.path, "tests"), "", &result)
	}

	sort.Slice(result.components, func(i, j int) bool {
		return result.components[i].Notation < result.components[j].Notation
	})
	return result
}

func (s *bundleScanner) scanSkillTree(b bundleDir, result *bundleResult) {
	skillsDir := filepath.Join(b.path, "skills")
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.warnings = append(result.warnings, ScanWarning{
				File:    relPath(b.base, skillsDir),
				Message: fmt.Sprintf("unreadable skills directory: %v", err),
			})
		}
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || skipDirs[entry.Name()] {
			continue
		}
		skillName := entry.Name()
		skillDir := filepath.Join(skillsDir, skillName)

		if s.kinds[ResourceSkill] {
			entryFile := filepath.Join(skillDir, skillEntryFile)
			if _, err := os.Stat(entryFile); err == nil {
				s.addComponent(result, &Component{
					Notation: JoinNotation(b.name, skillName),
					Name:     skillName,
					Kind:     ResourceSkill,
					Bundle:   b.name,
					Path:     relPath(b.base, entryFile),
					AbsPath:  entryFile,
				})
			}
		}
		if s.kinds[ResourceScript] {
			s.scanScripts(b, skillDir, skillName, result)
		}
		if s.kinds[ResourceTest] && s.opts.IncludeTests {
			s.scanTestDir(b, filepath.Join(skillDir, "tests"), skillName, result)
		}
	}
}

func (s *bundleScanner) scanScripts(b bundleDir, skillDir, skillName string, result *bundleResult) {
	_ = filepath.Walk(skillDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.warnings = append(result.warnings, ScanWarning{
				File:    relPath(b.base, path),
				Message: fmt.Sprintf("walk error: %v", err),
			})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] || info.Name() == "tests" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !scriptExtensions[ext] {
			return nil
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		s.addComponent(result, &Component{
			Notation: JoinNotation(b.name, skillName, name),
			Name:     name,
			Kind:     ResourceScript,
			Bundle:   b.name,
			Skill:    skillName,
			Path:     relPath(b.base, path),
			AbsPath:  path,
		})
		return nil
	})
}

func (s *bundleScanner) scanFlatDir(b bundleDir, sub string, kind ResourceKind, result *bundleResult) {
	dir := filepath.Join(b.path, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.warnings = append(result.warnings, ScanWarning{
				File:    relPath(b.base, dir),
				Message: fmt.Sprintf("unreadable %s directory: %v", sub, err),
			})
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		path := filepath.Join(dir, entry.Name())
		s.addComponent(result, &Component{
			Notation: JoinNotation(b.name, sub, name),
			Name:     name,
			Kind:     kind,
			Bundle:   b.name,
			Path:     relPath(b.base, path),
			AbsPath:  path,
		})
	}
}

func (s *bundleScanner) scanTestDir(b bundleDir, dir, skillName string, result *bundleResult) {
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			result.warnings = append(result.warnings, ScanWarning{
				File:    relPath(b.base, path),
				Message: fmt.Sprintf("walk error: %v", err),
			})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if skillName != "" {
			name = skillName + "-" + name
		}
		s.addComponent(result, &Component{
			Notation: JoinNotation(b.name, "tests", name),
			Name:     name,
			Kind:     ResourceTest,
			Bundle:   b.name,
			Skill:    skillName,
			Path:     relPath(b.base, path),
			AbsPath:  path,
		})
		return nil
	})
}

// addComponent applies the name/content filters, attaches the description
// when requested, and appends the component. Components excluded only by the
// content filter still count toward the scanned total.
func (s *bundleScanner) addComponent(result *bundleResult, comp *Component) {
	if !matchesName(s.namePatterns, comp.Name) {
		return
	}
	result.scanned++

	if s.contentRe != nil {
		text, err := comp.Text()
		if err != nil {
			result.warnings = append(result.warnings, ScanWarning{File: comp.Path, Message: err.Error()})
			return
		}
		if !s.contentRe.MatchString(text) {
			return
		}
	}

	if s.opts.IncludeDescriptions && strings.HasSuffix(comp.Path, ".md") {
		text, err := comp.Text()
		if err != nil {
			result.warnings = append(result.warnings, ScanWarning{File: comp.Path, Message: err.Error()})
			return
		}
		fm, _, found, fmErr := ParseFrontmatter(text)
		if fmErr != nil {
			result.warnings = append(result.warnings, ScanWarning{
				File:    comp.Path,
				Message: fmt.Sprintf("malformed metadata block: %v", fmErr),
			})
		} else if found {
			comp.Description = fm.Description
		}
	}

	result.components = append(result.components, comp)
}

func splitNamePattern(pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, nil
	}
	parts := strings.Split(pattern, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !doublestar.ValidatePattern(part) {
			return nil, fmt.Errorf("invalid name pattern %q", part)
		}
		out = append(out, part)
	}
	return out, nil
}

func matchesName(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
