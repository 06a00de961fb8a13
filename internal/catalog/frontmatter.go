package catalog

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the leading `---` delimited metadata block of a markdown
// component. Unknown keys are ignored.
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Implements  string `yaml:"implements"`
}

// ParseFrontmatter extracts the leading metadata block from content.
// It returns the parsed block, the 1-based line of the implements key when
// present, and whether a block was found at all. A malformed block yields an
// error; callers record it as a warning and keep the component.
func ParseFrontmatter(content string) (Frontmatter, int, bool, error) {
	var fm Frontmatter

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, 0, false, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, 0, true, errUnterminatedFrontmatter
	}

	block := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return Frontmatter{}, 0, true, err
	}

	implementsLine := 0
	if fm.Implements != "" {
		for i := 1; i < end; i++ {
			if strings.HasPrefix(strings.TrimSpace(lines[i]), "implements:") {
				implementsLine = i + 1
				break
			}
		}
	}

	return fm, implementsLine, true, nil
}

var errUnterminatedFrontmatter = errors.New("unterminated frontmatter block")
