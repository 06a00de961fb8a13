package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillgraph-dev/skillgraph/internal/fileutil"
)

// DefaultDir is where results land when no destination is given.
const DefaultDir = ".skillgraph"

// Destination selects where an encoded result goes.
type Destination struct {
	Direct bool   // emit to stdout
	Path   string // target file when not direct; empty = default
}

// Write delivers an encoded result. File writes are atomic (write-then-
// rename) so a concurrent reader never observes a partial result. It returns
// the path written, or empty for stdout.
func Write(data []byte, dest Destination, format Format) (string, error) {
	if dest.Direct {
		if _, err := os.Stdout.Write(data); err != nil {
			return "", fmt.Errorf("failed to write result: %w", err)
		}
		return "", nil
	}

	path := dest.Path
	if path == "" {
		path = filepath.Join(DefaultDir, "result"+format.Extension())
	}
	if err := fileutil.WriteAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}
