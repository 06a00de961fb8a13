package output

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects the result serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOON Format = "toon"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatTOON):
		return FormatTOON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: json, toon)", value)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatTOON {
		return ".toon"
	}
	return ".json"
}

// Encode serializes a result envelope in the requested format.
func Encode(value any, format Format) ([]byte, error) {
	switch format {
	case FormatTOON:
		return EncodeTOON(value)
	default:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return append(data, '\n'), nil
	}
}
