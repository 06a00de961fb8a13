package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EncodeTOON renders a result envelope as compact tabular text: `key: value`
// lines with two-space nesting, scalar arrays inline, and uniform object
// arrays as a `key[N]{f1,f2}:` header followed by one row per element.
func EncodeTOON(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to decode intermediate form: %w", err)
	}

	var buf bytes.Buffer
	obj, ok := tree.(map[string]any)
	if !ok {
		buf.WriteString(toonScalar(tree))
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
	writeTOONObject(&buf, obj, 0)
	return buf.Bytes(), nil
}

func writeTOONObject(buf *bytes.Buffer, obj map[string]any, indent int) {
	for _, key := range sortedKeys(obj) {
		writeTOONEntry(buf, key, obj[key], indent)
	}
}

func writeTOONEntry(buf *bytes.Buffer, key string, value any, indent int) {
	pad := strings.Repeat("  ", indent)

	switch v := value.(type) {
	case map[string]any:
		fmt.Fprintf(buf, "%s%s:\n", pad, key)
		writeTOONObject(buf, v, indent+1)
	case []any:
		writeTOONArray(buf, key, v, indent)
	default:
		fmt.Fprintf(buf, "%s%s: %s\n", pad, key, toonScalar(value))
	}
}

func writeTOONArray(buf *bytes.Buffer, key string, items []any, indent int) {
	pad := strings.Repeat("  ", indent)

	if fields, ok := tabularFields(items); ok {
		fmt.Fprintf(buf, "%s%s[%d]{%s}:\n", pad, key, len(items), strings.Join(fields, ","))
		rowPad := strings.Repeat("  ", indent+1)
		for _, item := range items {
			obj := item.(map[string]any)
			row := make([]string, 0, len(fields))
			for _, field := range fields {
				row = append(row, toonScalar(obj[field]))
			}
			fmt.Fprintf(buf, "%s%s\n", rowPad, strings.Join(row, ","))
		}
		return
	}

	if allScalars(items) {
		row := make([]string, 0, len(items))
		for _, item := range items {
			row = append(row, toonScalar(item))
		}
		fmt.Fprintf(buf, "%s%s[%d]: %s\n", pad, key, len(items), strings.Join(row, ","))
		return
	}

	fmt.Fprintf(buf, "%s%s[%d]:\n", pad, key, len(items))
	itemPad := strings.Repeat("  ", indent+1)
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			fmt.Fprintf(buf, "%s-\n", itemPad)
			writeTOONObject(buf, v, indent+2)
		case []any:
			row := make([]string, 0, len(v))
			for _, inner := range v {
				row = append(row, toonScalar(inner))
			}
			fmt.Fprintf(buf, "%s- %s\n", itemPad, strings.Join(row, ","))
		default:
			fmt.Fprintf(buf, "%s- %s\n", itemPad, toonScalar(item))
		}
	}
}

// tabularFields reports whether every item is an object with the same flat
// scalar fields, and returns those fields sorted.
func tabularFields(items []any) ([]string, bool) {
	if len(items) == 0 {
		return nil, false
	}

	var fields []string
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok || len(obj) == 0 {
			return nil, false
		}
		for _, value := range obj {
			if !isScalar(value) {
				return nil, false
			}
		}
		keys := sortedKeys(obj)
		if i == 0 {
			fields = keys
			continue
		}
		if len(keys) != len(fields) {
			return nil, false
		}
		for j := range keys {
			if keys[j] != fields[j] {
				return nil, false
			}
		}
	}
	return fields, true
}

func allScalars(items []any) bool {
	for _, item := range items {
		if !isScalar(item) {
			return false
		}
	}
	return true
}

func isScalar(value any) bool {
	switch value.(type) {
	case nil, bool, string, json.Number:
		return true
	default:
		return false
	}
}

func toonScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case string:
		if needsQuoting(v) {
			return strconv.Quote(v)
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func needsQuoting(s string) bool {
	if s == "" || s == "null" || s == "true" || s == "false" {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s, ",\n\"{}[]") {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
