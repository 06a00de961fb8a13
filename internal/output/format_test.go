package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/skillgraph-dev/skillgraph/internal/graph"
)

func TestParseFormat(t *testing.T) {
	for _, value := range []string{"", "json", "JSON"} {
		format, err := ParseFormat(value)
		if err != nil || format != FormatJSON {
			t.Fatalf("ParseFormat(%q) = %v, %v", value, format, err)
		}
	}

	format, err := ParseFormat("toon")
	if err != nil || format != FormatTOON {
		t.Fatalf("ParseFormat(toon) = %v, %v", format, err)
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatal("expected unsupported format to fail")
	}
}

func TestFormatExtension(t *testing.T) {
	if FormatJSON.Extension() != ".json" || FormatTOON.Extension() != ".toon" {
		t.Fatalf("unexpected extensions: %s %s", FormatJSON.Extension(), FormatTOON.Extension())
	}
}

func TestEncodeJSONRoundTripsValidateResult(t *testing.T) {
	result := ValidateResult{
		Status:      StatusOK,
		Operation:   "validate",
		BrokenCount: 1,
		Broken: []graph.BrokenRef{
			{Source: "alpha:deploy", Type: "script", RawMention: "alpha:deploy:missing", Resolution: "unresolved", Line: 7},
		},
		CycleCount: 1,
		Cycles:     [][]string{{"core:yang", "core:ying"}},
	}

	data, err := Encode(result, FormatJSON)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatal("expected a trailing newline")
	}

	var decoded ValidateResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, result) {
		t.Fatalf("round trip changed the result:\n got %+v\nwant %+v", decoded, result)
	}
}

func TestWriteToExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	written, err := Write([]byte("{}\n"), Destination{Path: path}, FormatJSON)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != path {
		t.Fatalf("unexpected path: %s", written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	if string(data) != "{}\n" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestWriteDefaultsUnderResultDir(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})

	written, err := Write([]byte("status: ok\n"), Destination{}, FormatTOON)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != filepath.Join(DefaultDir, "result.toon") {
		t.Fatalf("unexpected default path: %s", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Fatalf("expected the result file to exist: %v", err)
	}
}
