package output

import "testing"

func TestEncodeTOONScalarsAndNesting(t *testing.T) {
	value := map[string]any{
		"status":  "ok",
		"total":   2,
		"bundles": []string{"alpha", "beta"},
		"stats":   map[string]int{"skill": 1, "script": 1},
	}

	got, err := EncodeTOON(value)
	if err != nil {
		t.Fatalf("EncodeTOON failed: %v", err)
	}

	want := `bundles[2]: alpha,beta
stats:
  script: 1
  skill: 1
status: ok
total: 2
`
	if string(got) != want {
		t.Fatalf("unexpected encoding:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeTOONTabularArray(t *testing.T) {
	value := map[string]any{
		"components": []map[string]any{
			{"notation": "alpha:deploy", "type": "skill"},
			{"notation": "beta:review", "type": "skill"},
		},
	}

	got, err := EncodeTOON(value)
	if err != nil {
		t.Fatalf("EncodeTOON failed: %v", err)
	}

	want := `components[2]{notation,type}:
  alpha:deploy,skill
  beta:review,skill
`
	if string(got) != want {
		t.Fatalf("unexpected encoding:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeTOONQuotesAmbiguousStrings(t *testing.T) {
	value := map[string]any{
		"csv":   "a,b",
		"empty": "",
		"num":   "12",
		"word":  "plain",
	}

	got, err := EncodeTOON(value)
	if err != nil {
		t.Fatalf("EncodeTOON failed: %v", err)
	}

	want := `csv: "a,b"
empty: ""
num: "12"
word: plain
`
	if string(got) != want {
		t.Fatalf("unexpected encoding:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeTOONMixedArrayFallsBackToList(t *testing.T) {
	value := map[string]any{
		"items": []any{
			map[string]any{"a": 1},
			"x",
		},
	}

	got, err := EncodeTOON(value)
	if err != nil {
		t.Fatalf("EncodeTOON failed: %v", err)
	}

	want := `items[2]:
  -
    a: 1
  - x
`
	if string(got) != want {
		t.Fatalf("unexpected encoding:\n got:\n%s\nwant:\n%s", got, want)
	}
}
