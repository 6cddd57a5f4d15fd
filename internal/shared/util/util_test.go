package util

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHashSnapshotIgnoresMapOrder(t *testing.T) {
	a := map[string]json.RawMessage{
		"stress_level": json.RawMessage(`0.5`),
		"sleep_debt":   json.RawMessage(`0.2`),
	}
	b := map[string]json.RawMessage{
		"sleep_debt":   json.RawMessage(`0.2`),
		"stress_level": json.RawMessage(`0.5`),
	}

	if HashSnapshot("same", a) != HashSnapshot("same", b) {
		t.Fatalf("hash must be independent of map construction order")
	}
}

func TestHashSnapshotSensitiveToContent(t *testing.T) {
	base := map[string]json.RawMessage{"stress_level": json.RawMessage(`0.5`)}
	changed := map[string]json.RawMessage{"stress_level": json.RawMessage(`0.6`)}

	if HashSnapshot("same", base) == HashSnapshot("same", changed) {
		t.Fatalf("hash must change with signal values")
	}
	if HashSnapshot("one", base) == HashSnapshot("two", base) {
		t.Fatalf("hash must change with user input")
	}
}

func TestHashSnapshotKeyValueBoundary(t *testing.T) {
	a := map[string]json.RawMessage{"ab": json.RawMessage(`c`)}
	b := map[string]json.RawMessage{"a": json.RawMessage(`bc`)}

	if HashSnapshot("same", a) == HashSnapshot("same", b) {
		t.Fatalf("key and value bytes must not blur together")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is definitely too long", 10, "this one…"},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestTruncateHandlesMultibyte(t *testing.T) {
	in := strings.Repeat("ü", 20)
	got := Truncate(in, 5)
	if len([]rune(got)) > 5 {
		t.Fatalf("truncated to %d runes", len([]rune(got)))
	}
}
