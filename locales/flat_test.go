package locales

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	data := []byte(`{
  "common": {
    "안녕": "Hello",
    "nested": { "deep": "x" },
    "empty": {}
  },
  "count": 3,
  "list": [1, 2],
  "flag": true,
  "dotted.key": "y"
}`)
	m, err := Flatten(data)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	wantKeys := []string{"common.안녕", "common.nested.deep", "count", "list", "flag", "dotted.key"}
	if !reflect.DeepEqual(m.Keys(), wantKeys) {
		t.Fatalf("Keys() = %q, want %q", m.Keys(), wantKeys)
	}
	if v, _ := m.String("common.안녕"); v != "Hello" {
		t.Fatalf("common.안녕 = %q", v)
	}
	if v, _ := m.String("list"); v != "[1,2]" {
		t.Fatalf("list = %q", v)
	}
	if m.Len() != 6 || !m.Has("flag") || m.Has("common.empty") {
		t.Fatalf("unexpected map: %v", m.Keys())
	}
}

func TestFlattenRejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`[]`, `"x"`, `{"a": }`, `{"a": "b"`} {
		if _, err := Flatten([]byte(in)); err == nil {
			t.Fatalf("Flatten(%q) expected error", in)
		}
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Set("common.안녕", "Hello")
	m.Set("top", "<b>&</b>")
	m.Set("common.bye", "Bye")
	m.Set("n", json.RawMessage(`[1,2]`))

	got, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{
  "common": {
    "안녕": "Hello",
    "bye": "Bye"
  },
  "top": "<b>&</b>",
  "n": [
    1,
    2
  ]
}
`
	if string(got) != want {
		t.Fatalf("Marshal() =\n%s\nwant\n%s", got, want)
	}

	empty, _ := Marshal(NewMap())
	if string(empty) != "{}\n" {
		t.Fatalf("Marshal(empty) = %q", empty)
	}
}

func TestUnflattenLastWriteWins(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Set("a", "leaf")
	m.Set("a.b", "child")
	m.Set("c.d", "child")
	m.Set("c", "leaf")

	got, err := Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Flatten(got)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Keys(), []string{"a.b", "c"}) {
		t.Fatalf("keys = %q", back.Keys())
	}
}

func TestNormalizeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   string
	}{
		{`plain`, `"plain"`},
		{`줄\n바꿈`, `"줄\n바꿈"`},
		{`탭\t`, `"탭\t"`},
		{`a\"b`, `"a\"b"`},
		{`a\\b`, `"a\\b"`},
		{`uni\uac00`, `"uni\uac00"`},
		{`bad\u12`, `"bad\\u12"`},
		{`it\'s`, `"it\\'s"`},
		{`end\`, `"end\\"`},
	}
	for _, tc := range tests {
		got := normalizeValue(quote(tc.source))
		if got != tc.want {
			t.Fatalf("normalizeValue(%q) = %s, want %s", tc.source, got, tc.want)
		}
		var s string
		if err := json.Unmarshal([]byte(got), &s); err != nil {
			t.Fatalf("normalizeValue(%q) produced invalid JSON %s: %v", tc.source, got, err)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   string
	}{
		{`a\b`, `"a\\b"`},
		{`a\\b`, `"a\\b"`},
		{`a\\\b`, `"a\\b"`},
		{`a\"b`, `"a\\\"b"`},
		{`a\\"b`, `"a\\\"b"`},
	}
	for _, tc := range tests {
		got := normalizeKey(quote(tc.source))
		if got != tc.want {
			t.Fatalf("normalizeKey(%q) = %s, want %s", tc.source, got, tc.want)
		}
		var s string
		if err := json.Unmarshal([]byte(got), &s); err != nil {
			t.Fatalf("normalizeKey(%q) produced invalid JSON %s: %v", tc.source, got, err)
		}
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 3).Draw(t, "depth")
		n := rapid.IntRange(0, 12).Draw(t, "n")

		// Equal-depth paths can never be a prefix of one another.
		want := make(map[string]string)
		m := NewMap()
		for i := 0; i < n; i++ {
			segs := make([]string, depth)
			for j := range segs {
				segs[j] = rapid.StringMatching(`[ab가_#]{0,3}`).Draw(t, "segment")
			}
			key := strings.Join(segs, ".")
			value := strings.ReplaceAll(rapid.String().Draw(t, "value"), `\`, "")
			m.Set(key, value)
			want[key] = value
		}

		data, err := Marshal(m)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		back, err := Flatten(data)
		if err != nil {
			t.Fatalf("Flatten(%s): %v", data, err)
		}
		got := make(map[string]string)
		for _, k := range back.Keys() {
			got[k], _ = back.String(k)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, want)
		}
	})
}
