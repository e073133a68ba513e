package syntax

import "testing"

func TestForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		want   Family
		wantOK bool
	}{
		{"src/App.vue", Brace, true},
		{"src/Page.TSX", Expression, true},
		{"src/Button.jsx", Expression, true},
		{"src/util.ts", Plain, true},
		{"src/util.mjs", Plain, true},
		{"README.md", Plain, false},
		{"Makefile", Plain, false},
	}
	for _, tc := range tests {
		got, ok := ForFile(tc.path)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ForFile(%q) = %v, %v; want %v, %v", tc.path, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, f := range []Family{Plain, Brace, Expression} {
		got, err := Parse(f.String())
		if err != nil || got != f {
			t.Fatalf("Parse(%q) = %v, %v; want %v", f.String(), got, err, f)
		}
		got, err = Parse(f.Short())
		if err != nil || got != f {
			t.Fatalf("Parse(%q) = %v, %v; want %v", f.Short(), got, err, f)
		}
	}
	if _, err := Parse("svelte"); err == nil {
		t.Fatal("Parse(svelte) expected error")
	}
}

func TestWrapUnwrap(t *testing.T) {
	t.Parallel()

	call := "t('key')"
	tests := []struct {
		family Family
		want   string
	}{
		{Plain, "t('key')"},
		{Brace, "{{t('key')}}"},
		{Expression, "{t('key')}"},
	}
	for _, tc := range tests {
		wrapped := tc.family.Wrap(call)
		if wrapped != tc.want {
			t.Fatalf("%v.Wrap() = %q, want %q", tc.family, wrapped, tc.want)
		}
		inner, ok := tc.family.Unwrap(wrapped)
		if inner != call {
			t.Fatalf("%v.Unwrap(%q) = %q, want %q", tc.family, wrapped, inner, call)
		}
		if ok != (tc.family != Plain) {
			t.Fatalf("%v.Unwrap(%q) ok = %v", tc.family, wrapped, ok)
		}
	}
}
