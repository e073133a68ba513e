package variables

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/smartddock/ddock/syntax"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		family   syntax.Family
		text     string
		template string
		vars     []string
	}{
		{
			name:     "no interpolation",
			family:   syntax.Expression,
			text:     "안녕하세요",
			template: "안녕하세요",
		},
		{
			name:     "expression family",
			family:   syntax.Expression,
			text:     "안녕하세요 {name}님",
			template: "안녕하세요 {0}님",
			vars:     []string{"name"},
		},
		{
			name:     "universal counted before family",
			family:   syntax.Expression,
			text:     "{b} 그리고 ${a}",
			template: "{1} 그리고 {0}",
			vars:     []string{"a", "b"},
		},
		{
			name:     "brace family trims expressions",
			family:   syntax.Brace,
			text:     "{{ user.name }}님, ${ count }개",
			template: "{1}님, {0}개",
			vars:     []string{"count", "user.name"},
		},
		{
			name:     "plain ignores braces",
			family:   syntax.Plain,
			text:     "총 {count}개 ${total}",
			template: "총 {count}개 {0}",
			vars:     []string{"total"},
		},
		{
			name:     "brace family ignores single braces",
			family:   syntax.Brace,
			text:     "{name} 님",
			template: "{name} 님",
		},
		{
			name:     "dollar brace is not an expression interpolation",
			family:   syntax.Expression,
			text:     "가격 ${price",
			template: "가격 ${price",
		},
		{
			name:     "first closing brace ends the match",
			family:   syntax.Expression,
			text:     "{a.b} 와 {c}",
			template: "{0} 와 {1}",
			vars:     []string{"a.b", "c"},
		},
		{
			name:     "repeated expression numbered twice",
			family:   syntax.Plain,
			text:     "${n}/${n}",
			template: "{0}/{1}",
			vars:     []string{"n", "n"},
		},
		{
			name:     "existing placeholders are kept",
			family:   syntax.Expression,
			text:     "{0}번째 {item}",
			template: "{0}번째 {0}",
			vars:     []string{"item"},
		},
		{
			name:     "empty braces",
			family:   syntax.Expression,
			text:     "빈 {}",
			template: "빈 {}",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tc.family, tc.text)
			if got.OriginalText != tc.text {
				t.Fatalf("OriginalText = %q, want %q", got.OriginalText, tc.text)
			}
			if got.Template != tc.template {
				t.Fatalf("Template = %q, want %q", got.Template, tc.template)
			}
			if len(got.Variables) != len(tc.vars) || (len(tc.vars) > 0 && !reflect.DeepEqual(got.Variables, tc.vars)) {
				t.Fatalf("Variables = %q, want %q", got.Variables, tc.vars)
			}
			if got.HasVariables() != (len(tc.vars) > 0) {
				t.Fatalf("HasVariables() = %v", got.HasVariables())
			}
		})
	}
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	src := Extract(syntax.Plain, "${a}님이 ${b}개를 보냈습니다")
	if !reflect.DeepEqual(src.Variables, []string{"a", "b"}) {
		t.Fatalf("source vars = %q", src.Variables)
	}

	tests := []struct {
		name       string
		translated string
		want       string
	}{
		{"same order", "${a} sent ${b} items", "{0} sent {1} items"},
		{"reordered", "${b} items from ${a}", "{1} items from {0}"},
		{"unknown expression", "${x} and ${a}", "{1} and {0}"},
		{"no interpolation", "hello", "hello"},
	}
	for _, tc := range tests {
		if got := Rewrite(syntax.Plain, tc.translated, src.Variables); got != tc.want {
			t.Fatalf("%s: Rewrite(%q) = %q, want %q", tc.name, tc.translated, got, tc.want)
		}
	}

	if got := Rewrite(syntax.Expression, "{b} ${a}", nil); got != "{1} {0}" {
		t.Fatalf("Rewrite without vars = %q", got)
	}
}

func TestCountPlaceholders(t *testing.T) {
	t.Parallel()

	if n := CountPlaceholders("{0}님 {1}개 {x}"); n != 2 {
		t.Fatalf("CountPlaceholders = %d, want 2", n)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	alphabet := []rune("${} a0가")
	families := []syntax.Family{syntax.Plain, syntax.Brace, syntax.Expression}

	rapid.Check(t, func(t *rapid.T) {
		f := families[rapid.IntRange(0, 2).Draw(t, "family")]
		n := rapid.IntRange(0, 24).Draw(t, "len")
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(alphabet[rapid.IntRange(0, len(alphabet)-1).Draw(t, "rune")])
		}
		text := b.String()

		first := Extract(f, text)
		second := Extract(f, first.Template)
		if len(second.Variables) != 0 {
			t.Fatalf("Extract(%v, %q) template %q yields variables %q", f, text, first.Template, second.Variables)
		}
		if second.Template != first.Template {
			t.Fatalf("template changed on second pass: %q -> %q", first.Template, second.Template)
		}
	})
}
