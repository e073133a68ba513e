package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/smartddock/ddock/syntax"
)

func texts(rs []Range) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Text
	}
	return out
}

func checkRanges(t *testing.T, doc string, rs []Range) {
	t.Helper()
	prev := -1
	for _, r := range rs {
		if r.Start < 0 || r.End > len(doc) || r.Start > r.End {
			t.Fatalf("range %+v outside document", r)
		}
		if doc[r.Start:r.End] != r.Text {
			t.Fatalf("range %+v covers %q", r, doc[r.Start:r.End])
		}
		if r.Start < prev {
			t.Fatalf("ranges not ascending at %+v", r)
		}
		prev = r.Start
	}
}

func TestHangulVue(t *testing.T) {
	t.Parallel()

	doc := `<template>
  <div title="제목">
    <p>안녕하세요 {{ name }}님</p>
    <span>{{ t('기존') }}</span>
    <!-- <p>주석</p> -->
  </div>
</template>
<script>
const msg = '반가워요'
// 주석 '무시'
const label='라벨'
</script>
`
	got, refs := Hangul{}.Extract(doc, syntax.Brace)
	checkRanges(t, doc, got)
	checkRanges(t, doc, refs)

	want := []string{"제목", "안녕하세요 {{ name }}님", "'반가워요'", "'라벨'"}
	if !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("texts = %q, want %q", texts(got), want)
	}
	if !reflect.DeepEqual(texts(refs), []string{"'기존'"}) {
		t.Fatalf("refs = %q", texts(refs))
	}
}

func TestHangulTSX(t *testing.T) {
	t.Parallel()

	doc := `export const A = () => <button aria-label="닫기" onClick={() => go('다음')}>확인 {count}개</button>`
	got, refs := Hangul{}.Extract(doc, syntax.Expression)
	checkRanges(t, doc, got)

	want := []string{"닫기", "'다음'", "확인 {count}개"}
	if !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("texts = %q, want %q", texts(got), want)
	}
	if len(refs) != 0 {
		t.Fatalf("refs = %q, want none", texts(refs))
	}
}

func TestHangulSkipsTypeArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "generic return type before a comment",
			doc:  "function F(): Promise<void> {\n  // 한글 주석\n  return <div>x</div>\n}",
			want: nil,
		},
		{
			name: "generic call before markup",
			doc:  "const [v] = useState<string>('')\nconst n = items.length\nexport const B = () => <p>저장 완료</p>",
			want: []string{"저장 완료"},
		},
		{
			name: "generic followed by block",
			doc:  "const m = new Map<string, number>()\nif (m.size > 0) {\n  alert(m)\n}\nconst C = () => <b>확인</b>",
			want: []string{"확인"},
		},
		{
			name: "inline tag after latin text",
			doc:  "const E = () => <p>Hello<b>굵게</b> 끝</p>",
			want: []string{"굵게", "끝"},
		},
		{
			name: "fragment and self-closing tags",
			doc:  "const D = () => <>첫째<br/>둘째</>",
			want: []string{"첫째", "둘째"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, _ := Hangul{}.Extract(tc.doc, syntax.Expression)
			checkRanges(t, tc.doc, got)
			if len(got) != len(tc.want) || (len(got) > 0 && !reflect.DeepEqual(texts(got), tc.want)) {
				t.Fatalf("texts = %q, want %q", texts(got), tc.want)
			}
		})
	}
}

func TestOpensBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		run  string
		want bool
	}{
		{"확인 {count}개", false},
		{"안녕 {{ name }}님", false},
		{" {\n  // 한글", true},
		{"가 {a} 나 {  \n  b }", true},
		{"no braces 한글", false},
	}
	for _, tc := range tests {
		if got := opensBlock(tc.run); got != tc.want {
			t.Fatalf("opensBlock(%q) = %v, want %v", tc.run, got, tc.want)
		}
	}
}

func TestHangulPlain(t *testing.T) {
	t.Parallel()

	doc := "const a = \"안녕\"; i18n.t(\"이미\"); $t('뷰'); format(`총 ${n}개`)\n/* '블록' */ const url = 'http://x' // '끝'\n"
	got, refs := Hangul{}.Extract(doc, syntax.Plain)
	checkRanges(t, doc, got)
	checkRanges(t, doc, refs)

	if want := []string{`"안녕"`, "`총 ${n}개`"}; !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("texts = %q, want %q", texts(got), want)
	}
	if want := []string{`"이미"`, "'뷰'"}; !reflect.DeepEqual(texts(refs), want) {
		t.Fatalf("refs = %q, want %q", texts(refs), want)
	}
}

func TestHangulCustomCall(t *testing.T) {
	t.Parallel()

	doc := `translate('하나'); t('둘')`
	got, refs := Hangul{Call: "translate"}.Extract(doc, syntax.Plain)
	if !reflect.DeepEqual(texts(got), []string{"'둘'"}) || !reflect.DeepEqual(texts(refs), []string{"'하나'"}) {
		t.Fatalf("texts = %q refs = %q", texts(got), texts(refs))
	}
}

func TestContainsHangul(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"안녕":     true,
		"abc 가":  true,
		"ㄱㄴㄷ":    false,
		"hello":  false,
		"こんにちは":  false,
		"":       false,
	}
	for in, want := range tests {
		if got := ContainsHangul(in); got != want {
			t.Fatalf("ContainsHangul(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFindSources(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	write := func(rel string) string {
		t.Helper()
		p := filepath.Join(tmp, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	app := write("src/App.vue")
	page := write("src/pages/Home.tsx")
	util := write("src/util.ts")
	write("src/readme.md")
	write("node_modules/lib/index.js")
	write("dist/bundle.js")

	files, err := FindSources([]string{tmp, filepath.Join(tmp, "src")}, nil)
	if err != nil {
		t.Fatalf("FindSources: %v", err)
	}
	if want := []string{app, page, util}; !reflect.DeepEqual(files, want) {
		t.Fatalf("FindSources() = %v, want %v", files, want)
	}

	only, err := FindSources([]string{tmp}, []string{"vue", ".tsx"})
	if err != nil {
		t.Fatalf("FindSources: %v", err)
	}
	if want := []string{app, page}; !reflect.DeepEqual(only, want) {
		t.Fatalf("FindSources(vue, tsx) = %v, want %v", only, want)
	}

	if desc := DescribeFiles(files); desc != "1 vue, 1 tsx, 1 ts" {
		t.Fatalf("DescribeFiles() = %q", desc)
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	p := filepath.Join(tmp, "a.ts")
	if err := os.WriteFile(p, []byte(`alert("경고")`), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := Scan(Hangul{}, p)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if doc.Family != syntax.Plain || len(doc.Texts) != 1 || doc.Texts[0].Text != `"경고"` {
		t.Fatalf("Scan() = %+v", doc)
	}

	if _, err := Scan(Hangul{}, filepath.Join(tmp, "a.txt")); err == nil {
		t.Fatal("Scan(unsupported) expected error")
	}
	if _, err := Scan(Hangul{}, filepath.Join(tmp, "missing.ts")); err == nil {
		t.Fatal("Scan(missing) expected error")
	}
}

func TestUniqueTextsAndLineCol(t *testing.T) {
	t.Parallel()

	rs := []Range{{0, 1, "a"}, {2, 3, "b"}, {4, 5, "a"}}
	if got := UniqueTexts(rs); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("UniqueTexts() = %v", got)
	}

	doc := "첫줄\n둘째 줄"
	line, col := LineCol(doc, len("첫줄\n둘째 "))
	if line != 2 || col != 4 {
		t.Fatalf("LineCol() = %d:%d, want 2:4", line, col)
	}
}

func TestRangeOverlaps(t *testing.T) {
	t.Parallel()

	a := Range{Start: 0, End: 5}
	tests := []struct {
		b    Range
		want bool
	}{
		{Range{Start: 4, End: 8}, true},
		{Range{Start: 5, End: 8}, false},
		{Range{Start: 1, End: 2}, true},
		{Range{Start: 3, End: 3}, false},
	}
	for _, tc := range tests {
		if got := a.Overlaps(tc.b); got != tc.want {
			t.Fatalf("%+v.Overlaps(%+v) = %v, want %v", a, tc.b, got, tc.want)
		}
	}
}
