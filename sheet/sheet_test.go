package sheet

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/smartddock/ddock/locales"
)

func mapOf(pairs ...string) *locales.Map {
	m := locales.NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func TestOrderLanguages(t *testing.T) {
	t.Parallel()
	got := OrderLanguages([]string{"fr", "ja", "de", "en", "ko"})
	want := []string{"ko", "en", "ja", "de", "fr"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OrderLanguages() = %v, want %v", got, want)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	ko := mapOf("안녕", "안녕", "home.title", "홈")
	ko.Set("count", json.RawMessage("3"))
	stores := map[string]*locales.Map{
		"ko": ko,
		"en": mapOf("안녕", "Hello", "home.title", "Home", "only_en", "x"),
		"fr": mapOf("안녕", "Bonjour"),
	}

	n, err := Export(path, "", stores)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 3 {
		t.Fatalf("exported %d rows, want 3", n)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := f.GetRows("translations")
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Key", "ko", "en", "fr"}; !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("header = %v, want %v", rows[0], want)
	}

	got, err := Import(path, "translations")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d languages, want 3", len(got))
	}
	if v, _ := got["en"].String("home.title"); v != "Home" {
		t.Errorf("en home.title = %q, want %q", v, "Home")
	}
	if got["fr"].Len() != 1 {
		t.Errorf("fr has %d keys, want 1", got["fr"].Len())
	}
	if got["ko"].Has("only_en") {
		t.Error("empty cell imported as a value")
	}
	if got["ko"].Has("count") {
		t.Error("non-string leaf exported")
	}
}

func TestImportRejectsMissingKeyColumn(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	f := excelize.NewFile()
	_ = f.SetCellStr("Sheet1", "A1", "ko")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := Import(path, ""); err == nil {
		t.Fatal("expected error for sheet without Key column")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	dst := mapOf("a", "1", "b", "2")
	if n := Merge(dst, mapOf("b", "2", "c", "3", "a", "9")); n != 2 {
		t.Fatalf("Merge() = %d, want 2", n)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(dst.Keys(), want) {
		t.Fatalf("keys = %v, want %v", dst.Keys(), want)
	}
	if v, _ := dst.String("a"); v != "9" {
		t.Fatalf("a = %q, want 9", v)
	}
}
