// Package sheet exchanges locale stores with translators through a single
// .xlsx workbook: one row per key, a "Key" column followed by one column per
// language.
package sheet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/smartddock/ddock/locales"
)

// KeyHeader is the title of the first column.
const KeyHeader = "Key"

// preferred languages come first, in this order; the rest follow sorted.
var preferred = []string{"ko", "en", "zh", "ja"}

// OrderLanguages returns langs with the preferred languages first.
func OrderLanguages(langs []string) []string {
	var head, tail []string
	for _, p := range preferred {
		if slices.Contains(langs, p) {
			head = append(head, p)
		}
	}
	for _, l := range langs {
		if !slices.Contains(preferred, l) && !slices.Contains(tail, l) {
			tail = append(tail, l)
		}
	}
	slices.Sort(tail)
	return append(head, tail...)
}

// Export writes the stores to a new workbook at path. Rows follow the key
// order of the first language that has each key. Non-string leaves are
// skipped.
func Export(path, sheetName string, stores map[string]*locales.Map) (int, error) {
	langs := make([]string, 0, len(stores))
	for l := range stores {
		langs = append(langs, l)
	}
	langs = OrderLanguages(langs)

	var keys []string
	seen := make(map[string]bool)
	for _, l := range langs {
		m := stores[l]
		for _, k := range m.Keys() {
			if seen[k] || !isText(m, k) {
				continue
			}
			seen[k] = true
			keys = append(keys, k)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheetName == "" {
		sheetName = "translations"
	}
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return 0, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return 0, fmt.Errorf("removing default sheet: %w", err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("creating header style: %w", err)
	}

	titles := append([]string{KeyHeader}, langs...)
	for i, title := range titles {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheetName, cell, title); err != nil {
			return 0, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, header); err != nil {
			return 0, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, 40); err != nil {
			return 0, err
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return 0, fmt.Errorf("freezing header: %w", err)
	}

	for r, key := range keys {
		row := make([]any, 0, len(titles))
		row = append(row, key)
		for _, l := range langs {
			v := ""
			if isText(stores[l], key) {
				v, _ = stores[l].String(key)
			}
			row = append(row, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("writing row %d: %w", r+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("saving %s: %w", path, err)
	}
	return len(keys), nil
}

func isText(m *locales.Map, key string) bool {
	v, ok := m.Get(key)
	if !ok {
		return false
	}
	_, ok = v.(string)
	return ok
}

// Import reads a workbook written by Export (or edited by hand) and returns
// one store per language column. Empty cells are left out. An empty
// sheetName selects the first sheet.
func Import(path, sheetName string) (map[string]*locales.Map, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); sheetName == "" || err != nil || idx < 0 {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	head := rows[0]
	if len(head) == 0 || !strings.EqualFold(strings.TrimSpace(head[0]), KeyHeader) {
		return nil, fmt.Errorf("sheet %q: first column must be %q", sheetName, KeyHeader)
	}
	stores := make(map[string]*locales.Map)
	langs := make([]string, len(head))
	for i := 1; i < len(head); i++ {
		l := strings.TrimSpace(head[i])
		if l == "" {
			continue
		}
		langs[i] = l
		stores[l] = locales.NewMap()
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		for i := 1; i < len(row) && i < len(langs); i++ {
			if langs[i] == "" || row[i] == "" {
				continue
			}
			stores[langs[i]].Set(key, row[i])
		}
	}
	return stores, nil
}

// Merge copies every entry of src into dst, overwriting existing values, and
// returns how many values changed.
func Merge(dst, src *locales.Map) int {
	changed := 0
	for _, k := range src.Keys() {
		v, _ := src.String(k)
		if old, ok := dst.String(k); ok && old == v {
			continue
		}
		dst.Set(k, v)
		changed++
	}
	return changed
}
