package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb/geojson"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the overlay on the map.
func (m *Model) refreshAttrsFromCurrent() {
	var fc *geojson.FeatureCollection
	if ov := m.pipeline.Current(); ov != nil {
		fc = ov.Features()
	}
	cols, rows := buildAttributes(fc)
	// If there are no rows, disable attributes view to avoid rendering panics
	if len(rows) == 0 {
		m.showAttrs = false
		m.note = "no attributes for current overlay"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		w := min(len(c)+2, maxColW)
		tcols = append(tcols, table.Column{Title: c, Width: max(w, 8)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns one row per feature: its geometry type, its id when
// any feature has one, then the union of property keys in sorted order.
func buildAttributes(fc *geojson.FeatureCollection) ([]string, [][]string) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, nil
	}
	hasID := false
	seen := map[string]bool{}
	var keys []string
	for _, f := range fc.Features {
		if f.ID != nil {
			hasID = true
		}
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	cols := []string{"geometry"}
	if hasID {
		cols = append(cols, "id")
	}
	cols = append(cols, keys...)

	rows := make([][]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		vals := make([]string, 0, len(cols))
		vals = append(vals, f.Geometry.GeoJSONType())
		if hasID {
			vals = append(vals, formatValue(f.ID))
		}
		for _, k := range keys {
			vals = append(vals, formatValue(f.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
