// Package model contains domain models passed between layers.
package model

import "strings"

// Cell is one labelled value of a raw row.
type Cell struct {
	Label string
	Value string
}

// RawRow is one parsed line of a results sheet. Cells keep the column order
// of the source document; labels are untrusted and may repeat.
type RawRow struct {
	Cells []Cell
}

// NewRawRow builds a row from alternating label/value pairs. A trailing
// label without a value is ignored.
func NewRawRow(pairs ...string) RawRow {
	row := RawRow{Cells: make([]Cell, 0, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Cells = append(row.Cells, Cell{Label: pairs[i], Value: pairs[i+1]})
	}
	return row
}

// Get returns the first value stored under label. Missing labels yield
// ("", false); no lookup ever panics.
func (r RawRow) Get(label string) (string, bool) {
	for _, c := range r.Cells {
		if c.Label == label {
			return c.Value, true
		}
	}
	return "", false
}

// Each calls fn for every cell in column order.
func (r RawRow) Each(fn func(label, value string)) {
	for _, c := range r.Cells {
		fn(c.Label, c.Value)
	}
}

// Len returns the number of cells.
func (r RawRow) Len() int { return len(r.Cells) }

// Empty reports whether every cell value is blank.
func (r RawRow) Empty() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}
