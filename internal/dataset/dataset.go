package dataset

import "strings"

// Dataset is one uploaded table: an ordered header row plus string cells.
// Headers are uncontrolled, human-authored text; nothing about them is
// trusted beyond their order.
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// New builds a dataset and indexes headers by their exact text.
// Duplicate headers keep the first column, matching spreadsheet-export
// behavior where the leftmost column wins.
func New(name string, headers []string, rows [][]string) *Dataset {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return &Dataset{Name: name, Headers: headers, Rows: rows, index: idx}
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Col returns the column index for the given header.
func (d *Dataset) Col(header string) (int, bool) {
	i, ok := d.index[header]
	return i, ok
}

// Cell returns the value at (row, header), or "" when the header is unknown
// or the row is ragged and does not reach that column.
func (d *Dataset) Cell(row int, header string) string {
	col, ok := d.index[header]
	if !ok {
		return ""
	}
	return d.CellAt(row, col)
}

// CellAt returns the value at (row, col), or "" when out of range.
func (d *Dataset) CellAt(row, col int) string {
	if row < 0 || row >= len(d.Rows) {
		return ""
	}
	r := d.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// FirstColumn returns every value of the leftmost column. Reference-set
// uploads (cancelled ids, pre-purchase ids) carry their ids there.
func (d *Dataset) FirstColumn() []string {
	out := make([]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		if len(r) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, r[0])
	}
	return out
}

// IsEmpty reports whether the dataset has no data rows or only blank ones.
func (d *Dataset) IsEmpty() bool {
	for _, r := range d.Rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
	}
	return true
}
