package models

// Row maps a column label to the raw cell text of one table row.
type Row map[string]string

// RawTable is a decoded HTML table: ordered column labels plus ordered rows.
// Duplicate header labels are disambiguated by the decoder, so every label in
// Columns is also a valid key of each Row.
type RawTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the table has a column with the exact label.
func (t RawTable) HasColumn(label string) bool {
	for _, c := range t.Columns {
		if c == label {
			return true
		}
	}

	return false
}

// Filter returns a copy of the table holding only the rows accepted by keep.
// Column order is preserved even when no rows survive.
func (t RawTable) Filter(keep func(Row) bool) RawTable {
	out := RawTable{
		Columns: append([]string(nil), t.Columns...),
	}

	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

// Cell returns the text of a row for the given column, or "" if absent.
func (r Row) Cell(label string) string {
	return r[label]
}
