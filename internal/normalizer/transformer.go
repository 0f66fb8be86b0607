package normalizer

import (
	"errors"
	"slices"
	"strings"

	"ufscraper/internal/models"
)

// SelectionColumn is the checkbox column the source page renders next to each series.
const SelectionColumn = "Sel."

// DefaultExcludedColumns are the non-date columns dropped before reshaping.
var DefaultExcludedColumns = []string{SeriesColumn, SelectionColumn}

// RawRecord is one cell of the wide table after reshaping to long form.
type RawRecord struct {
	Column   string
	RowIndex int
	Date     string
	Value    string
}

// Transformer converts a selected series table into canonical records.
type Transformer struct {
	exclude []string
}

// NewTransformer creates a transformer that drops DefaultExcludedColumns.
func NewTransformer() *Transformer {
	return NewTransformerExcluding(DefaultExcludedColumns)
}

// NewTransformerExcluding creates a transformer that drops the given columns.
func NewTransformerExcluding(exclude []string) *Transformer {
	return &Transformer{exclude: slices.Clone(exclude)}
}

// Reshape turns a wide table (one column per date) into long form. Columns
// are visited in order and, within a column, rows are visited in order.
func Reshape(table models.RawTable, exclude []string) []RawRecord {
	var out []RawRecord

	for _, col := range table.Columns {
		if slices.Contains(exclude, col) {
			continue
		}

		for i, row := range table.Rows {
			out = append(out, RawRecord{
				Column:   col,
				RowIndex: i,
				Date:     col,
				Value:    row.Cell(col),
			})
		}
	}

	return out
}

// Transform reshapes the table, parses every date and value, and returns the
// records sorted by fecha. A single malformed literal fails the whole table.
// An empty slice with a nil error means the table had no date columns.
func (t *Transformer) Transform(table models.RawTable) ([]models.DateValueRecord, error) {
	raw := Reshape(table, t.exclude)
	records := make([]models.DateValueRecord, 0, len(raw))

	for _, r := range raw {
		fecha, err := ParseDate(r.Date)
		if err != nil {
			return nil, locate(err, r)
		}

		valor, err := ParseValue(r.Value)
		if err != nil {
			return nil, locate(err, r)
		}

		records = append(records, models.DateValueRecord{Fecha: fecha, Valor: valor})
	}

	slices.SortStableFunc(records, func(a, b models.DateValueRecord) int {
		return strings.Compare(a.Fecha, b.Fecha)
	})

	return records, nil
}

// locate stamps the column and row of the offending cell onto a ParseError.
func locate(err error, r RawRecord) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Column = r.Column
		pe.Row = r.RowIndex
	}

	return err
}
