package normalizer

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"ufscraper/internal/models"
)

// SeriesColumn is the column holding series names in the source tables.
const SeriesColumn = "Serie"

// Selection errors.
var (
	ErrNotFound         = errors.New("series not found in any table")
	ErrEmptySeriesLabel = errors.New("series label must not be empty")
)

// CandidateTables keeps only tables that carry a series column, preserving order.
func CandidateTables(tables []models.RawTable) []models.RawTable {
	var candidates []models.RawTable

	for _, t := range tables {
		if t.HasColumn(SeriesColumn) {
			candidates = append(candidates, t)
		}
	}

	return candidates
}

// SelectSeriesTable returns the first table having at least one row whose
// series cell contains seriesLabel (case-insensitive). The returned table
// holds only the matching rows.
func SelectSeriesTable(tables []models.RawTable, seriesLabel string) (models.RawTable, error) {
	caser := cases.Fold()

	needle := caser.String(seriesLabel)
	if strings.TrimSpace(needle) == "" {
		return models.RawTable{}, ErrEmptySeriesLabel
	}

	for _, t := range tables {
		filtered := t.Filter(func(row models.Row) bool {
			return strings.Contains(caser.String(row.Cell(SeriesColumn)), needle)
		})

		if len(filtered.Rows) > 0 {
			return filtered, nil
		}
	}

	return models.RawTable{}, ErrNotFound
}
