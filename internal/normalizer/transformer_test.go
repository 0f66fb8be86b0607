package normalizer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ufscraper/internal/models"
)

func filteredUFTable() models.RawTable {
	return models.RawTable{
		Columns: []string{"Serie", "Sel.", "01.Ene.2025", "02.Ene.2025"},
		Rows: []models.Row{
			{"Serie": "Unidad de fomento (UF)", "Sel.": "", "01.Ene.2025": "38.419,17", "02.Ene.2025": "38.421,65"},
		},
	}
}

func TestReshape(t *testing.T) {
	got := Reshape(filteredUFTable(), DefaultExcludedColumns)

	want := []RawRecord{
		{Column: "01.Ene.2025", RowIndex: 0, Date: "01.Ene.2025", Value: "38.419,17"},
		{Column: "02.Ene.2025", RowIndex: 0, Date: "02.Ene.2025", Value: "38.421,65"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reshape mismatch (-want +got):\n%s", diff)
	}
}

func TestReshape_MultipleRows(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"Serie", "01.Ene.2025"},
		Rows: []models.Row{
			{"Serie": "a", "01.Ene.2025": "1"},
			{"Serie": "b", "01.Ene.2025": "2"},
		},
	}

	got := Reshape(table, []string{"Serie"})
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].RowIndex)
	assert.Equal(t, "2", got[1].Value)
}

func TestTransformer_Transform(t *testing.T) {
	got, err := NewTransformer().Transform(filteredUFTable())
	require.NoError(t, err)

	want := []models.DateValueRecord{
		{Fecha: "2025-01-01", Valor: 38419.17},
		{Fecha: "2025-01-02", Valor: 38421.65},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformer_Transform_SortsByFecha(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"Serie", "02.Feb.2025", "31.Dic.2024", "01.Feb.2025"},
		Rows: []models.Row{
			{"Serie": "UF", "02.Feb.2025": "3", "31.Dic.2024": "1", "01.Feb.2025": "2"},
		},
	}

	got, err := NewTransformer().Transform(table)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-12-31", got[0].Fecha)
	assert.Equal(t, "2025-02-01", got[1].Fecha)
	assert.Equal(t, "2025-02-02", got[2].Fecha)
}

func TestTransformer_Transform_StableForDuplicates(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"Serie", "01.Ene.2025", "1.ene.2025"},
		Rows: []models.Row{
			{"Serie": "UF", "01.Ene.2025": "1", "1.ene.2025": "2"},
		},
	}

	got, err := NewTransformer().Transform(table)
	require.NoError(t, err)
	assert.Equal(t, []models.DateValueRecord{
		{Fecha: "2025-01-01", Valor: 1},
		{Fecha: "2025-01-01", Valor: 2},
	}, got)
}

func TestTransformer_Transform_NoDateColumns(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"Serie", "Sel."},
		Rows:    []models.Row{{"Serie": "Unidad de fomento", "Sel.": ""}},
	}

	got, err := NewTransformer().Transform(table)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransformer_Transform_ParseErrorLocation(t *testing.T) {
	table := filteredUFTable()
	table.Rows[0]["02.Ene.2025"] = "n/d"

	_, err := NewTransformer().Transform(table)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindValue, pe.Kind)
	assert.Equal(t, "n/d", pe.Literal)
	assert.Equal(t, "02.Ene.2025", pe.Column)
	assert.Equal(t, 0, pe.Row)
}

func TestTransformer_Transform_BadDateColumn(t *testing.T) {
	table := filteredUFTable()
	table.Columns = append(table.Columns, "Total")
	table.Rows[0]["Total"] = "1"

	_, err := NewTransformer().Transform(table)
	assert.ErrorIs(t, err, ErrDatePartCount)
}

func TestTransformerExcluding(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"Serie", "Nota", "01.Ene.2025"},
		Rows:    []models.Row{{"Serie": "UF", "Nota": "x", "01.Ene.2025": "1,5"}},
	}

	got, err := NewTransformerExcluding([]string{"Serie", "Nota"}).Transform(table)
	require.NoError(t, err)
	assert.Equal(t, []models.DateValueRecord{{Fecha: "2025-01-01", Valor: 1.5}}, got)
}
