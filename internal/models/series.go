// Package models defines the tables, records and documents exchanged between
// the decoder, the normalizer and the storage layer.
package models

// DateValueRecord is one canonical point of the series.
type DateValueRecord struct {
	Fecha string  `json:"fecha"`
	Valor float64 `json:"valor"`
}

// Dataset is the persisted document. Field names and nesting are consumed by
// downstream readers and must not change.
type Dataset struct {
	Data      []DateValueRecord `json:"data"`
	UpdatedAt string            `json:"updated_at"`
	Source    string            `json:"source"`
}

// FirstDate returns the earliest fecha, assuming Data is sorted.
func (d Dataset) FirstDate() string {
	if len(d.Data) == 0 {
		return ""
	}

	return d.Data[0].Fecha
}

// LastDate returns the latest fecha, assuming Data is sorted.
func (d Dataset) LastDate() string {
	if len(d.Data) == 0 {
		return ""
	}

	return d.Data[len(d.Data)-1].Fecha
}
