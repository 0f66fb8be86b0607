package normalizer

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"ufscraper/internal/models"
)

// Validation errors.
var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrBadFecha      = errors.New("fecha is not YYYY-MM-DD")
	ErrBadValor      = errors.New("valor is not a finite number")
	ErrUnsorted      = errors.New("records are not sorted by fecha")
)

// Validator checks the invariants of a canonical record sequence.
type Validator struct {
	fechaPattern *regexp.Regexp
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		fechaPattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	}
}

// Validate returns an error for the first record breaking the invariants.
func (v *Validator) Validate(records []models.DateValueRecord) error {
	for i, r := range records {
		if !v.fechaPattern.MatchString(r.Fecha) {
			return fmt.Errorf("%w at index %d: %w: %q", ErrInvalidRecord, i, ErrBadFecha, r.Fecha)
		}

		if math.IsNaN(r.Valor) || math.IsInf(r.Valor, 0) {
			return fmt.Errorf("%w at index %d: %w", ErrInvalidRecord, i, ErrBadValor)
		}

		if i > 0 && records[i-1].Fecha > r.Fecha {
			return fmt.Errorf("%w at index %d: %w", ErrInvalidRecord, i, ErrUnsorted)
		}
	}

	return nil
}

// DuplicateDates lists each fecha that appears more than once, in order of
// first repetition. Duplicates are not rejected.
func DuplicateDates(records []models.DateValueRecord) []string {
	seen := make(map[string]int, len(records))

	var dups []string

	for _, r := range records {
		seen[r.Fecha]++
		if seen[r.Fecha] == 2 {
			dups = append(dups, r.Fecha)
		}
	}

	return dups
}
