// Package normalizer turns decoded source tables into the canonical UF series:
// it selects the series table, reshapes it to one row per date and parses the
// locale-specific date and number literals.
package normalizer

import (
	"errors"
	"fmt"
	"slices"

	"ufscraper/internal/models"
)

// DefaultSeriesLabel identifies the UF row in the source tables.
const DefaultSeriesLabel = "Unidad de fomento"

// Pipeline errors.
var (
	ErrEmptyResult     = errors.New("series table produced no records")
	ErrAmbiguousSeries = errors.New("more than one row matches the series label")
)

// Processor runs selection, transformation and validation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	seriesLabel string
}

// Option customizes a Processor.
type Option func(*Processor)

// WithSeriesLabel overrides DefaultSeriesLabel.
func WithSeriesLabel(label string) Option {
	return func(p *Processor) {
		p.seriesLabel = label
	}
}

// WithExcludedColumns overrides DefaultExcludedColumns. SeriesColumn is
// always excluded, whether listed or not.
func WithExcludedColumns(columns ...string) Option {
	return func(p *Processor) {
		exclude := slices.Clone(columns)
		if !slices.Contains(exclude, SeriesColumn) {
			exclude = append(exclude, SeriesColumn)
		}

		p.transformer = NewTransformerExcluding(exclude)
	}
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
		seriesLabel: DefaultSeriesLabel,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SeriesLabel returns the label the processor selects on.
func (p *Processor) SeriesLabel() string {
	return p.seriesLabel
}

// Process extracts the series from the decoded tables of one page.
func (p *Processor) Process(tables []models.RawTable) ([]models.DateValueRecord, error) {
	// 1. Select the table carrying the series
	table, err := SelectSeriesTable(CandidateTables(tables), p.seriesLabel)
	if err != nil {
		return nil, fmt.Errorf("selection failed for %q: %w", p.seriesLabel, err)
	}

	if len(table.Rows) > 1 {
		return nil, fmt.Errorf("%w: %q matched %d rows", ErrAmbiguousSeries, p.seriesLabel, len(table.Rows))
	}

	// 2. Reshape and parse
	records, err := p.transformer.Transform(table)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyResult
	}

	// 3. Check the output invariants
	if err := p.validator.Validate(records); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return records, nil
}
