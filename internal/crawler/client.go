// Package crawler fetches the statistics page and runs the extraction
// pipeline over the tables it contains.
package crawler

import (
	"bytes"
	"context"
	"fmt"

	"ufscraper/internal/htmltable"
	"ufscraper/internal/logger"
	"ufscraper/internal/models"
	"ufscraper/internal/normalizer"
)

// Client manages the fetch -> decode -> normalize flow.
type Client struct {
	scraper   *Scraper
	processor *normalizer.Processor
	log       *logger.Logger
}

// NewClient creates a new crawler client with default dependencies.
func NewClient(log *logger.Logger) *Client {
	return NewClientWithDeps(NewScraper(), normalizer.NewProcessor(), log)
}

// NewClientWithDeps creates a new crawler client with injected dependencies.
func NewClientWithDeps(scraper *Scraper, processor *normalizer.Processor, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		scraper:   scraper,
		processor: processor,
		log:       log.With("component", "crawler"),
	}
}

// GetUFData fetches source and extracts the configured series from it.
func (c *Client) GetUFData(ctx context.Context, source string) ([]models.DateValueRecord, error) {
	page, err := c.scraper.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}

	c.log.Info("Fetched source page",
		"source", page.Source,
		"bytes", page.Size(),
		"duration", page.Duration,
	)

	return c.Extract(page)
}

// Extract decodes the tables of an already fetched page and extracts the series.
func (c *Client) Extract(page *Page) ([]models.DateValueRecord, error) {
	tables, err := htmltable.DecodeWithCharset(bytes.NewReader(page.Content), page.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	c.log.Debug("Decoded tables",
		"tables", len(tables),
		"candidates", len(normalizer.CandidateTables(tables)),
	)

	records, err := c.processor.Process(tables)
	if err != nil {
		return nil, fmt.Errorf("failed to extract series %q: %w", c.processor.SeriesLabel(), err)
	}

	if dups := normalizer.DuplicateDates(records); len(dups) > 0 {
		c.log.Warn("Series contains repeated dates", "dates", dups)
	}

	c.log.Info("Extracted series",
		"series", c.processor.SeriesLabel(),
		"records", len(records),
		"first", records[0].Fecha,
		"last", records[len(records)-1].Fecha,
	)

	return records, nil
}
