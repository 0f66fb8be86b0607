package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ufscraper/internal/config"
	"ufscraper/pkg/utils"
)

// Scraper errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrResponseTooLarge     = errors.New("response exceeds buffer limit")
	ErrUnsupportedSource    = errors.New("unsupported source")
)

// Page is the raw document fetched from a source.
type Page struct {
	Source      string
	ContentType string
	Content     []byte
	StatusCode  int
	Duration    time.Duration
}

// Size returns the content length in bytes.
func (p *Page) Size() int64 {
	return int64(len(p.Content))
}

// Scraper fetches the source page. It makes a single attempt per call.
type Scraper struct {
	client       *http.Client
	headers      map[string]string
	bufferSizeKb int
}

// NewScraper creates a new scraper instance with default config.
func NewScraper() *Scraper {
	return NewScraperWithConfig(&config.Default().HTTP)
}

// NewScraperWithConfig creates a new scraper bounded by the HTTP config.
func NewScraperWithConfig(cfg *config.HTTPConfig) *Scraper {
	headers := map[string]string{}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	return &Scraper{
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		headers:      headers,
		bufferSizeKb: cfg.BufferSizeKb,
	}
}

// Fetch reads source, which may be an http(s) URL, a file:// URL or a plain
// filesystem path.
func (s *Scraper) Fetch(ctx context.Context, source string) (*Page, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return s.ReadLocalFile(source)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return s.Scrape(ctx, source)
	case "file":
		if u.Host != "" && u.Host != "localhost" {
			return nil, fmt.Errorf("%w: remote file host %q", ErrUnsupportedSource, u.Host)
		}

		page, err := s.ReadLocalFile(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, err
		}

		page.Source = source

		return page, nil
	}

	return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
}

// Scrape performs one GET of target. Non-200 responses are errors.
func (s *Scraper) Scrape(ctx context.Context, target string) (*Page, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.BuildHeaders(s.headers)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// bufferSizeKb is in KB; read one extra byte to detect truncation
	limit := int64(s.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d KB", ErrResponseTooLarge, s.bufferSizeKb)
	}

	return &Page{
		Source:      target,
		ContentType: resp.Header.Get("Content-Type"),
		Content:     body,
		StatusCode:  resp.StatusCode,
		Duration:    time.Since(startTime),
	}, nil
}

// ReadLocalFile reads content from a local file path.
func (s *Scraper) ReadLocalFile(filePath string) (*Page, error) {
	startTime := time.Now()

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file %s: %w", filePath, err)
	}

	return &Page{
		Source:   filePath,
		Content:  content,
		Duration: time.Since(startTime),
	}, nil
}
