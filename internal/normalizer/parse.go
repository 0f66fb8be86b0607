package normalizer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ufscraper/pkg/utils"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("parse error")

// Parse failure causes.
var (
	ErrDatePartCount   = errors.New("expected DD.MMM.YYYY")
	ErrUnknownMonth    = errors.New("unknown month abbreviation")
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidDate     = errors.New("date does not exist")
	ErrEmptyValue      = errors.New("empty value")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrNonFiniteNumber = errors.New("number is not finite")
)

// plainNumber is a value after separator normalization: optional minus,
// digits and one decimal point. Exponents and a leading plus are rejected.
var plainNumber = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// literalPreviewWidth bounds how much of a literal is echoed in error messages.
const literalPreviewWidth = 40

// Kind identifies which literal grammar failed.
type Kind string

// Literal kinds.
const (
	KindDate  Kind = "date"
	KindValue Kind = "value"
)

// ParseError describes a malformed date or value literal. Column and Row are
// filled in by Transform; the standalone parsers leave Row at -1.
type ParseError struct {
	Err     error
	Kind    Kind
	Literal string
	Column  string
	Row     int
}

func (e *ParseError) Error() string {
	literal := utils.TruncateString(e.Literal, literalPreviewWidth)

	if e.Column != "" {
		return fmt.Sprintf("invalid %s %q (column %q, row %d): %v", e.Kind, literal, e.Column, e.Row, e.Err)
	}

	return fmt.Sprintf("invalid %s %q: %v", e.Kind, literal, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// monthNumbers maps lower-cased Spanish month abbreviations to month numbers.
var monthNumbers = map[string]string{
	"ene": "01",
	"feb": "02",
	"mar": "03",
	"abr": "04",
	"may": "05",
	"jun": "06",
	"jul": "07",
	"ago": "08",
	"sep": "09",
	"oct": "10",
	"nov": "11",
	"dic": "12",
}

// ParseDate converts a DD.MMM.YYYY literal with a Spanish month abbreviation
// (e.g. "01.Ene.2025") into YYYY-MM-DD.
func ParseDate(raw string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &ParseError{Kind: KindDate, Literal: raw, Row: -1, Err: err}
	}

	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return fail(fmt.Errorf("%w: got %d parts", ErrDatePartCount, len(parts)))
	}

	day, monthAbbr, year := parts[0], parts[1], parts[2]

	month, ok := monthNumbers[strings.ToLower(monthAbbr)]
	if !ok {
		return fail(fmt.Errorf("%w: %q", ErrUnknownMonth, monthAbbr))
	}

	if len(day) == 0 || len(day) > 2 || !isDigits(day) {
		return fail(fmt.Errorf("%w: %q", ErrInvalidDay, day))
	}

	if len(year) != 4 || !isDigits(year) {
		return fail(fmt.Errorf("%w: %q", ErrInvalidYear, year))
	}

	if len(day) == 1 {
		day = "0" + day
	}

	canonical := year + "-" + month + "-" + day
	if _, err := time.Parse(time.DateOnly, canonical); err != nil {
		return fail(fmt.Errorf("%w: %s", ErrInvalidDate, canonical))
	}

	return canonical, nil
}

// ParseValue converts a Latin-locale number ("38.419,17") into a float64.
// Dots are thousands separators and the comma is the decimal separator.
func ParseValue(raw string) (float64, error) {
	fail := func(err error) (float64, error) {
		return 0, &ParseError{Kind: KindValue, Literal: raw, Row: -1, Err: err}
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return fail(ErrEmptyValue)
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	if !plainNumber.MatchString(s) {
		return fail(ErrInvalidNumber)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrInvalidNumber, err))
	}

	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fail(ErrNonFiniteNumber)
	}

	return f, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
