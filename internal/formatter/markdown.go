// Package formatter renders stored series as aligned markdown tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"ufscraper/internal/models"
)

// FormatRecords renders records as a `| fecha | valor |` table. When limit is
// positive only the latest limit records are shown.
func FormatRecords(records []models.DateValueRecord, limit int) string {
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	lines := make([]string, 0, len(records)+2)
	lines = append(lines, "| fecha | valor |", "| --- | ---: |")

	for _, r := range records {
		lines = append(lines, "| "+r.Fecha+" | "+FormatValue(r.Valor)+" |")
	}

	return strings.Join(processTable(lines), "\n") + "\n"
}

// FormatValue prints v with two decimals in the source locale: "." groups
// thousands and "," separates decimals, e.g. 38419.17 -> "38.419,17".
func FormatValue(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var sb strings.Builder

	sb.WriteString(sign)

	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(digit)
	}

	sb.WriteByte(',')
	sb.WriteString(fracPart)

	return sb.String()
}

// FormatMarkdown realigns every pipe table found in content.
func FormatMarkdown(content string) string {
	lines := strings.Split(content, "\n")

	var formattedLines []string

	var tableBuffer []string

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)

		// Simple heuristic: starts and ends with |
		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableBuffer = append(tableBuffer, line)

			continue
		}

		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		formattedLines = append(formattedLines, line)
	}

	if len(tableBuffer) > 0 {
		formattedLines = append(formattedLines, processTable(tableBuffer)...)
	}

	return strings.Join(formattedLines, "\n")
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

func processTable(rows []string) []string {
	// Needs at least a header and a separator
	if len(rows) < 2 {
		return rows
	}

	// 1. Parse all cells
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, splitRow(row))
	}

	colCount := 0
	for _, row := range table {
		colCount = max(colCount, len(row))
	}

	// 2. Detect the separator row and its alignment markers
	separatorRowIdx := -1
	aligns := make([]alignment, colCount)

	if isSeparator(table[1]) {
		separatorRowIdx = 1

		for i, cell := range table[1] {
			if strings.HasSuffix(strings.TrimSpace(cell), ":") {
				aligns[i] = alignRight
			}
		}
	}

	// 3. Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	// Separator needs at least "---"
	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	// 4. Reconstruct lines
	result := make([]string, 0, len(table))

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for j := range colCount {
			sb.WriteString(" ")

			content := ""
			if j < len(row) {
				content = row[j]
			}

			switch {
			case i == separatorRowIdx && aligns[j] == alignRight:
				sb.WriteString(strings.Repeat("-", colWidths[j]-1) + ":")
			case i == separatorRowIdx:
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			default:
				padding := strings.Repeat(" ", max(colWidths[j]-runewidth.StringWidth(content), 0))
				if aligns[j] == alignRight {
					sb.WriteString(padding + content)
				} else {
					sb.WriteString(content + padding)
				}
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}

func splitRow(row string) []string {
	parts := strings.Split(strings.TrimSpace(row), "|")

	// Leading and trailing pipes leave empty parts
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}

	return cells
}

func isSeparator(cells []string) bool {
	if len(cells) == 0 {
		return false
	}

	for _, cell := range cells {
		trim := strings.NewReplacer("-", "", ":", "", " ", "").Replace(cell)
		if trim != "" {
			return false
		}
	}

	return true
}
