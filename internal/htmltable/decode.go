// Package htmltable decodes every <table> of an HTML document into generic
// string tables with a single header row.
package htmltable

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"ufscraper/internal/models"
	"ufscraper/pkg/utils"
)

// maxColspan caps colspan attributes, matching what browsers accept.
const maxColspan = 1000

type cell struct {
	text   string
	header bool
	span   int
}

type row struct {
	cells  []cell
	inHead bool
}

// Decode parses an HTML document and returns its tables in document order.
// A nested table is returned as its own entry and its rows are not part of
// the enclosing table.
func Decode(r io.Reader) ([]models.RawTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables []models.RawTable

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, decodeTable(n))
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tables, nil
}

// DecodeWithCharset is Decode for documents that may not be UTF-8. The
// encoding is taken from contentType, a <meta> tag, or sniffed.
func DecodeWithCharset(r io.Reader, contentType string) ([]models.RawTable, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	return Decode(utf8Reader)
}

func decodeTable(table *html.Node) models.RawTable {
	rows := collectRows(table)

	var (
		header []cell
		body   []row
	)

	lastHead := -1

	for i, r := range rows {
		if r.inHead {
			lastHead = i
		}
	}

	switch {
	case lastHead >= 0:
		header = rows[lastHead].cells

		for _, r := range rows {
			if !r.inHead {
				body = append(body, r)
			}
		}
	case len(rows) > 0 && allHeaderCells(rows[0].cells):
		header = rows[0].cells
		body = rows[1:]
	default:
		body = rows
	}

	columns := headerLabels(header)
	if len(columns) == 0 {
		columns = positionalLabels(body)
	}

	out := models.RawTable{Columns: columns}

	for _, r := range body {
		values := expand(r.cells)
		if len(values) == 0 {
			continue
		}

		record := make(models.Row, len(columns))
		for i, label := range columns {
			if i < len(values) {
				record[label] = values[i]
			} else {
				record[label] = ""
			}
		}

		out.Rows = append(out.Rows, record)
	}

	return out
}

// collectRows gathers the rows owned by table, looking through thead, tbody
// and tfoot but not into nested tables.
func collectRows(table *html.Node) []row {
	var rows []row

	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, row{cells: collectCells(c)})
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.DataAtom == atom.Tr {
					rows = append(rows, row{cells: collectCells(tr), inHead: c.DataAtom == atom.Thead})
				}
			}
		}
	}

	return rows
}

func collectCells(tr *html.Node) []cell {
	var cells []cell

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}

		cells = append(cells, cell{
			text:   utils.NormalizeWhitespace(textOf(c)),
			header: c.DataAtom == atom.Th,
			span:   colspan(c),
		})
	}

	return cells
}

func textOf(n *html.Node) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)

			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Table:
				return
			case atom.Br:
				sb.WriteString(" ")

				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return sb.String()
}

func colspan(n *html.Node) int {
	for _, a := range n.Attr {
		if a.Key != "colspan" {
			continue
		}

		span, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || span < 1 {
			return 1
		}

		return min(span, maxColspan)
	}

	return 1
}

func allHeaderCells(cells []cell) bool {
	if len(cells) == 0 {
		return false
	}

	for _, c := range cells {
		if !c.header {
			return false
		}
	}

	return true
}

func expand(cells []cell) []string {
	var out []string

	for _, c := range cells {
		for range c.span {
			out = append(out, c.text)
		}
	}

	return out
}

// headerLabels expands the header row and makes labels unique: an empty
// label becomes "Unnamed: <i>" and repeats get the first free ".1", ".2", ...
// suffix, skipping labels already present in the header.
func headerLabels(header []cell) []string {
	labels := expand(header)
	used := make(map[string]bool, len(labels))
	suffixes := make(map[string]int, len(labels))

	for i, label := range labels {
		if label == "" {
			label = "Unnamed: " + strconv.Itoa(i)
		}

		candidate := label
		for used[candidate] {
			suffixes[label]++
			candidate = label + "." + strconv.Itoa(suffixes[label])
		}

		used[candidate] = true
		labels[i] = candidate
	}

	return labels
}

func positionalLabels(body []row) []string {
	width := 0

	for _, r := range body {
		width = max(width, len(expand(r.cells)))
	}

	labels := make([]string, width)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}

	return labels
}
