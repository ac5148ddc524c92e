// File: pkg/formatter/table.go
package formatter

import (
	"strings"
	"unicode/utf8"
)

// Column describes one table column. Secret columns render every cell through MaskSecret.
type Column struct {
	Header string
	Secret bool
}

// Table renders rows as an ASCII grid sized to its widest cell
type Table struct {
	columns []Column
	rows    [][]string
}

func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// Headers builds plain columns from header names
func Headers(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Header: n}
	}
	return cols
}

// AddRow appends one row. Missing cells render empty and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i >= len(cells) {
			break
		}
		row[i] = cells[i]
		if t.columns[i].Secret {
			row[i] = MaskSecret(cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = utf8.RuneCountInString(c.Header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	return widths
}

func (t *Table) String() string {
	if len(t.columns) == 0 {
		return ""
	}

	widths := t.widths()
	border := rule(widths)

	var sb strings.Builder
	sb.WriteString(border)
	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.Header
	}
	writeRow(&sb, headers, widths)
	sb.WriteString(border)
	for _, row := range t.rows {
		writeRow(&sb, row, widths)
	}
	sb.WriteString(strings.TrimSuffix(border, "\n"))

	return sb.String()
}

func rule(widths []int) string {
	var sb strings.Builder
	sb.WriteString("+")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
