package render

import "strings"

// Table lays out character data in left-justified, space-padded columns.
// The template is a string of "*" field markers; any other characters are
// copied between fields verbatim, and characters before the first "*"
// prefix every row. "** * * *" is the port table: a one-character diff
// indicator column followed by four space-separated columns.
type Table struct {
	prefix  string
	padding []string
	widths  []int
	rows    []tableRow
}

type tableRow struct {
	cells []string
	raw   string
	isRaw bool
}

// NewTable parses a column template.
func NewTable(template string) *Table {
	t := &Table{}
	j := 0
	for j < len(template) && template[j] != '*' {
		j++
	}
	t.prefix = template[:j]
	j++
	i := j
	for j < len(template) {
		for j < len(template) && template[j] != '*' {
			j++
		}
		t.padding = append(t.padding, template[i:j])
		j++
		i = j
	}
	return t
}

// Append adds a row of cells. Trailing empty cells are dropped so absent
// values never force padding at the end of a line.
func (t *Table) Append(cells ...string) {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	for i, cell := range cells {
		if i == len(t.widths) {
			t.widths = append(t.widths, len(cell))
		} else if len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
	t.rows = append(t.rows, tableRow{cells: cells})
}

// AppendRaw adds a row that bypasses column formatting.
func (t *Table) AppendRaw(s string) {
	t.rows = append(t.rows, tableRow{raw: s, isRaw: true})
}

// Len returns the number of rows appended so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders all rows, one per line, with trailing spaces trimmed.
func (t *Table) String() string {
	lines := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		if row.isRaw {
			lines = append(lines, row.raw)
			continue
		}
		var b strings.Builder
		b.WriteString(t.prefix)
		for i, cell := range row.cells {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", t.widths[i]-len(cell)))
			if i < len(t.padding) {
				b.WriteString(t.padding[i])
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}
