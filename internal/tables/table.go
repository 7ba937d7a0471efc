package tables

import (
	"strconv"
	"strings"

	"github.com/emberwatch/ignition-service/internal/rangeexpr"
)

// Column is a header cell with its label pre-parsed both as a range
// expression and, where the header encodes one, as an hour window.
type Column struct {
	Label    string
	Expr     rangeexpr.Expr
	Window   rangeexpr.Window
	IsWindow bool
}

// Row is a data row. Cells keeps the raw strings; Exprs holds the
// range expression parsed from each cell (Invalid for numeric cells);
// Values holds the numeric parse of each cell (NaN is not used — Valid
// reports parseability instead).
type Row struct {
	Cells  []string
	Exprs  []rangeexpr.Expr
	Values []float64
	Valid  []bool
}

// Table is an immutable reference table: a header row of labeled columns
// and data rows whose leading one or two cells are range labels. Label
// parsing happens once, here, so lookups scan typed variants only.
type Table struct {
	ID      string
	Columns []Column
	Rows    []Row
}

// Value returns the numeric value of the cell at (row, col) and whether
// the cell held a parseable number.
func (t *Table) Value(row, col int) (float64, bool) {
	if row < 0 || row >= len(t.Rows) {
		return 0, false
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r.Values) {
		return 0, false
	}
	return r.Values[col], r.Valid[col]
}

// ColumnIndex returns the index of the column whose label equals name
// after trimming, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.TrimSpace(c.Label) == name {
			return i
		}
	}
	return -1
}

func newTable(id string, records [][]string) *Table {
	t := &Table{ID: id}

	for _, label := range records[0] {
		col := Column{
			Label: label,
			Expr:  rangeexpr.Parse(label),
		}
		col.Window, col.IsWindow = rangeexpr.ParseWindow(label)
		t.Columns = append(t.Columns, col)
	}

	for _, rec := range records[1:] {
		row := Row{
			Cells:  rec,
			Exprs:  make([]rangeexpr.Expr, len(rec)),
			Values: make([]float64, len(rec)),
			Valid:  make([]bool, len(rec)),
		}
		for i, cell := range rec {
			row.Exprs[i] = rangeexpr.Parse(cell)
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				row.Values[i] = v
				row.Valid[i] = true
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}
