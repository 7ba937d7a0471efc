package ignition

import (
	"fmt"
	"strings"
)

// Table IDs in the reference store.
const (
	tableDay   = "day"
	tableNight = "night"
	tablePIG   = "pig"
)

// isDaytime reports whether the hour selects the day table. Both bounds
// are inclusive: 20.0 still counts as day, 20.01 is night.
func isDaytime(hour float64) bool {
	return hour >= 8.0 && hour <= 20.0
}

// baseMoisture resolves the base fine-fuel moisture from the day or
// night table. Rows are scanned top to bottom and columns left to right;
// the first matching label wins. A miss on either axis is terminal.
func (c *Calculator) baseMoisture(temperature, humidity, hour float64) (float64, string, error) {
	id := tableNight
	if isDaytime(hour) {
		id = tableDay
	}

	tbl, err := c.store.Load(id)
	if err != nil {
		return 0, "", err
	}

	rowIdx := -1
	for i, row := range tbl.Rows {
		if row.Exprs[0].Matches(temperature) {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return 0, "", fmt.Errorf("%w: %.1f°C not in %s table", ErrTemperatureOutOfRange, temperature, id)
	}

	colIdx := -1
	for i := 1; i < len(tbl.Columns); i++ {
		if tbl.Columns[i].Expr.Matches(humidity) {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return 0, "", fmt.Errorf("%w: %.1f%% not in %s table", ErrHumidityOutOfRange, humidity, id)
	}

	value, ok := tbl.Value(rowIdx, colIdx)
	if !ok {
		return 0, "", fmt.Errorf("%s table cell (%s, %s) is not numeric",
			id, tbl.Rows[rowIdx].Cells[0], tbl.Columns[colIdx].Label)
	}

	note := fmt.Sprintf("base moisture %g from %s table (temperature row %q, humidity column %q)",
		value, id, strings.TrimSpace(tbl.Rows[rowIdx].Cells[0]), strings.TrimSpace(tbl.Columns[colIdx].Label))
	return value, note, nil
}
