package ignition

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// pigColumnFloor is the lowest fuel-moisture column in the probability
// table; drier values clamp up to it.
const pigColumnFloor = 2

// probability resolves the final ignition probability from the PIG
// table. Row labels pair a shade band (column 0) with a temperature band
// (column 1); data columns are integer fuel-moisture buckets. An
// unmatched row degrades to probability 0 with a note so the caller can
// still render a result. Only a missing table returns an error.
func (c *Calculator) probability(finalMoisture, temperature, shadePercent float64) (float64, string, error) {
	tbl, err := c.store.Load(tablePIG)
	if err != nil {
		return 0, "", err
	}

	rowIdx := -1
	for i, row := range tbl.Rows {
		if row.Exprs[0].Matches(shadePercent) && row.Exprs[1].Matches(temperature) {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		c.degradedLookup("probability")
		return 0, fmt.Sprintf("no probability data for shade %.0f%% at %.1f°C", shadePercent, temperature), nil
	}

	target := int(math.Round(finalMoisture))
	clamped := false
	if target < pigColumnFloor {
		target = pigColumnFloor
		clamped = true
	}

	if colIdx := tbl.ColumnIndex(strconv.Itoa(target)); colIdx >= 0 {
		value, ok := tbl.Value(rowIdx, colIdx)
		if !ok {
			c.degradedLookup("probability")
			return 0, fmt.Sprintf("no probability: pig cell (%s, %d) is not numeric",
				strings.TrimSpace(tbl.Rows[rowIdx].Cells[0]), target), nil
		}
		note := fmt.Sprintf("probability %g%% from pig table (moisture column %d)", value, target)
		if clamped {
			note += fmt.Sprintf("; moisture %.1f clamped up to table floor %d", finalMoisture, pigColumnFloor)
		}
		return value, note, nil
	}

	// Moisture beyond the rightmost bucket: probability of ignition
	// decreases monotonically with moisture, so the last column is the
	// applicable (lowest) tabulated value.
	last := len(tbl.Columns) - 1
	value, ok := tbl.Value(rowIdx, last)
	if !ok {
		c.degradedLookup("probability")
		return 0, "no probability: rightmost pig cell is not numeric", nil
	}
	note := fmt.Sprintf("probability %g%%: moisture %.1f beyond table maximum %s, extreme humidity means low risk",
		value, finalMoisture, strings.TrimSpace(tbl.Columns[last].Label))
	return value, note, nil
}
