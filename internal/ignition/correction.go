package ignition

import (
	"fmt"
	"strings"

	"github.com/emberwatch/ignition-service/internal/rangeexpr"
)

// Season is the three-band seasonal grouping used by the correction
// tables. The month mapping is Southern Hemisphere: the source
// spreadsheets group Nov/Dec/Jan as summer and May/Jun/Jul as winter,
// with a single combined autumn–spring band for the rest.
type Season string

const (
	SeasonSummer       Season = "summer"
	SeasonWinter       Season = "winter"
	SeasonAutumnSpring Season = "autumn_spring"
)

// SeasonForMonth maps a month (1–12) to its correction season.
func SeasonForMonth(month int) Season {
	switch month {
	case 11, 12, 1:
		return SeasonSummer
	case 5, 6, 7:
		return SeasonWinter
	default:
		return SeasonAutumnSpring
	}
}

// shadeBand selects the table variant by canopy shade. Exactly 50% is
// low shade: the high-shade tables apply only above the threshold.
func shadeBand(shadePercent float64) string {
	if shadePercent > 50 {
		return "high_shade"
	}
	return "low_shade"
}

func correctionTableID(season Season, shadePercent float64) string {
	return string(season) + "_" + shadeBand(shadePercent)
}

// correction resolves the additive moisture adjustment for the given
// terrain and time. It never hard-fails on unmatched conditions: a
// missing hour window or exposure/slope row degrades to a zero
// correction with a note, because correction data is sparse by design
// and its absence must not block the estimate. Only a missing
// season × shade table (a configuration error) returns an error.
func (c *Calculator) correction(month int, shadePercent float64, aspect Aspect, slopePercent, hour float64) (float64, string, error) {
	id := correctionTableID(SeasonForMonth(month), shadePercent)

	tbl, err := c.store.Load(id)
	if err != nil {
		return 0, "", err
	}

	colIdx := -1
	for i, col := range tbl.Columns {
		if col.IsWindow && col.Window.Contains(hour) {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		// Deep night hours fall outside every correction window.
		c.degradedLookup("correction")
		return 0, fmt.Sprintf("no correction: hour %.2f outside the %s table windows", hour, id), nil
	}

	code := aspect.code()
	for i, row := range tbl.Rows {
		exposure := strings.TrimSpace(row.Cells[0])
		matchExposure := strings.Contains(exposure, code) || row.Exprs[0].Kind == rangeexpr.All
		if !matchExposure || !row.Exprs[1].Matches(slopePercent) {
			continue
		}

		value, ok := tbl.Value(i, colIdx)
		if !ok {
			c.degradedLookup("correction")
			return 0, fmt.Sprintf("no correction: %s cell (%s, %s) is not numeric",
				id, exposure, tbl.Columns[colIdx].Label), nil
		}
		note := fmt.Sprintf("correction %+g from %s table (exposure %q, slope %q, window %q)",
			value, id, exposure, strings.TrimSpace(row.Cells[1]), strings.TrimSpace(tbl.Columns[colIdx].Label))
		return value, note, nil
	}

	c.degradedLookup("correction")
	return 0, fmt.Sprintf("no correction: no %s row for exposure %s at slope %.0f%%", id, code, slopePercent), nil
}
