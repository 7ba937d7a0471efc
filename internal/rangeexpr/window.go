package rangeexpr

import (
	"strconv"
	"strings"
)

// Window is a half-open hour window [Start, End) in decimal hours.
//
// Correction table columns encode their window as "H:MM a H:MM" where the
// end time is inclusive to the minute: "14:00 a 15:59" means the window
// covers everything before 16:00, so it parses to [14, 16). A bare
// trailing-hour header like "14" covers that single hour, [14, 15).
type Window struct {
	Start float64
	End   float64
}

// Contains reports whether the decimal hour h falls inside the window.
func (w Window) Contains(h float64) bool {
	return w.Start <= h && h < w.End
}

// ParseWindow extracts an hour window from a column header. It returns
// ok=false for headers that do not encode a window (exposure or slope
// label columns, malformed times).
func ParseWindow(header string) (Window, bool) {
	s := strings.ToLower(strings.TrimSpace(header))
	if s == "" {
		return Window{}, false
	}

	if strings.Contains(s, " a ") {
		parts := strings.SplitN(strings.ReplaceAll(s, " a ", "-"), "-", 2)
		start, okStart := parseHourOfDay(parts[0])
		end, okEnd := parseHourOfDay(parts[1])
		if !okStart || !okEnd {
			return Window{}, false
		}
		// "15:59" end means the window runs up to (but excluding) 16:00.
		return Window{Start: float64(start), End: float64(end + 1)}, true
	}

	h, ok := parseHourOfDay(s)
	if !ok {
		return Window{}, false
	}
	return Window{Start: float64(h), End: float64(h + 1)}, true
}

// parseHourOfDay reads the hour component of "H" or "H:MM" tokens.
func parseHourOfDay(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if i := strings.Index(token, ":"); i >= 0 {
		token = token[:i]
	}
	h, err := strconv.Atoi(token)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
