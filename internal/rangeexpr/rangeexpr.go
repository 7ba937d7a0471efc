// Package rangeexpr parses the range expressions found in the row and
// column labels of the ignition reference tables.
//
// # Label Conventions
//
// The reference tables originate from field spreadsheets and keep their
// labeling conventions:
//
//	"11 a 50"   closed interval, " a " meaning "to"  →  11 <= v <= 50
//	"11-50"     closed interval                      →  11 <= v <= 50
//	">30"       at or above the threshold            →  v >= 30
//	"41+"       at or above the threshold            →  v >= 41
//	"<0"        strictly below the threshold         →  v < 0
//	"25"        exact value                          →  v == 25
//	"TODAS"     wildcard (Spanish "all")             →  always matches
//
// Labels are case-insensitive and may carry a trailing "%". A label that
// fits none of the forms above parses as an Invalid expression, which
// never matches anything: lookups against malformed labels fail closed
// instead of raising. Labels with a leading "-" (a negative lower bound)
// are also Invalid; the tables express their cold band as "<0" instead.
package rangeexpr

import (
	"strconv"
	"strings"
)

// Kind discriminates the parsed variants of a range label.
type Kind int

const (
	// Invalid marks a label that fits no known form. It never matches.
	Invalid Kind = iota
	// All is the "TODAS" wildcard. It matches every value.
	All
	// GreaterEqual matches v >= Low (">30", "41+").
	GreaterEqual
	// LessThan matches v < High ("<0").
	LessThan
	// Interval matches Low <= v <= High ("11 a 50", "11-50").
	Interval
	// Exact matches v == Low ("25").
	Exact
)

// Expr is a range label parsed into a typed variant. Parse once at table
// load time; Matches is then a constant-time test with no reparsing.
type Expr struct {
	Kind Kind
	Low  float64
	High float64
}

// Parse classifies a label into an Expr. The checks apply in a fixed
// precedence order, first match wins. Any parse failure yields Invalid.
func Parse(label string) Expr {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" || s == "nan" {
		return Expr{Kind: Invalid}
	}

	// Wildcard: "TODAS", "todas", "tod."
	if strings.Contains(s, "tod") {
		return Expr{Kind: All}
	}

	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, " a ", "-")
	s = strings.TrimSpace(s)

	if i := strings.Index(s, ">"); i >= 0 {
		return threshold(GreaterEqual, s[i+1:])
	}
	if i := strings.Index(s, "+"); i >= 0 {
		return threshold(GreaterEqual, s[:i])
	}
	if i := strings.Index(s, "<"); i >= 0 {
		v, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
		if err != nil {
			return Expr{Kind: Invalid}
		}
		return Expr{Kind: LessThan, High: v}
	}
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return Expr{Kind: Invalid}
		}
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLo != nil || errHi != nil {
			return Expr{Kind: Invalid}
		}
		return Expr{Kind: Interval, Low: lo, High: hi}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Expr{Kind: Invalid}
	}
	return Expr{Kind: Exact, Low: v}
}

func threshold(kind Kind, raw string) Expr {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Expr{Kind: Invalid}
	}
	return Expr{Kind: kind, Low: v}
}

// Matches reports whether v satisfies the expression.
func (e Expr) Matches(v float64) bool {
	switch e.Kind {
	case All:
		return true
	case GreaterEqual:
		return v >= e.Low
	case LessThan:
		return v < e.High
	case Interval:
		return e.Low <= v && v <= e.High
	case Exact:
		return v == e.Low
	default:
		return false
	}
}

// Matches parses label and tests v against it in one step. Intended for
// ad hoc checks; table loading parses labels once instead.
func Matches(v float64, label string) bool {
	return Parse(label).Matches(v)
}
