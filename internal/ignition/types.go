package ignition

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Terminal lookup failures: the base moisture table does not cover the
// input, so no estimate can be produced.
var (
	ErrTemperatureOutOfRange = errors.New("temperature outside table range")
	ErrHumidityOutOfRange    = errors.New("relative humidity outside table range")
)

// Aspect is the compass-facing direction of the slope.
type Aspect string

const (
	AspectNorth Aspect = "north"
	AspectSouth Aspect = "south"
	AspectEast  Aspect = "east"
	AspectWest  Aspect = "west"
)

// ParseAspect accepts the four compass names or their table codes,
// case-insensitively.
func ParseAspect(s string) (Aspect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "norte":
		return AspectNorth, nil
	case "south", "s", "sur":
		return AspectSouth, nil
	case "east", "e", "este":
		return AspectEast, nil
	case "west", "w", "o", "oeste":
		return AspectWest, nil
	default:
		return "", fmt.Errorf("unknown aspect %q", s)
	}
}

// code returns the single-letter exposure code used in the correction
// table row labels. West is "O" (Oeste), per the source spreadsheets.
func (a Aspect) code() string {
	switch a {
	case AspectNorth:
		return "N"
	case AspectSouth:
		return "S"
	case AspectEast:
		return "E"
	case AspectWest:
		return "O"
	default:
		return ""
	}
}

// Inputs is the weather and terrain observation to assess.
type Inputs struct {
	Temperature      float64 `json:"temperature_c"`
	RelativeHumidity float64 `json:"relative_humidity_pct"`
	Hour             float64 `json:"hour"` // decimal hours, [0, 24)
	Month            int     `json:"month"`
	ShadePercent     float64 `json:"shade_pct"`
	SlopePercent     float64 `json:"slope_pct"`
	Aspect           Aspect  `json:"aspect"`
}

// Validate checks the input contract. Temperature is unbounded: cold
// inputs are legal and resolve against the "<0" table band.
func (in Inputs) Validate() error {
	if in.RelativeHumidity < 0 || in.RelativeHumidity > 100 {
		return fmt.Errorf("relative humidity %.1f outside [0, 100]", in.RelativeHumidity)
	}
	if in.Hour < 0 || in.Hour >= 24 {
		return fmt.Errorf("hour %.2f outside [0, 24)", in.Hour)
	}
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("month %d outside [1, 12]", in.Month)
	}
	if in.ShadePercent < 0 || in.ShadePercent > 100 {
		return fmt.Errorf("shade %.1f outside [0, 100]", in.ShadePercent)
	}
	if in.SlopePercent < 0 || in.SlopePercent > 100 {
		return fmt.Errorf("slope %.1f outside [0, 100]", in.SlopePercent)
	}
	if _, err := ParseAspect(string(in.Aspect)); err != nil {
		return err
	}
	return nil
}

// Assessment is the result of one ignition probability computation.
type Assessment struct {
	BaseMoisture  float64   `json:"base_moisture"`
	Correction    float64   `json:"correction"`
	FinalMoisture float64   `json:"final_moisture"`
	Probability   float64   `json:"probability_pct"`
	Category      Category  `json:"category"`
	Notes         []string  `json:"notes"` // one provenance note per stage
	ComputedAt    time.Time `json:"computed_at"`
}
