package ignition

import (
	"fmt"
	"log/slog"

	"github.com/emberwatch/ignition-service/internal/observability"
	"github.com/emberwatch/ignition-service/internal/tables"
)

// Calculator runs the full assessment pipeline against a table store.
// It is stateless per call and safe for concurrent use: the store is
// read-only and every invocation is an independent computation.
type Calculator struct {
	store   *tables.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCalculator creates a Calculator over the given reference tables.
// A nil metrics disables degraded-lookup counting.
func NewCalculator(store *tables.Store, logger *slog.Logger, metrics *observability.Metrics) *Calculator {
	return &Calculator{store: store, logger: logger, metrics: metrics}
}

// degradedLookup counts a resolver falling back to a default value.
func (c *Calculator) degradedLookup(stage string) {
	if c.metrics != nil {
		c.metrics.DegradedLookups.WithLabelValues(stage).Inc()
	}
}

// Assess computes the ignition probability for one observation:
// base moisture, plus seasonal/terrain correction, resolved through the
// probability table and classified into a risk band.
//
// Base-moisture misses and configuration errors (missing tables) return
// an error. Correction and probability misses degrade: the assessment
// still carries a number, with the degradation explained in Notes.
func (c *Calculator) Assess(in Inputs) (Assessment, error) {
	if err := in.Validate(); err != nil {
		return Assessment{}, fmt.Errorf("invalid inputs: %w", err)
	}

	base, baseNote, err := c.baseMoisture(in.Temperature, in.RelativeHumidity, in.Hour)
	if err != nil {
		return Assessment{}, err
	}

	correction, corrNote, err := c.correction(in.Month, in.ShadePercent, in.Aspect, in.SlopePercent, in.Hour)
	if err != nil {
		return Assessment{}, err
	}
	if correction == 0 && c.logger != nil {
		c.logger.Debug("zero correction", "note", corrNote)
	}

	final := base + correction

	probability, probNote, err := c.probability(final, in.Temperature, in.ShadePercent)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		BaseMoisture:  base,
		Correction:    correction,
		FinalMoisture: final,
		Probability:   probability,
		Category:      Classify(probability),
		Notes:         []string{baseNote, corrNote, probNote},
		ComputedAt:    clock.Now(),
	}, nil
}
