package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emberwatch/ignition-service/internal/ignition"
)

// AssessmentEvent is the sink topic message: the observation identity
// plus the full computed assessment.
type AssessmentEvent struct {
	StationID  string              `json:"station_id"`
	ObservedAt time.Time           `json:"observed_at"`
	Inputs     ignition.Inputs     `json:"inputs"`
	Result     ignition.Assessment `json:"result"`
}

// AssessmentTransformer implements Transformer by running the ignition
// calculator over each observation.
type AssessmentTransformer struct {
	calc *ignition.Calculator
}

// NewTransformer creates an AssessmentTransformer.
func NewTransformer(calc *ignition.Calculator) *AssessmentTransformer {
	return &AssessmentTransformer{calc: calc}
}

// Transform parses an observation, assesses it, and serializes the
// result. Malformed observations and terminal range misses return an
// error; the pipeline counts and skips them.
func (t *AssessmentTransformer) Transform(_ context.Context, raw RawEvent) (OutputEvent, error) {
	var obs Observation
	if err := json.Unmarshal(raw.Value, &obs); err != nil {
		return OutputEvent{}, fmt.Errorf("parse observation: %w", err)
	}

	observedAt := obs.ObservedAt
	if observedAt.IsZero() {
		observedAt = raw.Timestamp
	}

	aspect, err := ignition.ParseAspect(obs.Aspect)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("observation %s: %w", obs.StationID, err)
	}

	in := ignition.Inputs{
		Temperature:      obs.Temperature,
		RelativeHumidity: obs.RelativeHumidity,
		Hour:             float64(observedAt.Hour()) + float64(observedAt.Minute())/60.0,
		Month:            int(observedAt.Month()),
		ShadePercent:     obs.ShadePercent,
		SlopePercent:     obs.SlopePercent,
		Aspect:           aspect,
	}

	result, err := t.calc.Assess(in)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("assess observation %s: %w", obs.StationID, err)
	}

	return serializeAssessment(AssessmentEvent{
		StationID:  obs.StationID,
		ObservedAt: observedAt,
		Inputs:     in,
		Result:     result,
	})
}

// serializeAssessment marshals an AssessmentEvent into an OutputEvent
// keyed by station so a station's assessments stay ordered per partition.
func serializeAssessment(event AssessmentEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.StationID),
		Value: data,
		Headers: map[string]string{
			"category":    event.Result.Category.Name,
			"computed_at": event.Result.ComputedAt.Format(time.RFC3339),
		},
	}, nil
}
