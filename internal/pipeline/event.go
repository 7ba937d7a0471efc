package pipeline

import (
	"context"
	"time"
)

// Observation is the flat JSON message published by weather stations to
// the source topic: one weather/terrain reading per message. Hour and
// month are derived from ObservedAt, falling back to the Kafka message
// timestamp when the field is absent.
type Observation struct {
	StationID        string    `json:"station_id"`
	ObservedAt       time.Time `json:"observed_at"`
	Temperature      float64   `json:"temperature_c"`
	RelativeHumidity float64   `json:"relative_humidity_pct"`
	ShadePercent     float64   `json:"shade_pct"`
	SlopePercent     float64   `json:"slope_pct"`
	Aspect           string    `json:"aspect"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized assessment destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
