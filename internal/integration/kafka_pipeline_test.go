//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/emberwatch/ignition-service/internal/adapter/kafka"
	"github.com/emberwatch/ignition-service/internal/config"
	"github.com/emberwatch/ignition-service/internal/ignition"
	"github.com/emberwatch/ignition-service/internal/observability"
	"github.com/emberwatch/ignition-service/internal/pipeline"
	"github.com/emberwatch/ignition-service/internal/tables"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-observations"
	testSinkTopic   = "test-assessments"
)

// assessedMessage holds a deserialized message read from the sink topic.
type assessedMessage struct {
	Event   pipeline.AssessmentEvent
	Key     string
	Headers map[string]string
}

// readAssessed reads a single message from the sink consumer and deserializes it.
func readAssessed(ctx context.Context, t *testing.T, consumer *kafkago.Reader) assessedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event pipeline.AssessmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return assessedMessage{
		Event:   event,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func newTransformer(t *testing.T) *pipeline.AssessmentTransformer {
	t.Helper()
	store, err := tables.NewStore()
	require.NoError(t, err)
	return pipeline.NewTransformer(ignition.NewCalculator(store, discardLogger(), observability.NewMetricsForTesting()))
}

// testObservations covers the main assessment paths: a midday summer
// reading, a night reading, and a shaded winter slope.
func testObservations() []pipeline.Observation {
	return []pipeline.Observation{
		{
			StationID:        "station-ridge",
			ObservedAt:       time.Date(2026, time.January, 15, 14, 0, 0, 0, time.UTC),
			Temperature:      25,
			RelativeHumidity: 30,
			ShadePercent:     0,
			SlopePercent:     10,
			Aspect:           "north",
		},
		{
			StationID:        "station-valley",
			ObservedAt:       time.Date(2026, time.January, 15, 23, 0, 0, 0, time.UTC),
			Temperature:      25,
			RelativeHumidity: 30,
			ShadePercent:     0,
			SlopePercent:     10,
			Aspect:           "north",
		},
		{
			StationID:        "station-forest",
			ObservedAt:       time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC),
			Temperature:      25,
			RelativeHumidity: 30,
			ShadePercent:     80,
			SlopePercent:     45,
			Aspect:           "south",
		},
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor)
// and kafka.Writer (loader) correctly round-trip an observation through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	obs := testObservations()[0]
	payload, err := json.Marshal(obs)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(obs.StationID),
		Value: payload,
	}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte(obs.StationID), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	require.NoError(t, raw.Commit(ctx))

	transformer := newTransformer(t)
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []pipeline.OutputEvent{out}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	am := readAssessed(ctx, t, consumer)
	assert.Equal(t, "station-ridge", am.Key)
	assert.Equal(t, "high", am.Headers["category"])
	require.Contains(t, am.Headers, "computed_at")
	_, err = time.Parse(time.RFC3339, am.Headers["computed_at"])
	assert.NoError(t, err, "computed_at should be valid RFC3339")

	assert.Equal(t, "station-ridge", am.Event.StationID)
	assert.Equal(t, 5.0, am.Event.Result.BaseMoisture)
	assert.Equal(t, 60.0, am.Event.Result.Probability)
	assert.Equal(t, "high", am.Event.Result.Category.Name)
}

// TestPipelineEndToEnd wires the full scoring loop (reader, transformer,
// writer) against real Kafka and verifies every observation is assessed.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-pipeline-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	observations := testObservations()

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(observations))
	for _, obs := range observations {
		payload, err := json.Marshal(obs)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(obs.StationID),
			Value: payload,
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, newTransformer(t), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]assessedMessage, len(observations))
	for len(received) < len(observations) {
		am := readAssessed(ctx, t, consumer)
		received[am.Event.StationID] = am
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	require.Len(t, received, len(observations))
	for station, am := range received {
		assert.NotEmpty(t, am.Headers["category"], "missing category header for %s", station)
		assert.Contains(t, am.Headers, "computed_at", "missing computed_at header for %s", station)
		assert.NotEmpty(t, am.Event.Result.Category.Name, "missing category for %s", station)
	}

	// Midday summer reading on bare ground: base 5, no correction.
	ridge := received["station-ridge"]
	assert.Equal(t, 5.0, ridge.Event.Result.BaseMoisture)
	assert.Equal(t, 0.0, ridge.Event.Result.Correction)
	assert.Equal(t, 60.0, ridge.Event.Result.Probability)
	assert.Equal(t, "high", ridge.Event.Result.Category.Name)
	assert.Equal(t, 14.0, ridge.Event.Inputs.Hour)
	assert.Equal(t, 1, ridge.Event.Inputs.Month)

	// Same conditions at 23:00 use the night table instead.
	valley := received["station-valley"]
	assert.Equal(t, 6.0, valley.Event.Result.BaseMoisture)

	// Heavily shaded winter slope goes through the high-shade correction table.
	forest := received["station-forest"]
	assert.Equal(t, 4.0, forest.Event.Result.Correction)
	assert.Equal(t, 6, forest.Event.Inputs.Month)
}

// TestPipelineSkipsBadObservation verifies that a malformed message is
// skipped and the loop keeps assessing valid observations.
func TestPipelineSkipsBadObservation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-poison-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	obs := testObservations()[0]
	validPayload, err := json.Marshal(obs)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte(obs.StationID), Value: validPayload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, newTransformer(t), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	am := readAssessed(ctx, t, consumer)
	assert.Equal(t, "station-ridge", am.Event.StationID)
	assert.Equal(t, "high", am.Event.Result.Category.Name)

	// No second message should arrive: the malformed one was skipped.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
