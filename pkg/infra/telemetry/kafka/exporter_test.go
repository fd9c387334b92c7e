package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry"
	exporter "github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry/kafka"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	messages    []*kafka.Message
	deliveryErr error
	produceErr  error
	closed      bool
	bootstrap   string
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if f.produceErr != nil {
		return f.produceErr
	}
	f.messages = append(f.messages, msg)
	report := *msg
	report.TopicPartition.Error = f.deliveryErr
	deliveryChan <- &report
	return nil
}

func (f *fakeProducer) Flush(int) int { return 0 }

func (f *fakeProducer) Close() { f.closed = true }

func newExporter(t *testing.T, fake *fakeProducer) telemetry.Exporter {
	t.Helper()
	base := exporter.NewKafkaExporterWithFactory(func(conf *kafka.ConfigMap) (exporter.Producer, error) {
		v, err := conf.Get("bootstrap.servers", "")
		require.NoError(t, err)
		fake.bootstrap, _ = v.(string)
		return fake, nil
	})
	exp, err := base.WithSettings(map[string]interface{}{"host": "localhost", "port": 9092, "topic": "decisions"})
	require.NoError(t, err)
	return exp
}

func TestExporter_ValidateConfig(t *testing.T) {
	exp := exporter.NewKafkaExporter()

	tests := []struct {
		name     string
		settings map[string]interface{}
		wantErr  bool
	}{
		{"valid", map[string]interface{}{"host": "h", "port": "9092", "topic": "t"}, false},
		{"numeric port", map[string]interface{}{"host": "h", "port": 9092, "topic": "t"}, false},
		{"missing host", map[string]interface{}{"port": "9092", "topic": "t"}, true},
		{"missing port", map[string]interface{}{"host": "h", "topic": "t"}, true},
		{"missing topic", map[string]interface{}{"host": "h", "port": "9092"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exp.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExporter_Handle(t *testing.T) {
	fake := &fakeProducer{}
	exp := newExporter(t, fake)
	assert.Equal(t, "localhost:9092", fake.bootstrap)

	evt := telemetry.NewDecisionEvent()
	evt.IsToxic = true
	evt.Labels = []string{"insult"}

	require.NoError(t, exp.Handle(context.Background(), evt))
	require.Len(t, fake.messages, 1)

	msg := fake.messages[0]
	assert.Equal(t, "decisions", *msg.TopicPartition.Topic)
	assert.Equal(t, evt.ID, string(msg.Key))

	var decoded telemetry.DecisionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.True(t, decoded.IsToxic)
	assert.Equal(t, []string{"insult"}, decoded.Labels)

	exp.Close()
	assert.True(t, fake.closed)
}

func TestExporter_HandleErrors(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		err := exporter.NewKafkaExporter().Handle(context.Background(), telemetry.NewDecisionEvent())
		assert.ErrorIs(t, err, exporter.ErrProducerNotInitialized)
	})

	t.Run("produce fails", func(t *testing.T) {
		exp := newExporter(t, &fakeProducer{produceErr: errors.New("queue full")})
		assert.Error(t, exp.Handle(context.Background(), telemetry.NewDecisionEvent()))
	})

	t.Run("delivery fails", func(t *testing.T) {
		exp := newExporter(t, &fakeProducer{deliveryErr: errors.New("broker down")})
		err := exp.Handle(context.Background(), telemetry.NewDecisionEvent())
		assert.ErrorContains(t, err, "delivery failed")
	})
}
