package mocks

import (
	"context"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry"
	"github.com/stretchr/testify/mock"
)

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Name() string {
	return m.Called().String(0)
}

func (m *MockExporter) ValidateConfig(settings map[string]interface{}) error {
	return m.Called(settings).Error(0)
}

func (m *MockExporter) Handle(ctx context.Context, evt *telemetry.DecisionEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockExporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	args := m.Called(settings)
	exp, _ := args.Get(0).(telemetry.Exporter)
	return exp, args.Error(1)
}

func (m *MockExporter) Close() {
	m.Called()
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(evt *telemetry.DecisionEvent) {
	m.Called(evt)
}

func (m *MockPublisher) StartWorkers(n int) {
	m.Called(n)
}

func (m *MockPublisher) Shutdown() {
	m.Called()
}
