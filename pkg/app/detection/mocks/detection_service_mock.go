package mocks

import (
	"context"

	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Detect(ctx context.Context, in detection.Input) detection.Report {
	return m.Called(ctx, in).Get(0).(detection.Report)
}

func (m *MockService) Detox(ctx context.Context, in detection.Input) detection.DetoxReport {
	return m.Called(ctx, in).Get(0).(detection.DetoxReport)
}

func (m *MockService) Answer(question string) string {
	return m.Called(question).String(0)
}
