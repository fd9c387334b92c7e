package mocks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/mock"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) ([]classifier.LabelScore, error) {
	args := m.Called(ctx, text)
	scores, ok := args.Get(0).([]classifier.LabelScore)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []classifier.LabelScore, got %T", args.Get(0))
	}
	return scores, args.Error(1)
}

type MockGuardrailRuntime struct {
	mock.Mock
}

func (m *MockGuardrailRuntime) ApplyGuardrail(
	ctx context.Context,
	params *bedrockruntime.ApplyGuardrailInput,
	optFns ...func(*bedrockruntime.Options),
) (*bedrockruntime.ApplyGuardrailOutput, error) {
	args := m.Called(ctx, params)
	out, ok := args.Get(0).(*bedrockruntime.ApplyGuardrailOutput)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *bedrockruntime.ApplyGuardrailOutput, got %T", args.Get(0))
	}
	return out, args.Error(1)
}
