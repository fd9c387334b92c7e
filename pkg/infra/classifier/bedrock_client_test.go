package classifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier/mocks"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBedrockClient_Classify(t *testing.T) {
	logger := logrus.New()
	settings := classifier.BedrockSettings{GuardrailID: "gr-1", Version: "1"}

	t.Run("Content filters become labels", func(t *testing.T) {
		runtime := new(mocks.MockGuardrailRuntime)
		runtime.On("ApplyGuardrail", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.ApplyGuardrailInput) bool {
			return aws.ToString(in.GuardrailIdentifier) == "gr-1" && aws.ToString(in.GuardrailVersion) == "1"
		})).Return(&bedrockruntime.ApplyGuardrailOutput{
			Assessments: []types.GuardrailAssessment{
				{
					ContentPolicy: &types.GuardrailContentPolicyAssessment{
						Filters: []types.GuardrailContentFilter{
							{Type: "INSULTS", Confidence: "HIGH", Action: "BLOCKED"},
							{Type: "HATE", Confidence: "LOW", Action: "NONE"},
						},
					},
				},
				{
					ContentPolicy: &types.GuardrailContentPolicyAssessment{
						Filters: []types.GuardrailContentFilter{
							{Type: "HATE", Confidence: "MEDIUM", Action: "NONE"},
						},
					},
				},
				{},
			},
		}, nil)

		client := classifier.NewBedrockClient(runtime, settings, newBreaker(), logger)
		scores, err := client.Classify(context.Background(), "you idiot")
		require.NoError(t, err)
		assert.Equal(t, []classifier.LabelScore{
			{Label: "insults", Score: 1.0},
			{Label: "hate", Score: 0.66},
		}, scores)
		runtime.AssertExpectations(t)
	})

	t.Run("Runtime failure", func(t *testing.T) {
		runtime := new(mocks.MockGuardrailRuntime)
		runtime.On("ApplyGuardrail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		client := classifier.NewBedrockClient(runtime, settings, newBreaker(), logger)
		_, err := client.Classify(context.Background(), "text")
		assert.ErrorIs(t, err, classifier.ErrFailedClassifierCall)
	})
}
