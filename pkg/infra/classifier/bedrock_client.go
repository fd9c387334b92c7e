package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

type BedrockSettings struct {
	AccessKey   string `mapstructure:"aws_access_key"`
	SecretKey   string `mapstructure:"aws_secret_key"`
	Region      string `mapstructure:"aws_region"`
	GuardrailID string `mapstructure:"guardrail_id"`
	Version     string `mapstructure:"version"`
}

//go:generate mockery --name=GuardrailRuntime --dir=. --output=./mocks --filename=guardrail_runtime_mock.go --case=underscore --with-expecter
type GuardrailRuntime interface {
	ApplyGuardrail(
		ctx context.Context,
		params *bedrockruntime.ApplyGuardrailInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ApplyGuardrailOutput, error)
}

// BedrockClient reads the content-policy filters of a Bedrock guardrail
// assessment as classifier labels.
type BedrockClient struct {
	runtime        GuardrailRuntime
	settings       BedrockSettings
	circuitBreaker httpx.CircuitBreaker
	logger         *logrus.Logger
}

func NewBedrockClient(
	runtime GuardrailRuntime,
	settings BedrockSettings,
	circuitBreaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) *BedrockClient {
	if settings.Version == "" {
		settings.Version = "DRAFT"
	}
	return &BedrockClient{
		runtime:        runtime,
		settings:       settings,
		circuitBreaker: circuitBreaker,
		logger:         logger,
	}
}

// BuildBedrockClient loads static AWS credentials from settings and creates
// the guardrail runtime.
func BuildBedrockClient(
	ctx context.Context,
	settings map[string]interface{},
	circuitBreaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) (*BedrockClient, error) {
	var cfg BedrockSettings
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode bedrock classifier settings: %w", err)
	}
	if cfg.GuardrailID == "" {
		return nil, fmt.Errorf("bedrock guardrail_id is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("bedrock aws_region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AccessKey,
					SecretAccessKey: cfg.SecretKey,
				}, nil
			},
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.WithError(err).Error("failed to load AWS config")
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg, circuitBreaker, logger), nil
}

func (c *BedrockClient) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	var result []LabelScore
	var err error

	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeGuardrail(ctx, text)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("bedrock guardrail failed (circuit breaker)")
		}
		return nil, err
	}
	return result, nil
}

func (c *BedrockClient) executeGuardrail(ctx context.Context, text string) ([]LabelScore, error) {
	contentBlock := types.GuardrailContentBlockMemberText{
		Value: types.GuardrailTextBlock{
			Text: aws.String(text),
		},
	}
	input := &bedrockruntime.ApplyGuardrailInput{
		Content:             []types.GuardrailContentBlock{&contentBlock},
		GuardrailIdentifier: aws.String(c.settings.GuardrailID),
		GuardrailVersion:    aws.String(c.settings.Version),
		Source:              types.GuardrailContentSourceInput,
	}

	output, err := c.runtime.ApplyGuardrail(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedClassifierCall, err)
	}

	var scores []LabelScore
	seen := make(map[string]int)
	for _, assessment := range output.Assessments {
		if assessment.ContentPolicy == nil {
			continue
		}
		for _, filter := range assessment.ContentPolicy.Filters {
			label := strings.ToLower(string(filter.Type))
			score := confidenceScore(string(filter.Confidence))
			if i, ok := seen[label]; ok {
				scores[i].Score = max(scores[i].Score, score)
				continue
			}
			seen[label] = len(scores)
			scores = append(scores, LabelScore{Label: label, Score: score})
		}
	}
	return scores, nil
}

func confidenceScore(confidence string) float64 {
	switch strings.ToUpper(confidence) {
	case "HIGH":
		return 1.0
	case "MEDIUM":
		return 0.66
	case "LOW":
		return 0.33
	default:
		return 0
	}
}
