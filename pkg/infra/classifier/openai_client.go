package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	defaultModerationModel    = "omni-moderation-latest"
	openAIModerationsEndpoint = "https://api.openai.com/v1/moderations"
)

type OpenAISettings struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// OpenAIClient maps moderation category scores to classifier labels.
type OpenAIClient struct {
	caller         *jsonCaller
	settings       OpenAISettings
	circuitBreaker httpx.CircuitBreaker
	logger         *logrus.Logger
}

func NewOpenAIClient(
	settings map[string]interface{},
	client httpx.Client,
	circuitBreaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) (*OpenAIClient, error) {
	var cfg OpenAISettings
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode openai classifier settings: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai classifier api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModerationModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = openAIModerationsEndpoint
	}
	return &OpenAIClient{
		caller:         &jsonCaller{client: client, logger: logger, name: ProviderOpenAI},
		settings:       cfg,
		circuitBreaker: circuitBreaker,
		logger:         logger,
	}, nil
}

func (c *OpenAIClient) SetEndpoint(endpoint string) {
	c.settings.Endpoint = endpoint
}

func (c *OpenAIClient) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	var result []LabelScore
	var err error

	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeModeration(ctx, text)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("openai moderation failed (circuit breaker)")
		}
		return nil, err
	}
	return result, nil
}

func (c *OpenAIClient) executeModeration(ctx context.Context, text string) ([]LabelScore, error) {
	body, err := c.caller.post(
		ctx,
		c.settings.Endpoint,
		moderationRequest{Model: c.settings.Model, Input: text},
		map[string]string{"Authorization": "Bearer " + c.settings.APIKey},
	)
	if err != nil {
		return nil, err
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("invalid moderation response: %w", err)
	}
	results := v.GetArray("results")
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: moderation returned no results", ErrFailedClassifierCall)
	}
	obj := results[0].GetObject("category_scores")
	if obj == nil {
		return nil, fmt.Errorf("%w: moderation result carries no category scores", ErrFailedClassifierCall)
	}
	return objectScores(obj), nil
}
