package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/azureauth"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	azureAnalyzePath = "/contentsafety/text:analyze?api-version=2023-10-01"
	azureOutputType  = "EightSeverityLevels"
	azureMaxSeverity = 7.0
)

var defaultAzureCategories = []string{"Hate", "Violence", "SelfHarm", "Sexual"}

type AzureSettings struct {
	Endpoint    string   `mapstructure:"endpoint"`
	APIKey      string   `mapstructure:"api_key"`
	UseIdentity bool     `mapstructure:"use_identity"`
	Categories  []string `mapstructure:"categories"`
}

type azureAnalyzeRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
	OutputType string   `json:"outputType"`
}

// AzureClient scores text with Azure Content Safety, turning the 0-7
// severity of each category into a score in [0,1].
type AzureClient struct {
	caller         *jsonCaller
	settings       AzureSettings
	tokens         azureauth.TokenSource
	circuitBreaker httpx.CircuitBreaker
	logger         *logrus.Logger
}

func NewAzureClient(
	settings map[string]interface{},
	client httpx.Client,
	circuitBreaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) (*AzureClient, error) {
	var cfg AzureSettings
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode azure classifier settings: %w", err)
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if !cfg.UseIdentity && cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required when not using Azure identity")
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultAzureCategories
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &AzureClient{
		caller:         &jsonCaller{client: client, logger: logger, name: ProviderAzure},
		settings:       cfg,
		tokens:         azureauth.DefaultToken,
		circuitBreaker: circuitBreaker,
		logger:         logger,
	}, nil
}

func (c *AzureClient) SetTokenSource(tokens azureauth.TokenSource) {
	c.tokens = tokens
}

func (c *AzureClient) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	var result []LabelScore
	var err error

	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeAnalyze(ctx, text)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("azure content safety failed (circuit breaker)")
		}
		return nil, err
	}
	return result, nil
}

func (c *AzureClient) executeAnalyze(ctx context.Context, text string) ([]LabelScore, error) {
	headers := map[string]string{}
	if c.settings.UseIdentity {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure AD token: %w", err)
		}
		headers["Authorization"] = "Bearer " + token
	} else {
		headers["Ocp-Apim-Subscription-Key"] = c.settings.APIKey
	}

	body, err := c.caller.post(ctx, c.settings.Endpoint+azureAnalyzePath, azureAnalyzeRequest{
		Text:       text,
		Categories: c.settings.Categories,
		OutputType: azureOutputType,
	}, headers)
	if err != nil {
		return nil, err
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("invalid content safety response: %w", err)
	}
	analysis := v.GetArray("categoriesAnalysis")
	scores := make([]LabelScore, 0, len(analysis))
	for _, item := range analysis {
		category := string(item.GetStringBytes("category"))
		if category == "" {
			continue
		}
		scores = append(scores, LabelScore{
			Label: category,
			Score: float64(item.GetInt("severity")) / azureMaxSeverity,
		})
	}
	return scores, nil
}
