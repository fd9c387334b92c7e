package factory

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers/anthropic"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers/azure"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers/gemini"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers/huggingface"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers/openai"
	"github.com/sirupsen/logrus"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
	ProviderAzure       = "azure"
	ProviderNone        = "none"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	httpClient httpx.Client
	breaker    httpx.CircuitBreaker
}

func NewProviderLocator(httpClient httpx.Client, logger *logrus.Logger, settings httpx.BreakerSettings) ProviderLocator {
	if httpClient == nil {
		httpClient = httpx.NewFastHTTPClient()
	}
	if settings.Name == "" {
		settings.Name = "generator"
	}
	return &providerLocator{
		httpClient: httpClient,
		breaker:    httpx.NewCircuitBreaker(settings, logger),
	}
}

// Get returns the generator for provider. "none" and "" yield a nil client.
func (f *providerLocator) Get(provider string) (providers.Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderHuggingFace:
		return huggingface.NewHuggingFaceClient(f.httpClient, f.breaker), nil
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	case ProviderGemini:
		return gemini.NewGeminiClient(), nil
	case ProviderAzure:
		return azure.NewAzureClient(f.httpClient, nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", providers.ErrUnsupportedProvider, provider)
	}
}
