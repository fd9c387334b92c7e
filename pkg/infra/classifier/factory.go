package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

// New builds the classifier named by cfg.Provider. The "none" provider yields
// a nil Client, which the fusion engine treats as unavailable.
func New(ctx context.Context, cfg Config, client httpx.Client, logger *logrus.Logger) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" || name == ProviderNone {
		return nil, nil
	}

	if client == nil {
		client = httpx.NewFastHTTPClient(httpx.WithTimeout(cfg.Timeout))
	}
	settings := cfg.Breaker
	if settings.Name == "" {
		settings.Name = "classifier-" + name
	}
	breaker := httpx.NewCircuitBreaker(settings, logger)

	switch name {
	case ProviderHTTP:
		return NewHTTPClient(cfg.Settings, client, breaker, logger)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.Settings, client, breaker, logger)
	case ProviderAzure:
		return NewAzureClient(cfg.Settings, client, breaker, logger)
	case ProviderBedrock:
		return BuildBedrockClient(ctx, cfg.Settings, breaker, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
