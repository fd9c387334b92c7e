package providers

import (
	"context"
	"errors"
)

var (
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	ErrEmptyGeneration      = errors.New("generator returned no text")
	ErrUnsupportedProvider  = errors.New("unsupported provider")
)

type Config struct {
	Credentials  Credentials `json:"credentials"`
	Model        string      `json:"model"`
	SystemPrompt string      `json:"system_prompt,omitempty"`
	Instructions []string    `json:"instructions,omitempty"`
	Sampling     Sampling    `json:"sampling"`
}

type Credentials struct {
	ApiKey  string            `json:"api_key,omitempty"`
	BaseURL string            `json:"base_url,omitempty"`
	Azure   *AzureCredentials `json:"azure,omitempty"`
}

type AzureCredentials struct {
	Endpoint    string `json:"endpoint"`
	ApiVersion  string `json:"api_version,omitempty"`
	UseIdentity bool   `json:"use_identity"`
}

// Sampling holds the decoding parameters sent to every provider. Providers
// without a repetition penalty receive it as a frequency penalty.
type Sampling struct {
	MaxTokens         int     `json:"max_tokens,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`
	TopP              float64 `json:"top_p,omitempty"`
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty"`
}

func DefaultSampling() Sampling {
	return Sampling{
		MaxTokens:         64,
		Temperature:       0.7,
		TopP:              0.9,
		RepetitionPenalty: 1.2,
	}
}

// FrequencyPenalty maps a multiplicative repetition penalty (1 = none) onto
// the additive [-2,2] frequency penalty used by chat APIs.
func (s Sampling) FrequencyPenalty() float64 {
	if s.RepetitionPenalty <= 1 {
		return 0
	}
	return min(s.RepetitionPenalty-1, 2)
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

type Client interface {
	Generate(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}
