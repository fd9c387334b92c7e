package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"github.com/valyala/fastjson"
)

const inferenceURL = "https://api-inference.huggingface.co/models/"

type parameters struct {
	MaxNewTokens      int     `json:"max_new_tokens,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`
	TopP              float64 `json:"top_p,omitempty"`
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty"`
	DoSample          bool    `json:"do_sample"`
}

type generationRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type client struct {
	httpClient     httpx.Client
	circuitBreaker httpx.CircuitBreaker
}

// NewHuggingFaceClient calls a text2text-generation inference endpoint. The
// endpoint is Credentials.BaseURL when set, otherwise the hosted inference
// API for config.Model.
func NewHuggingFaceClient(httpClient httpx.Client, circuitBreaker httpx.CircuitBreaker) providers.Client {
	return &client{
		httpClient:     httpClient,
		circuitBreaker: circuitBreaker,
	}
}

func (c *client) Generate(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	url := config.Credentials.BaseURL
	if url == "" {
		if config.Model == "" {
			return nil, fmt.Errorf("model or base url is required")
		}
		url = inferenceURL + config.Model
	}

	var text string
	err := c.circuitBreaker.Execute(func() error {
		var err error
		text, err = c.executeGenerate(ctx, url, config, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &providers.CompletionResponse{
		ID:       providers.ResponseID(ctx, "huggingface"),
		Provider: "huggingface",
		Model:    config.Model,
		Response: text,
	}, nil
}

func (c *client) executeGenerate(ctx context.Context, url string, config *providers.Config, prompt string) (string, error) {
	s := config.Sampling
	body, err := json.Marshal(generationRequest{
		Inputs: prompt,
		Parameters: parameters{
			MaxNewTokens:      s.MaxTokens,
			Temperature:       s.Temperature,
			TopP:              s.TopP,
			RepetitionPenalty: s.RepetitionPenalty,
			DoSample:          s.Temperature > 0,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if config.Credentials.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+config.Credentials.ApiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generator: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("generation response read error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", providers.ErrGeneratorUnavailable, resp.StatusCode)
	}
	return ParseGeneratedText(respBody)
}

// ParseGeneratedText reads [{"generated_text": ...}] or a single object.
func ParseGeneratedText(body []byte) (string, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return "", fmt.Errorf("invalid generation response: %w", err)
	}
	if v.Type() == fastjson.TypeArray {
		items := v.GetArray()
		if len(items) == 0 {
			return "", providers.ErrEmptyGeneration
		}
		v = items[0]
	}
	if msg := v.GetStringBytes("error"); len(msg) > 0 {
		return "", fmt.Errorf("%w: %s", providers.ErrGeneratorUnavailable, msg)
	}
	text := strings.TrimSpace(string(v.GetStringBytes("generated_text")))
	if text == "" {
		return "", providers.ErrEmptyGeneration
	}
	return text, nil
}

