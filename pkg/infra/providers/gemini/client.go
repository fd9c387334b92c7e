package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

type client struct {
	clientPool *sync.Map
}

func NewGeminiClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) Generate(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	model := config.Model
	if model == "" {
		model = defaultModel
	}

	genaiClient, err := c.getOrCreateClient(ctx, config.Credentials)
	if err != nil {
		return nil, err
	}

	result, err := genaiClient.Models.GenerateContent(ctx, model, genai.Text(prompt), GenerateConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := strings.TrimSpace(result.Text())
	if responseText == "" {
		return nil, providers.ErrEmptyGeneration
	}

	resp := &providers.CompletionResponse{
		ID:       providers.ResponseID(ctx, "gemini"),
		Provider: "gemini",
		Model:    model,
		Response: responseText,
	}
	if result.UsageMetadata != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

// GenerateConfig maps the system prompt, instructions and sampling settings
// onto a GenerateContent request config.
func GenerateConfig(config *providers.Config) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}

	var parts []*genai.Part
	if config.SystemPrompt != "" {
		parts = append(parts, &genai.Part{Text: config.SystemPrompt})
	}
	if instructions := providers.FormatInstructions(config.Instructions); instructions != "" {
		parts = append(parts, &genai.Part{Text: instructions})
	}
	if len(parts) > 0 {
		out.SystemInstruction = &genai.Content{Parts: parts, Role: "system"}
	}

	s := config.Sampling
	if s.MaxTokens > 0 {
		out.MaxOutputTokens = int32(s.MaxTokens)
	}
	if s.Temperature > 0 {
		out.Temperature = genai.Ptr(float32(s.Temperature))
	}
	if s.TopP > 0 {
		out.TopP = genai.Ptr(float32(s.TopP))
	}
	if penalty := s.FrequencyPenalty(); penalty > 0 {
		out.FrequencyPenalty = genai.Ptr(float32(penalty))
	}
	return out
}

func (c *client) getOrCreateClient(ctx context.Context, creds providers.Credentials) (*genai.Client, error) {
	key := creds.ApiKey + "|" + creds.BaseURL
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(*genai.Client); ok {
			return cli, nil
		}
	}
	cfg := &genai.ClientConfig{
		APIKey:  creds.ApiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if creds.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: creds.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.clientPool.Store(key, cli)
	return cli, nil
}
