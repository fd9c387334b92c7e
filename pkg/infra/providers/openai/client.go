package openai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/sync/singleflight"
)

const defaultModel = "gpt-4o-mini"

type client struct {
	clientPool *sync.Map
	sf         singleflight.Group
}

func NewOpenaiClient() providers.Client {
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

	openaiClient := c.getOrCreateClient(config.Credentials.ApiKey, config.Credentials.BaseURL)

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: Messages(config, prompt),
	}

	s := config.Sampling
	if s.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.MaxTokens))
	}
	if s.Temperature > 0 {
		params.Temperature = openai.Float(s.Temperature)
	}
	if s.TopP > 0 {
		params.TopP = openai.Float(s.TopP)
	}
	if penalty := s.FrequencyPenalty(); penalty > 0 {
		params.FrequencyPenalty = openai.Float(penalty)
	}

	resp, err := openaiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, providers.ErrEmptyGeneration
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, providers.ErrEmptyGeneration
	}

	return &providers.CompletionResponse{
		ID:       resp.ID,
		Provider: "openai",
		Model:    resp.Model,
		Response: text,
		Usage: providers.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// Messages builds the chat transcript: system prompt, instruction block,
// then the user prompt. Empty parts are omitted.
func Messages(config *providers.Config, prompt string) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if config.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(config.SystemPrompt))
	}
	if instructions := providers.FormatInstructions(config.Instructions); instructions != "" {
		messages = append(messages, openai.UserMessage(instructions))
	}
	if prompt != "" {
		messages = append(messages, openai.UserMessage(prompt))
	}
	return messages
}

func (c *client) getOrCreateClient(apiKey, baseURL string) *openai.Client {
	key := apiKey + "|" + baseURL
	if v, ok := c.clientPool.Load(key); ok {
		if client, ok := v.(*openai.Client); ok {
			return client
		}
	}
	v, _, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok := c.clientPool.Load(key); ok {
			return v2, nil
		}
		cli := newSDKClient(apiKey, baseURL)
		c.clientPool.Store(key, cli)
		return cli, nil
	})
	if client, ok := v.(*openai.Client); ok {
		return client
	}
	return newSDKClient(apiKey, baseURL)
}

func newSDKClient(apiKey, baseURL string) *openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &cli
}
