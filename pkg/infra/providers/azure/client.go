package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/azureauth"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"github.com/valyala/fastjson"
)

const defaultAPIVersion = "2024-02-15-preview"

type client struct {
	httpClient httpx.Client
	tokens     azureauth.TokenSource
}

func NewAzureClient(httpClient httpx.Client, tokens azureauth.TokenSource) providers.Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if tokens == nil {
		tokens = azureauth.DefaultToken
	}
	return &client{
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// Generate calls an Azure OpenAI chat deployment. config.Model names the
// deployment. Authentication uses the api key unless UseIdentity is set.
func (c *client) Generate(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	azure := config.Credentials.Azure
	if azure == nil {
		return nil, fmt.Errorf("azure configuration is required")
	}
	if azure.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model (deployment ID) is required")
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	if azure.UseIdentity {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure AD token: %w", err)
		}
		headers.Set("Authorization", "Bearer "+token)
	} else {
		if config.Credentials.ApiKey == "" {
			return nil, fmt.Errorf("API key is required when not using Azure identity")
		}
		headers.Set("api-key", config.Credentials.ApiKey)
	}

	apiVersion := defaultAPIVersion
	if azure.ApiVersion != "" {
		apiVersion = azure.ApiVersion
	}
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(azure.Endpoint, "/"), config.Model, apiVersion)

	bodyBytes, err := json.Marshal(requestBody(config, prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status: %d\n%s", resp.StatusCode, string(respBody))
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	choices := v.GetArray("choices")
	if len(choices) == 0 {
		return nil, providers.ErrEmptyGeneration
	}
	content := strings.TrimSpace(string(choices[0].GetStringBytes("message", "content")))
	if content == "" {
		return nil, providers.ErrEmptyGeneration
	}

	return &providers.CompletionResponse{
		ID:       providers.ResponseID(ctx, "azure"),
		Provider: "azure",
		Model:    config.Model,
		Response: content,
		Usage: providers.Usage{
			PromptTokens:     v.GetInt("usage", "prompt_tokens"),
			CompletionTokens: v.GetInt("usage", "completion_tokens"),
			TotalTokens:      v.GetInt("usage", "total_tokens"),
		},
	}, nil
}

func requestBody(config *providers.Config, prompt string) map[string]interface{} {
	var messages []map[string]string
	if config.SystemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": config.SystemPrompt})
	}
	if instructions := providers.FormatInstructions(config.Instructions); instructions != "" {
		messages = append(messages, map[string]string{"role": "user", "content": instructions})
	}
	if prompt != "" {
		messages = append(messages, map[string]string{"role": "user", "content": prompt})
	}

	body := map[string]interface{}{"messages": messages}
	s := config.Sampling
	if s.Temperature > 0 {
		body["temperature"] = s.Temperature
	}
	if s.MaxTokens > 0 {
		body["max_tokens"] = s.MaxTokens
	}
	if s.TopP > 0 {
		body["top_p"] = s.TopP
	}
	if penalty := s.FrequencyPenalty(); penalty > 0 {
		body["frequency_penalty"] = penalty
	}
	return body
}
