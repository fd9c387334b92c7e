package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_MissingAPIKey(t *testing.T) {
	_, err := anthropic.NewAnthropicClient().Generate(context.Background(), &providers.Config{}, "hi")
	assert.ErrorContains(t, err, "API key is required")
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 256, body["max_tokens"])
		assert.InDelta(t, 0.5, body["top_p"], 1e-9)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Let's keep things friendly."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 6}
		}`)) //nolint:errcheck
	}))
	defer server.Close()

	resp, err := anthropic.NewAnthropicClient().Generate(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "ak-test", BaseURL: server.URL},
		Sampling:    providers.Sampling{TopP: 0.5},
	}, "shut up")

	require.NoError(t, err)
	assert.Equal(t, "Let's keep things friendly.", resp.Response)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
}
