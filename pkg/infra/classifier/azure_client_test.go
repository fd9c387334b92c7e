package classifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAzureClient_Classify(t *testing.T) {
	logger := logrus.New()

	t.Run("API key authentication", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/contentsafety/text:analyze", r.URL.Path)
			assert.Equal(t, "2023-10-01", r.URL.Query().Get("api-version"))
			assert.Equal(t, "azure-key", r.Header.Get("Ocp-Apim-Subscription-Key"))

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "EightSeverityLevels", body["outputType"])

			_, _ = w.Write([]byte(`{"categoriesAnalysis":[{"category":"Hate","severity":7},{"category":"Violence","severity":0}]}`)) //nolint:errcheck
		}))
		defer server.Close()

		client, err := classifier.NewAzureClient(map[string]interface{}{
			"endpoint": server.URL + "/",
			"api_key":  "azure-key",
		}, &http.Client{}, newBreaker(), logger)
		require.NoError(t, err)

		scores, err := client.Classify(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, []classifier.LabelScore{
			{Label: "Hate", Score: 1.0},
			{Label: "Violence", Score: 0},
		}, scores)
	})

	t.Run("Identity authentication", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer aad-token", r.Header.Get("Authorization"))
			assert.Empty(t, r.Header.Get("Ocp-Apim-Subscription-Key"))
			_, _ = w.Write([]byte(`{"categoriesAnalysis":[]}`)) //nolint:errcheck
		}))
		defer server.Close()

		client, err := classifier.NewAzureClient(map[string]interface{}{
			"endpoint":     server.URL,
			"use_identity": true,
		}, &http.Client{}, newBreaker(), logger)
		require.NoError(t, err)
		client.SetTokenSource(func(ctx context.Context) (string, error) { return "aad-token", nil })

		scores, err := client.Classify(context.Background(), "text")
		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("Token failure", func(t *testing.T) {
		client, err := classifier.NewAzureClient(map[string]interface{}{
			"endpoint":     "http://unused",
			"use_identity": true,
		}, &http.Client{}, newBreaker(), logger)
		require.NoError(t, err)
		client.SetTokenSource(func(ctx context.Context) (string, error) { return "", errors.New("no identity") })

		_, err = client.Classify(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		_, err := classifier.NewAzureClient(map[string]interface{}{"endpoint": "http://x"}, &http.Client{}, newBreaker(), logger)
		assert.Error(t, err)
	})
}
