package classifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Classify(t *testing.T) {
	logger := logrus.New()

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "omni-moderation-latest", body["model"])
			assert.Equal(t, "I hate you", body["input"])

			_, _ = w.Write([]byte(`{"results":[{"flagged":true,"category_scores":{"harassment":0.82,"hate":0.3}}]}`)) //nolint:errcheck
		}))
		defer server.Close()

		client, err := classifier.NewOpenAIClient(map[string]interface{}{"api_key": "sk-test"},
			&http.Client{Timeout: 5 * time.Second}, newBreaker(), logger)
		require.NoError(t, err)
		client.SetEndpoint(server.URL)

		scores, err := client.Classify(context.Background(), "I hate you")
		require.NoError(t, err)
		assert.Equal(t, []classifier.LabelScore{
			{Label: "harassment", Score: 0.82},
			{Label: "hate", Score: 0.3},
		}, scores)
	})

	t.Run("Empty results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`)) //nolint:errcheck
		}))
		defer server.Close()

		client, err := classifier.NewOpenAIClient(map[string]interface{}{
			"api_key":  "sk-test",
			"endpoint": server.URL,
		}, &http.Client{}, newBreaker(), logger)
		require.NoError(t, err)

		_, err = client.Classify(context.Background(), "hello")
		assert.ErrorIs(t, err, classifier.ErrFailedClassifierCall)
	})

	t.Run("Missing api key", func(t *testing.T) {
		_, err := classifier.NewOpenAIClient(map[string]interface{}{}, &http.Client{}, newBreaker(), logger)
		assert.Error(t, err)
	})
}
