package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 0.7, cfg.Detection.Threshold)
	assert.Equal(t, "not toxic", cfg.Detection.NotToxicLabel)
	assert.True(t, cfg.Detection.ContextualLabelTrigger)
	assert.Equal(t, "none", cfg.Classifier.Provider)
	assert.Equal(t, 10*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 64, cfg.Generator.Sampling.MaxTokens)
	assert.Equal(t, 1.2, cfg.Generator.Sampling.RepetitionPenalty)
	assert.Equal(t, "file", cfg.Dictionaries.Source)
	assert.Equal(t, []string{"*"}, cfg.Server.CORS.AllowOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Same(t, config.GetConfig(), config.GetConfig())
}

func TestLoad_File(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 8000
  metrics_port: 9100
detection:
  threshold: 0.5
  contextual_label_trigger: false
classifier:
  provider: http
  timeout: 3s
  breaker:
    max_failures: 7
  settings:
    url: http://classifier:8080/predict
generator:
  provider: huggingface
  sampling:
    max_tokens: 128
telemetry:
  exporters:
    - name: kafka
      enabled: true
      settings:
        host: kafka
        port: 9092
        topic: decisions
`)
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Detection.Threshold)
	assert.False(t, cfg.Detection.ContextualLabelTrigger)
	assert.Equal(t, 3*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, uint32(7), cfg.Classifier.Breaker.MaxFailures)
	assert.Equal(t, "http://classifier:8080/predict", cfg.Classifier.Settings["url"])
	assert.Equal(t, 128, cfg.Generator.Sampling.MaxTokens)
	assert.Equal(t, 0.9, cfg.Generator.Sampling.TopP)
	require.Len(t, cfg.Telemetry.Exporters, 1)
	assert.Equal(t, "kafka", cfg.Telemetry.Exporters[0].Name)
	assert.True(t, cfg.Telemetry.Exporters[0].Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DETECTION_THRESHOLD", "0.55")
	t.Setenv("CLASSIFIER_PROVIDER", "openai")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0.55, cfg.Detection.Threshold)
	assert.Equal(t, "openai", cfg.Classifier.Provider)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"threshold above one", "detection:\n  threshold: 1.5\n", config.ErrInvalidThreshold},
		{"negative threshold", "detection:\n  threshold: -0.1\n", config.ErrInvalidThreshold},
		{"bad port", "server:\n  port: 70000\n", config.ErrInvalidPort},
		{"same ports", "server:\n  port: 9000\n  metrics_port: 9000\n", config.ErrInvalidPort},
		{"zero rate limit", "rate_limit:\n  enabled: true\n  limit: 0\n", config.ErrInvalidRateLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
