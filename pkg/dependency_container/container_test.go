package dependency_container_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/NeuralTrust/DetoxGate/pkg/config"
	"github.com/NeuralTrust/DetoxGate/pkg/dependency_container"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Detection.Threshold = 0.7
	cfg.Detection.NotToxicLabel = "not toxic"
	cfg.Detection.ContextualLabelTrigger = true
	cfg.Detection.UsageContextRadius = 5
	cfg.Classifier.Provider = "none"
	cfg.Generator.Provider = "none"
	cfg.Dictionaries.Source = "file"
	cfg.Dictionaries.ToxicWordsPath = writeFile(t, dir, "words.txt", "idiot\nmoron\n")
	cfg.Dictionaries.ReplacementsPath = writeFile(t, dir, "replacements.txt", "idiot,person\n")
	cfg.Telemetry.Workers = 1
	cfg.Telemetry.QueueSize = 10
	cfg.Telemetry.Exporters = []config.ExporterConfig{
		{Name: "log", Enabled: true},
		{Name: "kafka", Enabled: false},
	}
	return cfg
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)
	c, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger.NewDiscardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.Classifier)
	assert.Nil(t, c.Generator)
	assert.Nil(t, c.RedisClient)
	assert.Equal(t, []string{"idiot", "moron"}, c.Dictionary.Words)
	assert.Equal(t, "person", c.Dictionary.Replacements["idiot"])
	assert.NotNil(t, c.HandlerTransport.DetectHandler)
	assert.NotEmpty(t, c.MiddlewareTransport.Middlewares)

	report := c.DetectionService.Detect(context.Background(), detection.Input{Text: "what a moron"})
	assert.True(t, report.Result.IsToxic)
	assert.Contains(t, report.Result.ToxicWords, "moron")
}

func TestNewContainer_MissingDictionaryIsEmpty(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dictionaries.ToxicWordsPath = filepath.Join(t.TempDir(), "missing.txt")

	c, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger.NewDiscardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, []string{"idiot"}, c.Dictionary.Words)
}

func TestNewContainer_UnreadableDictionaryIsEmpty(t *testing.T) {
	cfg := testConfig(t)
	// Reading a directory fails with something other than "not exist".
	cfg.Dictionaries.ToxicWordsPath = t.TempDir()

	c, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger.NewDiscardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Empty(t, c.Dictionary.Words)
	assert.Empty(t, c.Dictionary.Replacements)
}

func TestNewContainer_RedisUnreachable(t *testing.T) {
	unreachable := func(t *testing.T) *config.Config {
		cfg := testConfig(t)
		cfg.Dictionaries.Source = "redis"
		cfg.Redis.Host = "127.0.0.1"
		cfg.Redis.Port = 1
		return cfg
	}

	t.Run("dictionaries fall back to empty", func(t *testing.T) {
		c, err := dependency_container.NewContainer(dependency_container.ContainerDI{
			Cfg:    unreachable(t),
			Logger: logger.NewDiscardLogger(),
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		assert.Nil(t, c.RedisClient)
		assert.Empty(t, c.Dictionary.Words)
		assert.Empty(t, c.Dictionary.Replacements)
		assert.NotNil(t, c.DetectionService)
	})

	t.Run("rate limiting requires redis", func(t *testing.T) {
		cfg := unreachable(t)
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Limit = 10
		cfg.RateLimit.Window = time.Minute

		_, err := dependency_container.NewContainer(dependency_container.ContainerDI{
			Cfg:    cfg,
			Logger: logger.NewDiscardLogger(),
		})
		assert.Error(t, err)
	})
}

func TestNewContainer_UnknownExporter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.Exporters = append(cfg.Telemetry.Exporters, config.ExporterConfig{Name: "webhook", Enabled: true})

	_, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger.NewDiscardLogger(),
	})
	assert.Error(t, err)
}

func TestNewContainer_UnsupportedGenerator(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.Provider = "mystery"

	_, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger.NewDiscardLogger(),
	})
	assert.Error(t, err)
}
