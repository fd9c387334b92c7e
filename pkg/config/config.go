package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/common"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Detection    DetectionConfig    `mapstructure:"detection"`
	Classifier   ClassifierConfig   `mapstructure:"classifier"`
	Generator    GeneratorConfig    `mapstructure:"generator"`
	Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Rewrite      RewriteConfig      `mapstructure:"rewrite"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	MetricsPort int        `mapstructure:"metrics_port"`
	BodyLimit   int        `mapstructure:"body_limit"`
	EnableDocs  bool       `mapstructure:"enable_docs"`
	CORS        CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	MaxAge           int      `mapstructure:"max_age"`
}

type MetricsConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	EnableLatency    bool `mapstructure:"enable_latency"`
	EnableDetections bool `mapstructure:"enable_detections"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type DetectionConfig struct {
	Threshold              float64 `mapstructure:"threshold"`
	NotToxicLabel          string  `mapstructure:"not_toxic_label"`
	ContextualLabelTrigger bool    `mapstructure:"contextual_label_trigger"`
	UsageContextRadius     int     `mapstructure:"usage_context_radius"`
}

type BreakerConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	MaxRequests uint32        `mapstructure:"max_requests"`
}

type ClassifierConfig struct {
	Provider string                 `mapstructure:"provider"`
	Timeout  time.Duration          `mapstructure:"timeout"`
	Breaker  BreakerConfig          `mapstructure:"breaker"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

type SamplingConfig struct {
	MaxTokens         int     `mapstructure:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature"`
	TopP              float64 `mapstructure:"top_p"`
	RepetitionPenalty float64 `mapstructure:"repetition_penalty"`
}

type AzureGeneratorConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ApiVersion  string `mapstructure:"api_version"`
	UseIdentity bool   `mapstructure:"use_identity"`
}

type GeneratorConfig struct {
	Provider     string                `mapstructure:"provider"`
	Model        string                `mapstructure:"model"`
	ApiKey       string                `mapstructure:"api_key"`
	BaseURL      string                `mapstructure:"base_url"`
	SystemPrompt string                `mapstructure:"system_prompt"`
	Instructions []string              `mapstructure:"instructions"`
	Timeout      time.Duration         `mapstructure:"timeout"`
	Breaker      BreakerConfig         `mapstructure:"breaker"`
	Azure        *AzureGeneratorConfig `mapstructure:"azure"`
	Sampling     SamplingConfig        `mapstructure:"sampling"`
}

type DictionariesConfig struct {
	Source               string `mapstructure:"source"`
	ToxicWordsPath       string `mapstructure:"toxic_words_path"`
	ReplacementsPath     string `mapstructure:"replacements_path"`
	RedisWordsKey        string `mapstructure:"redis_words_key"`
	RedisReplacementsKey string `mapstructure:"redis_replacements_key"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type ExporterConfig struct {
	Name     string                 `mapstructure:"name"`
	Enabled  bool                   `mapstructure:"enabled"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

type TelemetryConfig struct {
	Workers   int              `mapstructure:"workers"`
	QueueSize int              `mapstructure:"queue_size"`
	Exporters []ExporterConfig `mapstructure:"exporters"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

type RewriteConfig struct {
	FallbackMessage string `mapstructure:"fallback_message"`
}

var (
	ErrInvalidThreshold = errors.New("detection threshold must be within [0, 1]")
	ErrInvalidPort      = errors.New("invalid port")
	ErrInvalidRateLimit = errors.New("rate limit must be positive when enabled")
)

var globalConfig Config

// Load reads config.yaml from configPath (then ./config and .). A missing
// file is not an error: defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	cfg, err := loadConfigFile(viper.New(), configPath, "config")
	if err != nil {
		return nil, err
	}
	globalConfig = *cfg
	return cfg, nil
}

func loadConfigFile(v *viper.Viper, configPath, fileName string) (*Config, error) {
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	setDefaultValues(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// registerDefaults makes every env-overridable key known to viper.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("server.enable_docs", true)
	v.SetDefault("server.cors.allow_origins", []string{"*"})
	v.SetDefault("server.cors.allow_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors.max_age", 600)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_detections", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("detection.threshold", 0.7)
	v.SetDefault("detection.not_toxic_label", "not toxic")
	v.SetDefault("detection.contextual_label_trigger", true)
	v.SetDefault("detection.usage_context_radius", 5)
	v.SetDefault("classifier.provider", "none")
	v.SetDefault("classifier.timeout", "10s")
	v.SetDefault("generator.provider", "none")
	v.SetDefault("generator.model", "")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.base_url", "")
	v.SetDefault("generator.timeout", "30s")
	v.SetDefault("dictionaries.source", "file")
	v.SetDefault("dictionaries.toxic_words_path", "data/toxic_words.txt")
	v.SetDefault("dictionaries.replacements_path", "data/replacements.txt")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("telemetry.workers", 2)
	v.SetDefault("telemetry.queue_size", 1000)
	v.SetDefault("rewrite.fallback_message", "")
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.limit", 60)
	v.SetDefault("rate_limit.window", "1m")
}

func setDefaultValues(cfg *Config) {
	if cfg.Classifier.Timeout <= 0 {
		cfg.Classifier.Timeout = common.DefaultClassifierTimeout
	}
	if cfg.Generator.Timeout <= 0 {
		cfg.Generator.Timeout = common.DefaultGeneratorTimeout
	}
	if cfg.Detection.NotToxicLabel == "" {
		cfg.Detection.NotToxicLabel = "not toxic"
	}
	if cfg.Detection.UsageContextRadius <= 0 {
		cfg.Detection.UsageContextRadius = 5
	}
	if cfg.Telemetry.Workers <= 0 {
		cfg.Telemetry.Workers = 1
	}
	s := &cfg.Generator.Sampling
	if s.MaxTokens <= 0 {
		s.MaxTokens = 64
	}
	if s.Temperature == 0 {
		s.Temperature = 0.7
	}
	if s.TopP == 0 {
		s.TopP = 0.9
	}
	if s.RepetitionPenalty == 0 {
		s.RepetitionPenalty = 1.2
	}
}

func (c *Config) Validate() error {
	if c.Detection.Threshold < 0 || c.Detection.Threshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Detection.Threshold)
	}
	for name, port := range map[string]int{"server.port": c.Server.Port, "server.metrics_port": c.Server.MetricsPort} {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidPort, name, port)
		}
	}
	if c.RateLimit.Enabled && c.RateLimit.Limit <= 0 {
		return ErrInvalidRateLimit
	}
	if c.Metrics.Enabled && c.Server.Port == c.Server.MetricsPort {
		return fmt.Errorf("%w: metrics port must differ from server port", ErrInvalidPort)
	}
	return nil
}

func GetConfig() *Config {
	return &globalConfig
}
