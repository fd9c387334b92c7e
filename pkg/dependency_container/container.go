package dependency_container

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/contextual"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/fusion"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/normalizer"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/sarcasm"
	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/NeuralTrust/DetoxGate/pkg/app/rewrite"
	"github.com/NeuralTrust/DetoxGate/pkg/config"
	handlers "github.com/NeuralTrust/DetoxGate/pkg/handlers/http"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/dictionary"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	providersFactory "github.com/NeuralTrust/DetoxGate/pkg/infra/providers/factory"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/redisstore"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry/logexporter"
	"github.com/NeuralTrust/DetoxGate/pkg/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Dictionary          *dictionary.Dictionary
	RedisClient         *redis.Client
	Classifier          classifier.Client
	Generator           providers.Client
	Normalizer          *normalizer.Normalizer
	SarcasmScorer       *sarcasm.Scorer
	ContextualScorer    *contextual.Scorer
	Engine              *fusion.Engine
	Rewriter            rewrite.Rewriter
	DetectionService    detection.Service
	ExporterLocator     *telemetry.ExporterLocator
	Publisher           telemetry.Publisher
	MiddlewareTransport *middleware.Transport
	HandlerTransport    handlers.HandlerTransport
}

type ContainerDI struct {
	Ctx    context.Context
	Cfg    *config.Config
	Logger *logrus.Logger
	// HTTPClient overrides the shared outbound client, mostly for tests.
	HTTPClient httpx.Client
	// Exporters registers extra telemetry exporters by name.
	Exporters map[string]telemetry.Exporter
}

func NewContainer(di ContainerDI) (*Container, error) {
	ctx := di.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := di.Cfg

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency:    cfg.Metrics.EnableLatency,
		EnableDetections: cfg.Metrics.EnableDetections,
	})

	var redisClient *redis.Client
	if strings.EqualFold(cfg.Dictionaries.Source, dictionary.SourceRedis) || cfg.RateLimit.Enabled {
		client, err := redisstore.NewClient(ctx, redisstore.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, di.Logger)
		switch {
		case err == nil:
			redisClient = client
		case cfg.RateLimit.Enabled:
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		default:
			di.Logger.WithError(err).Warn("redis unavailable, dictionaries will be empty")
		}
	}

	dict, err := loadDictionary(ctx, cfg.Dictionaries, redisClient, di.Logger)
	if err != nil {
		closeRedis(redisClient)
		return nil, err
	}

	clsClient, err := classifier.New(ctx, classifier.Config{
		Provider: cfg.Classifier.Provider,
		Timeout:  cfg.Classifier.Timeout,
		Breaker:  breakerSettings("classifier", cfg.Classifier.Breaker),
		Settings: cfg.Classifier.Settings,
	}, di.HTTPClient, di.Logger)
	if err != nil {
		closeRedis(redisClient)
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	generatorHTTP := di.HTTPClient
	if generatorHTTP == nil {
		generatorHTTP = httpx.NewFastHTTPClient(httpx.WithTimeout(cfg.Generator.Timeout))
	}
	generator, err := providersFactory.NewProviderLocator(
		generatorHTTP,
		di.Logger,
		breakerSettings("generator", cfg.Generator.Breaker),
	).Get(cfg.Generator.Provider)
	if err != nil {
		closeRedis(redisClient)
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	norm := normalizer.New(nil)
	sarc := sarcasm.New(nil)
	ctxScorer := contextual.New(nil, contextual.WithUsageRadius(cfg.Detection.UsageContextRadius))

	fusionCfg := fusion.DefaultConfig()
	fusionCfg.Threshold = cfg.Detection.Threshold
	fusionCfg.NotToxicLabel = cfg.Detection.NotToxicLabel
	fusionCfg.ContextualLabelTrigger = cfg.Detection.ContextualLabelTrigger
	engine := fusion.New(fusionCfg, norm, sarc, ctxScorer, clsClient)

	rewriter := rewrite.NewRewriter(
		di.Logger,
		dict.Replacements,
		generator,
		generatorConfig(cfg.Generator),
		cfg.Rewrite.FallbackMessage,
	)

	locatorOpts := []telemetry.ExporterLocatorOption{
		telemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
		telemetry.WithExporter(logexporter.ExporterName, logexporter.NewLogExporter(di.Logger)),
	}
	for name, exporter := range di.Exporters {
		locatorOpts = append(locatorOpts, telemetry.WithExporter(name, exporter))
	}
	locator := telemetry.NewExporterLocator(locatorOpts...)

	exporterConfigs := make([]telemetry.ExporterConfig, 0, len(cfg.Telemetry.Exporters))
	for _, e := range cfg.Telemetry.Exporters {
		exporterConfigs = append(exporterConfigs, telemetry.ExporterConfig{
			Name:     e.Name,
			Enabled:  e.Enabled,
			Settings: e.Settings,
		})
	}
	exporters, err := locator.Build(exporterConfigs)
	if err != nil {
		closeRedis(redisClient)
		return nil, fmt.Errorf("failed to initialize telemetry exporters: %w", err)
	}
	publisher := telemetry.NewWorker(di.Logger, exporters, cfg.Telemetry.QueueSize)
	publisher.StartWorkers(cfg.Telemetry.Workers)

	service := detection.NewService(
		di.Logger,
		engine,
		rewriter,
		dict.Words,
		publisher,
		cfg.Classifier.Provider,
	)

	middlewares := []middleware.Middleware{
		middleware.NewPanicRecoverMiddleware(di.Logger),
		middleware.NewRequestIDMiddleware(),
		middleware.NewCORSMiddleware(corsConfig(cfg.Server.CORS)),
	}
	if cfg.Metrics.Enabled {
		middlewares = append(middlewares, middleware.NewMetricsMiddleware(di.Logger))
	}
	if cfg.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.NewRateLimitMiddleware(
			di.Logger,
			redisClient,
			middleware.RateLimitConfig{Limit: cfg.RateLimit.Limit, Window: cfg.RateLimit.Window},
			nil,
		))
	}

	maxRunes := handlers.DefaultMaxTextLength
	handlerTransport := handlers.HandlerTransport{
		DetectHandler:     handlers.NewDetectHandler(di.Logger, service, maxRunes),
		NormalizeHandler:  handlers.NewNormalizeHandler(di.Logger, norm, maxRunes),
		SarcasmHandler:    handlers.NewSarcasmHandler(di.Logger, sarc, maxRunes),
		ContextualHandler: handlers.NewContextualHandler(di.Logger, ctxScorer, maxRunes),
		DetoxHandler:      handlers.NewDetoxHandler(di.Logger, service, maxRunes),
		AskHandler:        handlers.NewAskHandler(di.Logger, service),
		HealthHandler: handlers.NewHealthHandler(handlers.Features{
			Classifier:         providerName(cfg.Classifier.Provider, clsClient != nil),
			Generator:          providerName(cfg.Generator.Provider, generator != nil),
			DictionarySource:   dictionarySource(cfg.Dictionaries.Source),
			DictionaryWords:    len(dict.Words),
			Replacements:       len(dict.Replacements),
			TelemetryExporters: len(exporters),
		}),
		GetVersionHandler: handlers.NewGetVersionHandler(),
	}

	di.Logger.WithFields(logrus.Fields{
		"classifier": providerName(cfg.Classifier.Provider, clsClient != nil),
		"generator":  providerName(cfg.Generator.Provider, generator != nil),
		"words":      len(dict.Words),
		"exporters":  len(exporters),
	}).Info("detection pipeline initialized")

	return &Container{
		Dictionary:          dict,
		RedisClient:         redisClient,
		Classifier:          clsClient,
		Generator:           generator,
		Normalizer:          norm,
		SarcasmScorer:       sarc,
		ContextualScorer:    ctxScorer,
		Engine:              engine,
		Rewriter:            rewriter,
		DetectionService:    service,
		ExporterLocator:     locator,
		Publisher:           publisher,
		MiddlewareTransport: middleware.NewTransport(middlewares...),
		HandlerTransport:    handlerTransport,
	}, nil
}

// Close drains the telemetry queue and releases the redis connection.
func (c *Container) Close() error {
	if c.Publisher != nil {
		c.Publisher.Shutdown()
	}
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}

func loadDictionary(
	ctx context.Context,
	cfg config.DictionariesConfig,
	client *redis.Client,
	logger *logrus.Logger,
) (*dictionary.Dictionary, error) {
	settings := dictionary.Settings{
		Source:           cfg.Source,
		WordsPath:        cfg.ToxicWordsPath,
		ReplacementsPath: cfg.ReplacementsPath,
		WordsKey:         cfg.RedisWordsKey,
		ReplacementsKey:  cfg.RedisReplacementsKey,
	}
	var cmdable redis.Cmdable
	if client != nil {
		cmdable = client
	} else if strings.EqualFold(settings.Source, dictionary.SourceRedis) {
		return dictionary.Empty(), nil
	}
	loader, err := dictionary.NewLoader(settings, cmdable, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dictionary loader: %w", err)
	}
	dict, err := loader.Load(ctx)
	if err != nil {
		logger.WithError(err).WithField("source", settings.Source).Warn("failed to load dictionaries, using empty ones")
		return dictionary.Empty(), nil
	}
	return dict.Merge(), nil
}

func closeRedis(client *redis.Client) {
	if client != nil {
		_ = client.Close()
	}
}

func breakerSettings(name string, cfg config.BreakerConfig) httpx.BreakerSettings {
	return httpx.BreakerSettings{
		Name:        name,
		Timeout:     cfg.Timeout,
		MaxFailures: cfg.MaxFailures,
		MaxRequests: cfg.MaxRequests,
	}
}

func generatorConfig(cfg config.GeneratorConfig) *rewrite.GeneratorConfig {
	out := &rewrite.GeneratorConfig{
		Credentials: providers.Credentials{
			ApiKey:  cfg.ApiKey,
			BaseURL: cfg.BaseURL,
		},
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		Instructions: cfg.Instructions,
		Sampling: providers.Sampling{
			MaxTokens:         cfg.Sampling.MaxTokens,
			Temperature:       cfg.Sampling.Temperature,
			TopP:              cfg.Sampling.TopP,
			RepetitionPenalty: cfg.Sampling.RepetitionPenalty,
		},
	}
	if cfg.Azure != nil {
		out.Credentials.Azure = &providers.AzureCredentials{
			Endpoint:    cfg.Azure.Endpoint,
			ApiVersion:  cfg.Azure.ApiVersion,
			UseIdentity: cfg.Azure.UseIdentity,
		}
	}
	return out
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowCredentials: cfg.AllowCredentials,
		ExposeHeaders:    cfg.ExposeHeaders,
	}
	if cfg.MaxAge > 0 {
		out.MaxAge = strconv.Itoa(cfg.MaxAge)
	}
	return out
}

func providerName(provider string, enabled bool) string {
	if !enabled {
		return "none"
	}
	return strings.ToLower(strings.TrimSpace(provider))
}

func dictionarySource(source string) string {
	if source == "" {
		return dictionary.SourceFile
	}
	return strings.ToLower(source)
}
