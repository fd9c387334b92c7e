package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/DetoxGate/pkg/common"
	"github.com/NeuralTrust/DetoxGate/pkg/config"
	"github.com/NeuralTrust/DetoxGate/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/DetoxGate/pkg/infra/logger"
	"github.com/NeuralTrust/DetoxGate/pkg/server"
	"github.com/NeuralTrust/DetoxGate/pkg/server/router"
	"github.com/NeuralTrust/DetoxGate/pkg/version"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, closeLogger, err := infraLogger.NewLogger(infraLogger.Config{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Ctx:    ctx,
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize dependencies")
	}

	apiServer, err := server.NewBaseServer(cfg, logger).WithRouters(
		router.NewAPIRouter(container.MiddlewareTransport, container.HandlerTransport, cfg.Server.EnableDocs),
	)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize API server")
	}
	servers := []server.Server{apiServer}
	if cfg.Metrics.Enabled {
		servers = append(servers, server.NewMetricsServer(cfg, logger))
	}

	logger.WithField("version", version.Version).Info("starting detoxgate")

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(srv.Run)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), common.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
	}
	if err := container.Close(); err != nil {
		logger.WithError(err).Warn("failed to release dependencies")
	}
	logger.Info("server gracefully stopped")
}
