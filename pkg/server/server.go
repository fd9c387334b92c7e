package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/config"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/DetoxGate/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	MetricsPath = "/metrics"

	defaultBodyLimit = 1024 * 1024
)

// Server defines the common behavior for all servers.
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type BaseServer struct {
	Config *config.Config
	Logger *logrus.Logger
	Router *fiber.App
	addr   string
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	bodyLimit := cfg.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             bodyLimit,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          jsonErrorHandler,
	})
	r.Server().NoDefaultServerHeader = true

	return &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
		addr:   fmt.Sprintf(":%d", cfg.Server.Port),
	}
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) (*BaseServer, error) {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
			return nil, fmt.Errorf("failed to build routes: %w", err)
		}
	}
	return s, nil
}

func (s *BaseServer) Run() error {
	s.Logger.WithField("addr", s.addr).Info("starting API server")
	return s.Router.Listen(s.addr)
}

func (s *BaseServer) Shutdown(ctx context.Context) error {
	return s.Router.ShutdownWithContext(ctx)
}

// jsonErrorHandler keeps every error body in the {"error": ...} shape.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

type MetricsServer struct {
	logger *logrus.Logger
	app    *fiber.App
	addr   string
}

// NewMetricsServer serves the private prometheus registry on its own port.
func NewMetricsServer(cfg *config.Config, logger *logrus.Logger) *MetricsServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})

	return &MetricsServer{
		logger: logger,
		app:    app,
		addr:   fmt.Sprintf(":%d", cfg.Server.MetricsPort),
	}
}

func (s *MetricsServer) App() *fiber.App {
	return s.app
}

func (s *MetricsServer) Run() error {
	s.logger.WithField("addr", s.addr).Info("starting metrics server")
	return s.app.Listen(s.addr)
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
