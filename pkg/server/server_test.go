package server_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/contextual"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/normalizer"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/sarcasm"
	detectionMocks "github.com/NeuralTrust/DetoxGate/pkg/app/detection/mocks"
	"github.com/NeuralTrust/DetoxGate/pkg/config"
	handlers "github.com/NeuralTrust/DetoxGate/pkg/handlers/http"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/logger"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/DetoxGate/pkg/middleware"
	"github.com/NeuralTrust/DetoxGate/pkg/server"
	"github.com/NeuralTrust/DetoxGate/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{Port: 8080, MetricsPort: 9090}}
}

func transport() handlers.HandlerTransport {
	l := logger.NewDiscardLogger()
	svc := new(detectionMocks.MockService)
	return handlers.HandlerTransport{
		DetectHandler:     handlers.NewDetectHandler(l, svc, 0),
		NormalizeHandler:  handlers.NewNormalizeHandler(l, normalizer.New(nil), 0),
		SarcasmHandler:    handlers.NewSarcasmHandler(l, sarcasm.New(nil), 0),
		ContextualHandler: handlers.NewContextualHandler(l, contextual.New(nil), 0),
		DetoxHandler:      handlers.NewDetoxHandler(l, svc, 0),
		AskHandler:        handlers.NewAskHandler(l, svc),
		HealthHandler:     handlers.NewHealthHandler(handlers.Features{}),
		GetVersionHandler: handlers.NewGetVersionHandler(),
	}
}

func TestBaseServer_Routes(t *testing.T) {
	l := logger.NewDiscardLogger()
	mw := middleware.NewTransport(middleware.NewRequestIDMiddleware(), middleware.NewMetricsMiddleware(l))
	s, err := server.NewBaseServer(testConfig(), l).WithRouters(router.NewAPIRouter(mw, transport(), false))
	require.NoError(t, err)

	resp, err := s.Router.Test(httptest.NewRequest("GET", "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	req := httptest.NewRequest("POST", "/api/v1/normalize", bytes.NewBufferString(`{"text":"u r gr8"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = s.Router.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = s.Router.Test(httptest.NewRequest("GET", "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"error"`)
}

func TestBaseServer_MissingHandler(t *testing.T) {
	tr := transport()
	tr.AskHandler = nil
	_, err := server.NewBaseServer(testConfig(), logger.NewDiscardLogger()).
		WithRouters(router.NewAPIRouter(nil, tr, false))
	assert.ErrorIs(t, err, router.ErrMissingHandler)
}

func TestMetricsServer(t *testing.T) {
	prometheus.Initialize(prometheus.DefaultMetricsConfig())
	prometheus.RequestTotal.WithLabelValues("/api/v1/detect", "POST", "2xx").Inc()

	s := server.NewMetricsServer(testConfig(), logger.NewDiscardLogger())
	resp, err := s.App().Test(httptest.NewRequest("GET", server.MetricsPath, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "detoxgate_requests_total")
}
