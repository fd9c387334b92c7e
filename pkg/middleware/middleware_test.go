package middleware_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/common"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/logger"
	"github.com/NeuralTrust/DetoxGate/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(mws ...middleware.Middleware) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewTransport(mws...).GetMiddlewares()...)
	return app
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newApp(middleware.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		fromLocals, _ := c.Locals(common.RequestIDContextKey).(string)
		fromCtx, _ := c.UserContext().Value(common.RequestIDContextKey).(string)
		assert.Equal(t, fromLocals, fromCtx)
		return c.SendString(fromLocals)
	})

	t.Run("generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Len(t, string(body), 36)
		assert.Equal(t, string(body), resp.Header.Get(common.RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(common.RequestIDHeader, "abc-123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "abc-123", string(body))
	})
}

func TestPanicRecoverMiddleware(t *testing.T) {
	app := newApp(middleware.NewPanicRecoverMiddleware(logger.NewDiscardLogger()))
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(body))
}

func TestMetricsMiddleware(t *testing.T) {
	app := newApp(middleware.NewRequestIDMiddleware(), middleware.NewMetricsMiddleware(logger.NewDiscardLogger()))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "no") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}

func TestCORSMiddleware(t *testing.T) {
	app := newApp(middleware.NewCORSMiddleware(middleware.CORSConfig{
		AllowOrigins: []string{"https://app.example.com"},
		MaxAge:       "600",
	}))
	app.Post("/api", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
