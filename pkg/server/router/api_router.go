package router

import (
	"errors"

	handlers "github.com/NeuralTrust/DetoxGate/pkg/handlers/http"
	"github.com/NeuralTrust/DetoxGate/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const (
	SwaggerSpecPath = "/swagger.json"
	swaggerSpecFile = "./docs/swagger.json"
)

var ErrMissingHandler = errors.New("missing handler in transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	enableDocs          bool
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	enableDocs bool,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		enableDocs:          enableDocs,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	for _, handler := range []handlers.Handler{
		h.DetectHandler, h.NormalizeHandler, h.SarcasmHandler, h.ContextualHandler,
		h.DetoxHandler, h.AskHandler, h.HealthHandler, h.GetVersionHandler,
	} {
		if handler == nil {
			return ErrMissingHandler
		}
	}

	if r.enableDocs {
		router.Static(SwaggerSpecPath, swaggerSpecFile)
		router.Get("/docs/*", swagger.New(swagger.Config{
			URL: SwaggerSpecPath,
		}))
	}

	router.Get("/health", h.HealthHandler.Handle)
	router.Get("/version", h.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		if r.middlewareTransport != nil && len(r.middlewareTransport.Middlewares) > 0 {
			v1.Use(r.middlewareTransport.GetMiddlewares()...)
		}

		v1.Get("/health", h.HealthHandler.Handle)
		v1.Get("/version", h.GetVersionHandler.Handle)

		v1.Post("/detect", h.DetectHandler.Handle)
		v1.Post("/detox", h.DetoxHandler.Handle)
		v1.Post("/ask", h.AskHandler.Handle)

		v1.Post("/normalize", h.NormalizeHandler.Handle)
		v1.Post("/sarcasm", h.SarcasmHandler.Handle)
		v1.Post("/contextual", h.ContextualHandler.Handle)
	}
	return nil
}
