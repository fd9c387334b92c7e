package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/NeuralTrust/DetoxGate/pkg/common"
	"github.com/NeuralTrust/DetoxGate/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ErrInvalidJsonPayload = "invalid JSON payload"

	// DefaultMaxTextLength bounds the text accepted by analysis endpoints.
	DefaultMaxTextLength = 10000
)

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	DetectHandler     Handler
	NormalizeHandler  Handler
	SarcasmHandler    Handler
	ContextualHandler Handler
	DetoxHandler      Handler
	AskHandler        Handler
	HealthHandler     Handler
	GetVersionHandler Handler
}

// parseTextRequest binds and validates the body, writing the 400 response
// itself. A nil request means the response was already sent.
func parseTextRequest(c *fiber.Ctx, logger *logrus.Logger, maxRunes int) (*request.TextRequest, error) {
	var req request.TextRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WithError(err).Warn("failed to bind request")
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(maxRunes); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return &req, nil
}

func detectionInput(c *fiber.Ctx, req *request.TextRequest) detection.Input {
	requestID, _ := c.Locals(common.RequestIDContextKey).(string)
	return detection.Input{
		Text:           req.Text,
		CustomWords:    req.Words(),
		RequestID:      requestID,
		Path:           c.Path(),
		IP:             c.IP(),
		UserAgent:      c.Get(fiber.HeaderUserAgent),
		AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
	}
}
