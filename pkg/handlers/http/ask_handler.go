package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/NeuralTrust/DetoxGate/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type askHandler struct {
	logger  *logrus.Logger
	service detection.Service
}

func NewAskHandler(logger *logrus.Logger, service detection.Service) Handler {
	return &askHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Ask about the detector
// @Description Answers questions about the configured model and threshold
// @Tags Detection
// @Accept json
// @Produce json
// @Param request body request.AskRequest true "Question"
// @Success 200 {object} map[string]interface{} "Answer"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/ask [post]
func (h *askHandler) Handle(c *fiber.Ctx) error {
	var req request.AskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Warn("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"answer": h.service.Answer(req.Question)})
}
