package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type detectHandler struct {
	logger   *logrus.Logger
	service  detection.Service
	maxRunes int
}

func NewDetectHandler(logger *logrus.Logger, service detection.Service, maxRunes int) Handler {
	return &detectHandler{
		logger:   logger,
		service:  service,
		maxRunes: maxRunes,
	}
}

// Handle @Summary Detect toxicity
// @Description Runs normalization, sarcasm, contextual and classifier analysis and fuses them into one verdict
// @Tags Detection
// @Accept json
// @Produce json
// @Param request body request.TextRequest true "Text to analyze"
// @Success 200 {object} detection.Report "Fused result and summary"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/detect [post]
func (h *detectHandler) Handle(c *fiber.Ctx) error {
	req, err := parseTextRequest(c, h.logger, h.maxRunes)
	if req == nil {
		return err
	}
	report := h.service.Detect(c.UserContext(), detectionInput(c, req))
	return c.Status(fiber.StatusOK).JSON(report)
}
