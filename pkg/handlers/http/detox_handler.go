package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/app/detection"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type detoxHandler struct {
	logger   *logrus.Logger
	service  detection.Service
	maxRunes int
}

func NewDetoxHandler(logger *logrus.Logger, service detection.Service, maxRunes int) Handler {
	return &detoxHandler{
		logger:   logger,
		service:  service,
		maxRunes: maxRunes,
	}
}

// Handle @Summary Detect and rewrite toxic text
// @Description Detects toxicity and, when the text is toxic, rewrites it with the dictionary, the generator or the fallback message
// @Tags Detection
// @Accept json
// @Produce json
// @Param request body request.TextRequest true "Text to detoxify"
// @Success 200 {object} detection.DetoxReport "Detection report and rewritten text"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/detox [post]
func (h *detoxHandler) Handle(c *fiber.Ctx) error {
	req, err := parseTextRequest(c, h.logger, h.maxRunes)
	if req == nil {
		return err
	}
	report := h.service.Detox(c.UserContext(), detectionInput(c, req))
	if report.Rewrite != nil {
		h.logger.WithField("strategy", report.Rewrite.Strategy).Debug("text rewritten")
	}
	return c.Status(fiber.StatusOK).JSON(report)
}
