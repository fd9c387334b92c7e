package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/contextual"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type contextualHandler struct {
	logger   *logrus.Logger
	scorer   *contextual.Scorer
	maxRunes int
}

func NewContextualHandler(logger *logrus.Logger, scorer *contextual.Scorer, maxRunes int) Handler {
	return &contextualHandler{
		logger:   logger,
		scorer:   scorer,
		maxRunes: maxRunes,
	}
}

// Handle @Summary Contextual token analysis
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body request.TextRequest true "Text to analyze"
// @Success 200 {object} contextual.ContextualResult "Per-token labels and features"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/contextual [post]
func (h *contextualHandler) Handle(c *fiber.Ctx) error {
	req, err := parseTextRequest(c, h.logger, h.maxRunes)
	if req == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(h.scorer.Analyze(req.Text))
}
