package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/normalizer"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type normalizeHandler struct {
	logger     *logrus.Logger
	normalizer *normalizer.Normalizer
	maxRunes   int
}

func NewNormalizeHandler(logger *logrus.Logger, n *normalizer.Normalizer, maxRunes int) Handler {
	return &normalizeHandler{
		logger:     logger,
		normalizer: n,
		maxRunes:   maxRunes,
	}
}

// Handle @Summary Normalize text
// @Description Returns the canonical form of the text and the output of every normalization step
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body request.TextRequest true "Text to normalize"
// @Success 200 {object} normalizer.NormalizationResult "Normalization steps"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/normalize [post]
func (h *normalizeHandler) Handle(c *fiber.Ctx) error {
	req, err := parseTextRequest(c, h.logger, h.maxRunes)
	if req == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(h.normalizer.Describe(req.Text))
}
