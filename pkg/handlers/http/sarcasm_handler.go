package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/sarcasm"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SarcasmResponse struct {
	sarcasm.SarcasmResult
	ConfidenceLevel string `json:"confidence_level"`
}

type sarcasmHandler struct {
	logger   *logrus.Logger
	scorer   *sarcasm.Scorer
	maxRunes int
}

func NewSarcasmHandler(logger *logrus.Logger, scorer *sarcasm.Scorer, maxRunes int) Handler {
	return &sarcasmHandler{
		logger:   logger,
		scorer:   scorer,
		maxRunes: maxRunes,
	}
}

// Handle @Summary Score sarcasm
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body request.TextRequest true "Text to score"
// @Success 200 {object} SarcasmResponse "Sarcasm result"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/sarcasm [post]
func (h *sarcasmHandler) Handle(c *fiber.Ctx) error {
	req, err := parseTextRequest(c, h.logger, h.maxRunes)
	if req == nil {
		return err
	}
	result := h.scorer.Analyze(req.Text)
	return c.Status(fiber.StatusOK).JSON(SarcasmResponse{
		SarcasmResult:   result,
		ConfidenceLevel: sarcasm.ConfidenceLevel(result.Confidence),
	})
}
