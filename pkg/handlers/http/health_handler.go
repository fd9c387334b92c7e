package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Features reports which optional collaborators are wired.
type Features struct {
	Classifier         string `json:"classifier"`
	Generator          string `json:"generator"`
	DictionarySource   string `json:"dictionary_source"`
	DictionaryWords    int    `json:"dictionary_words"`
	Replacements       int    `json:"replacements"`
	TelemetryExporters int    `json:"telemetry_exporters"`
}

type healthHandler struct {
	features Features
}

func NewHealthHandler(features Features) Handler {
	return &healthHandler{features: features}
}

// Handle @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service status and enabled features"
// @Router /api/v1/health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"features": h.features,
	})
}
