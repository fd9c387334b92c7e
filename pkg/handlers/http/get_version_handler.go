package http

import (
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/fusion"
	"github.com/NeuralTrust/DetoxGate/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type getVersionHandler struct{}

func NewGetVersionHandler() Handler {
	return &getVersionHandler{}
}

// Handle @Summary Get DetoxGate version
// @Description Returns the build version and the version of each analysis component
// @Tags Version
// @Produce json
// @Success 200 {object} version.Info "Version information"
// @Router /api/v1/version [get]
func (h *getVersionHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(version.GetInfo().WithComponents(fusion.ModelVersions()))
}
