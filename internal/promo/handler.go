package promo

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the public promo validation endpoint used by the
// storefront before checkout is submitted.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/promo/validate", h.validate)
}

func (h *Handler) validate(c *fiber.Ctx) error {
	result, err := h.service.Validate(c.Query("code"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(result)
}
