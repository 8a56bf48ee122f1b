package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the public catalog endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/catalog", h.list)
	app.Get("/api/v1/catalog/categories", h.categories)
	app.Get("/api/v1/catalog/item/:id<[0-9]+>", h.getItem)
}

func (h *Handler) list(c *fiber.Ctx) error {
	f := Filter{
		Category: c.Query("category"),
		Type:     c.Query("type"),
		PriceMin: ParsePrice(c.Query("price_min")),
		PriceMax: ParsePrice(c.Query("price_max")),
		Search:   c.Query("search"),
	}

	listing, err := h.service.List(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(listing)
}

func (h *Handler) categories(c *fiber.Ctx) error {
	return c.JSON(AllowedCategories)
}

func (h *Handler) getItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid item id"})
	}

	item, err := h.service.GetItem(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(item)
}
