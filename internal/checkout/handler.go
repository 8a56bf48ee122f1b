package checkout

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/user"
)

// Handler maps checkout outcomes onto the HTTP surface. Business failures
// come back as structured statuses so the storefront can render them; only
// invariant violations turn into opaque 500s.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/item/:id<[0-9]+>", h.buyItem)
	app.Post("/api/v1/checkout/selected", h.checkoutSelected)
}

type buyRequest struct {
	Quantity  int    `json:"quantity"`
	PromoCode string `json:"promoCode"`
}

func (h *Handler) buyItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid item id"})
	}

	payload := buyRequest{Quantity: 1}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	receipt, err := h.engine.BuyItem(c.Context(), userID, itemID, payload.Quantity, payload.PromoCode)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(receipt)
}

type selectedRequest struct {
	LineIDs   []int  `json:"lineIds"`
	PromoCode string `json:"promoCode"`
}

func (h *Handler) checkoutSelected(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(selectedRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	receipt, err := h.engine.CheckoutSelected(c.Context(), userID, payload.LineIDs, payload.PromoCode)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(receipt)
}

func (h *Handler) renderError(c *fiber.Ctx, err error) error {
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":    StatusInsufficientStock,
			"itemName":  stockErr.ItemName,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, ErrNoSelection):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  StatusNoSelection,
			"message": "no items selected for purchase",
		})
	case errors.Is(err, ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, catalog.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
	default:
		// ErrInvariant and storage failures end up here on purpose: the
		// transaction was rolled back and there is nothing actionable to
		// tell the user.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "checkout failed"})
	}
}
