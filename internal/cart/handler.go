package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/user"
)

// Handler delegates cart operations to the cart service.
// This keeps cart-specific HTTP routing isolated.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Put("/api/v1/cart/:lineID<[0-9]+>", h.updateLine)
	app.Delete("/api/v1/cart/:lineID<[0-9]+>", h.removeLine)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/board", h.addBoard)
}

type addRequest struct {
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	line, err := h.service.Add(userID, payload.ItemID, payload.Quantity)
	if err != nil {
		switch err {
		case ErrInvalidQuantity:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity must be greater than zero"})
		case catalog.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusOK).JSON(line)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	f := catalog.Filter{
		Category: c.Query("category"),
		PriceMin: catalog.ParsePrice(c.Query("price_min")),
		PriceMax: catalog.ParsePrice(c.Query("price_max")),
		Search:   c.Query("search"),
	}

	view, err := h.service.View(userID, f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(view)
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateLine(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	lineID, err := strconv.Atoi(c.Params("lineID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid line id"})
	}

	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.Update(userID, lineID, payload.Quantity); err != nil {
		switch err {
		case ErrLineNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart line not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	lineID, err := strconv.Atoi(c.Params("lineID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid line id"})
	}

	if _, err := h.service.Remove(userID, lineID); err != nil {
		switch err {
		case ErrLineNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart line not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Clear(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type boardRequest struct {
	Entries []BoardEntry `json:"entries"`
}

func (h *Handler) addBoard(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(boardRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if len(payload.Entries) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no board entries supplied"})
	}

	added, err := h.service.AddBoard(userID, payload.Entries)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if added == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no valid board entries to add"})
	}
	return c.JSON(fiber.Map{"added": added})
}
