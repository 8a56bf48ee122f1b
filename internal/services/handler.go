package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/watering-store/backend/internal/user"
)

type Handler struct {
	repo  Repository
	users user.Repository
}

func NewHandler(repo Repository, users user.Repository) *Handler {
	return &Handler{repo: repo, users: users}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/services", h.listServices)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/services/order", h.orderService)
}

func (h *Handler) listServices(c *fiber.Ctx) error {
	list, err := h.repo.ListServices()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(list)
}

type orderRequest struct {
	ServiceID int    `json:"serviceId"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

func (h *Handler) orderService(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(orderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Phone) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name and phone are required"})
	}

	if _, err := h.repo.GetService(payload.ServiceID); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	u, err := h.users.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.repo.AddOrder(ServiceOrder{
		UserID:    userID,
		ServiceID: payload.ServiceID,
		Name:      payload.Name,
		Phone:     payload.Phone,
		Email:     u.Email,
		Notes:     payload.Notes,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
