package article

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/watering-store/backend/internal/user"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/articles", h.listArticles)
	app.Get("/api/v1/articles/:id<[0-9]+>", h.getArticle)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/articles/:id<[0-9]+>/comments", h.addComment)
	app.Post("/api/v1/questions", h.addQuestion)
}

func (h *Handler) listArticles(c *fiber.Ctx) error {
	articles, err := h.repo.ListArticles()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(articles)
}

func (h *Handler) getArticle(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid article id"})
	}

	a, err := h.repo.GetArticle(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "article not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	comments, err := h.repo.ListComments(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"article": a, "comments": comments})
}

type commentRequest struct {
	Text     string `json:"text"`
	ParentID *int   `json:"parentId,omitempty"`
}

func (h *Handler) addComment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	articleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid article id"})
	}

	payload := new(commentRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if strings.TrimSpace(payload.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "comment cannot be empty"})
	}

	if _, err := h.repo.GetArticle(articleID); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "article not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.repo.AddComment(Comment{
		ArticleID: articleID,
		UserID:    userID,
		Text:      payload.Text,
		ParentID:  payload.ParentID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *Handler) addQuestion(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(questionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if strings.TrimSpace(payload.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "question cannot be empty"})
	}

	created, err := h.repo.AddQuestion(Question{UserID: userID, Text: payload.Question})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
