package services

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/watering-store/backend/internal/user"
)

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func seedHandler() *Handler {
	repo := NewInMemoryRepository([]Service{
		{ID: 1, Title: "Drip system installation", Description: "on-site install of a drip line"},
		{ID: 2, Title: "Seasonal maintenance", Description: "winterization and spring start-up"},
	})
	users := user.NewInMemoryRepository([]user.User{
		{ID: 42, Username: "sam", Email: "sam@example.com", IsVerified: true},
	})
	return NewHandler(repo, users)
}

func TestListServicesPublic(t *testing.T) {
	app := makeApp(seedHandler())

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/services", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Drip system installation") {
		t.Fatalf("service list incomplete: %s", string(b))
	}
}

func TestOrderServiceCapturesUserEmail(t *testing.T) {
	app := makeApp(seedHandler())

	// anonymous intake is refused
	req := httptest.NewRequest("POST", "/api/v1/services/order", strings.NewReader(`{"serviceId":1,"name":"Sam","phone":"555-0101"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("POST", "/api/v1/services/order", strings.NewReader(`{"serviceId":1,"name":"Sam","phone":"555-0101","notes":"backyard, 6 zones"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"email":"sam@example.com"`) {
		t.Fatalf("order must carry the account email: %s", string(b))
	}

	// missing contact details
	req = httptest.NewRequest("POST", "/api/v1/services/order", strings.NewReader(`{"serviceId":1,"name":" "}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing contact, got %d", res.StatusCode)
	}

	// unknown service
	req = httptest.NewRequest("POST", "/api/v1/services/order", strings.NewReader(`{"serviceId":99,"name":"Sam","phone":"555-0101"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown service, got %d", res.StatusCode)
	}
}
