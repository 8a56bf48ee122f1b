package checkout

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/watering-store/backend/internal/cart"
)

func makeAppWithCheckoutHandler(h *Handler) *fiber.App {
	app := fiber.New()
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

func TestBuyItemEndpoint(t *testing.T) {
	store := seedStore()
	app := makeAppWithCheckoutHandler(NewHandler(NewEngine(store)))

	// unauthorized access should be blocked
	res, _ := app.Test(httptest.NewRequest("POST", "/api/v1/checkout/item/1", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	req := httptest.NewRequest("POST", "/api/v1/checkout/item/1", strings.NewReader(`{"quantity":2,"promoCode":"SAVE10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"status":"success"`) || !strings.Contains(string(b), `"total":"180"`) {
		t.Fatalf("unexpected receipt: %s", string(b))
	}
}

func TestBuyItemEndpointInsufficientStock(t *testing.T) {
	store := seedStore()
	app := makeAppWithCheckoutHandler(NewHandler(NewEngine(store)))

	req := httptest.NewRequest("POST", "/api/v1/checkout/item/2", strings.NewReader(`{"quantity":5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	if !strings.Contains(body, `"status":"insufficient_stock"`) ||
		!strings.Contains(body, `"available":1`) ||
		!strings.Contains(body, `"requested":5`) {
		t.Fatalf("conflict payload incomplete: %s", body)
	}
}

func TestBuyItemEndpointDefaultsQuantity(t *testing.T) {
	store := seedStore()
	app := makeAppWithCheckoutHandler(NewHandler(NewEngine(store)))

	req := httptest.NewRequest("POST", "/api/v1/checkout/item/3", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for implicit quantity 1, got %d", res.StatusCode)
	}
	if it, _ := store.Item(3); it.Quantity != 7 {
		t.Fatalf("expected one unit sold, stock %d", it.Quantity)
	}
}

func TestBuyItemEndpointUnknownItem(t *testing.T) {
	app := makeAppWithCheckoutHandler(NewHandler(NewEngine(seedStore())))

	req := httptest.NewRequest("POST", "/api/v1/checkout/item/999", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCheckoutSelectedEndpoint(t *testing.T) {
	store := seedStore()
	store.AddLine(cart.CartLine{ID: 10, CartID: 42, ItemID: 1, Quantity: 2})
	app := makeAppWithCheckoutHandler(NewHandler(NewEngine(store)))

	// empty selection is a structured 400
	req := httptest.NewRequest("POST", "/api/v1/checkout/selected", strings.NewReader(`{"lineIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"status":"no_selection"`) {
		t.Fatalf("expected no_selection status: %s", string(b))
	}

	req = httptest.NewRequest("POST", "/api/v1/checkout/selected", strings.NewReader(`{"lineIds":[10]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"total":"200"`) || !strings.Contains(string(b), `"lines":1`) {
		t.Fatalf("unexpected receipt: %s", string(b))
	}
	if got := len(store.Lines(42)); got != 0 {
		t.Fatalf("purchased line must be removed, %d left", got)
	}
}
