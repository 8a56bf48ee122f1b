package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/catalog"
)

var ErrLineNotFound = errors.New("cart line not found")

// Cart is the per-user container, created lazily on first access.
type Cart struct {
	ID     int `json:"cartId"`
	UserID int `json:"userId"`
}

// CartLine is one (item, quantity) entry in a user's cart. Quantity is kept
// strictly positive: setting it to zero or below deletes the line.
type CartLine struct {
	ID       int `json:"lineId"`
	CartID   int `json:"cartId"`
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

// LineDetail is a cart line enriched with its item for display.
type LineDetail struct {
	ID       int             `json:"lineId"`
	Item     catalog.Item    `json:"item"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is the cart page payload.
type View struct {
	Lines []LineDetail    `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
