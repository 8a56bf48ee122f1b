package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable record of a completed purchase. TotalPrice already
// has the promo discount applied. PromoID stays nullable: when the referenced
// code is deleted out-of-band the link is cleared, the order survives.
type Order struct {
	ID         int             `json:"orderId"`
	UserID     int             `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	PromoID    *int            `json:"promoId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Items      []OrderItem     `json:"items,omitempty"`
}

// OrderItem snapshots one purchased line. PricePerItem is the unit price at
// the time of purchase and never changes when the catalog price does.
type OrderItem struct {
	ID           int             `json:"orderItemId"`
	OrderID      int             `json:"orderId"`
	ItemID       int             `json:"itemId"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
}
