package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Status classifies the outcome of a checkout for the presentation layer.
type Status string

const (
	StatusSuccess           Status = "success"
	StatusInsufficientStock Status = "insufficient_stock"
	StatusNoSelection       Status = "no_selection"
)

var (
	// ErrNoSelection means the effective line set was empty after
	// intersecting the requested ids with the user's cart.
	ErrNoSelection = errors.New("no cart lines selected")

	// ErrInvalidQuantity rejects zero, negative and fractional quantities
	// before they reach stock validation.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvariant marks a programming-error condition (negative stock
	// result). The transaction is rolled back; nothing is persisted.
	ErrInvariant = errors.New("checkout invariant violated")
)

// InsufficientStockError carries what the user needs to fix the request.
type InsufficientStockError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d units of %q available, %d requested", e.Available, e.ItemName, e.Requested)
}

// Receipt summarizes a committed checkout for rendering.
type Receipt struct {
	Status   Status          `json:"status"`
	OrderID  int             `json:"orderId"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
	// ItemName is set on the single-item path.
	ItemName string `json:"itemName,omitempty"`
	// Lines is how many cart lines were consumed on the multi-item path.
	Lines int `json:"lines,omitempty"`
	// PromoWarning is true when a supplied code was invalid, already used,
	// or lost the consumption race; the checkout proceeded at full price.
	PromoWarning bool `json:"promoWarning,omitempty"`
}
