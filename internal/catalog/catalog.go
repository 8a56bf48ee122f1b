package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("item not found")

// Item represents a single purchasable product and maps to the `items` table.
// InStock is derived from Quantity and re-computed on every mutation so the
// two can never disagree.
type Item struct {
	ID          int             `json:"itemId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
	Image       *string         `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
	InStock     bool            `json:"inStock"`
}

// Kit is a curated bundle of items sold as one catalog entry. Items lists
// its composition for the catalog page.
type Kit struct {
	ID          int              `json:"kitId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Quantity    int              `json:"quantity"`
	Items       []KitItem        `json:"items,omitempty"`
}

// KitItem links a kit to one of its component items.
type KitItem struct {
	ID       int `json:"kitItemId"`
	KitID    int `json:"kitId"`
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

// AllowedCategories contains the irrigation equipment categories used across the app.
var AllowedCategories = []string{
	"system",
	"sprinkles",
	"pumps",
	"hoses",
	"valves",
	"sensors",
	"controllers",
	"filters",
}

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	Category string
	Type     string // "Item", "Kit" or empty for both
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Search   string
}
