package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/cart"
	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/promo"
)

// Store runs a checkout as one atomic unit: either every write inside fn is
// persisted, or none is. The Postgres implementation maps this onto a
// database transaction with row locks; the in-memory one serializes
// checkouts behind a mutex and applies a scratch copy on success.
type Store interface {
	Checkout(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside a checkout. Lock methods
// must be called before the values they return are trusted: stock and promo
// state read outside the transaction is stale by definition.
type Tx interface {
	// LockItem loads an item and holds an exclusive lock on its row until
	// the checkout commits or rolls back. Returns catalog.ErrNotFound for
	// unknown ids.
	LockItem(id int) (catalog.Item, error)

	// FindActivePromoForUpdate re-reads the promo row under lock. Inactive
	// and nonexistent codes are both promo.ErrNotFound.
	FindActivePromoForUpdate(code string) (promo.PromoCode, error)

	// ConsumePromo flips active to false iff it is still true and reports
	// whether this checkout won the transition.
	ConsumePromo(id int) (bool, error)

	// SelectedLines returns the intersection of ids with the user's cart,
	// ordered by item id so every checkout locks items in the same order.
	SelectedLines(userID int, ids []int) ([]cart.CartLine, error)

	InsertOrder(userID int, total decimal.Decimal, promoID *int) (int, error)
	InsertOrderItem(orderID, itemID, qty int, pricePerItem decimal.Decimal) error

	// ApplyStockDelta adjusts the item quantity and re-derives in_stock.
	// The caller has already validated the delta against locked stock, so
	// a would-be-negative result is ErrInvariant, never persisted.
	ApplyStockDelta(itemID, delta int) error

	DeleteCartLine(lineID int) error
}
