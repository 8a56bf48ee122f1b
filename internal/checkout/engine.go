package checkout

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/promo"
)

var one = decimal.NewFromInt(1)

// Engine converts a purchase request into an immutable order while keeping
// stock, promo state and the cart consistent. All reads and writes of one
// checkout happen inside a single Store transaction; item rows are locked in
// ascending id order so concurrent checkouts over the same items serialize
// instead of deadlocking.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// BuyItem purchases a quantity of a single catalog item.
func (e *Engine) BuyItem(ctx context.Context, userID, itemID, qty int, promoCode string) (Receipt, error) {
	if qty <= 0 {
		return Receipt{}, ErrInvalidQuantity
	}

	var receipt Receipt
	err := e.store.Checkout(ctx, func(tx Tx) error {
		item, err := tx.LockItem(itemID)
		if err != nil {
			return err
		}
		if qty > item.Quantity {
			return &InsufficientStockError{ItemName: item.Name, Available: item.Quantity, Requested: qty}
		}

		promoID, discount, warning, err := resolvePromo(tx, promoCode)
		if err != nil {
			return err
		}

		total := item.Price.
			Mul(decimal.NewFromInt(int64(qty))).
			Mul(one.Sub(discount)).
			Round(2)

		orderID, err := tx.InsertOrder(userID, total, promoID)
		if err != nil {
			return err
		}
		if err := tx.InsertOrderItem(orderID, item.ID, qty, item.Price); err != nil {
			return err
		}
		if err := tx.ApplyStockDelta(item.ID, -qty); err != nil {
			return err
		}

		receipt = Receipt{
			Status:       StatusSuccess,
			OrderID:      orderID,
			Total:        total,
			Quantity:     qty,
			ItemName:     item.Name,
			PromoWarning: warning,
		}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// CheckoutSelected purchases the given cart lines all-or-nothing: the first
// line that fails stock validation aborts the whole checkout with no writes.
// Ids not present in the user's cart are silently excluded.
func (e *Engine) CheckoutSelected(ctx context.Context, userID int, lineIDs []int, promoCode string) (Receipt, error) {
	if len(lineIDs) == 0 {
		return Receipt{}, ErrNoSelection
	}

	var receipt Receipt
	err := e.store.Checkout(ctx, func(tx Tx) error {
		lines, err := tx.SelectedLines(userID, lineIDs)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrNoSelection
		}

		// validation pass: lock every item, check every quantity. The locks
		// stay held through the commit pass, so the stock observed here is
		// the stock that gets decremented.
		type pending struct {
			lineID   int
			itemID   int
			itemName string
			qty      int
			price    decimal.Decimal
		}
		toProcess := make([]pending, 0, len(lines))
		rawTotal := decimal.Zero
		units := 0
		for _, line := range lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			item, err := tx.LockItem(line.ItemID)
			if err != nil {
				return err
			}
			if line.Quantity > item.Quantity {
				return &InsufficientStockError{ItemName: item.Name, Available: item.Quantity, Requested: line.Quantity}
			}
			toProcess = append(toProcess, pending{
				lineID:   line.ID,
				itemID:   item.ID,
				itemName: item.Name,
				qty:      line.Quantity,
				price:    item.Price,
			})
			rawTotal = rawTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			units += line.Quantity
		}

		promoID, discount, warning, err := resolvePromo(tx, promoCode)
		if err != nil {
			return err
		}
		finalTotal := rawTotal.Mul(one.Sub(discount)).Round(2)

		// commit pass: every write below rides the same transaction, so a
		// committed order can never coexist with surviving cart lines.
		orderID, err := tx.InsertOrder(userID, finalTotal, promoID)
		if err != nil {
			return err
		}
		for _, p := range toProcess {
			if err := tx.InsertOrderItem(orderID, p.itemID, p.qty, p.price); err != nil {
				return err
			}
			if err := tx.ApplyStockDelta(p.itemID, -p.qty); err != nil {
				return err
			}
			if err := tx.DeleteCartLine(p.lineID); err != nil {
				return err
			}
		}

		receipt = Receipt{
			Status:       StatusSuccess,
			OrderID:      orderID,
			Total:        finalTotal,
			Quantity:     units,
			Lines:        len(toProcess),
			PromoWarning: warning,
		}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// resolvePromo re-validates and consumes the code under the checkout's
// transaction. The active flag is checked at commit time, not trusted from
// any earlier read: a checkout that raced for the same code and lost sees it
// inactive here and degrades to zero discount with a warning, exactly like a
// wrong code. Empty input means no promo and no warning.
func resolvePromo(tx Tx, code string) (promoID *int, discount decimal.Decimal, warning bool, err error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, decimal.Zero, false, nil
	}

	p, err := tx.FindActivePromoForUpdate(code)
	if err != nil {
		if err == promo.ErrNotFound {
			return nil, decimal.Zero, true, nil
		}
		return nil, decimal.Zero, false, err
	}

	// consumption is rolled back with the transaction if the checkout fails
	won, err := tx.ConsumePromo(p.ID)
	if err != nil {
		return nil, decimal.Zero, false, err
	}
	if !won {
		return nil, decimal.Zero, true, nil
	}

	discount = decimal.NewFromInt(int64(p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return &p.ID, discount, false, nil
}
