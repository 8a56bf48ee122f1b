package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/cart"
	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/promo"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedStore() *MemoryStore {
	return NewMemoryStore(
		[]catalog.Item{
			{ID: 1, Name: "Drip hose 25m", Price: price("100.00"), Quantity: 5},
			{ID: 2, Name: "Ball valve", Price: price("19.90"), Quantity: 1},
			{ID: 3, Name: "Rain sensor", Price: price("49.50"), Quantity: 8},
		},
		[]promo.PromoCode{
			{ID: 7, Code: "SAVE10", DiscountPercent: 10, Active: true},
		},
	)
}

func TestBuyItemDecrementsStock(t *testing.T) {
	store := seedStore()
	engine := NewEngine(store)

	receipt, err := engine.BuyItem(context.Background(), 1, 1, 2, "")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if receipt.Status != StatusSuccess {
		t.Fatalf("expected success status, got %q", receipt.Status)
	}
	if got := receipt.Total.String(); got != "200" {
		t.Fatalf("expected total 200, got %s", got)
	}

	it, _ := store.Item(1)
	if it.Quantity != 3 {
		t.Fatalf("expected stock 3 after buying 2 of 5, got %d", it.Quantity)
	}
	if !it.InStock {
		t.Fatalf("item with remaining stock must stay in stock")
	}
	if len(store.Orders()) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(store.Orders()))
	}
}

func TestBuyItemStockReachesZero(t *testing.T) {
	store := seedStore()
	engine := NewEngine(store)

	if _, err := engine.BuyItem(context.Background(), 1, 2, 1, ""); err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	it, _ := store.Item(2)
	if it.Quantity != 0 {
		t.Fatalf("expected stock 0, got %d", it.Quantity)
	}
	if it.InStock {
		t.Fatalf("item with zero stock must be flagged out of stock")
	}
}

func TestBuyItemInsufficientStockWritesNothing(t *testing.T) {
	store := seedStore()
	engine := NewEngine(store)

	_, err := engine.BuyItem(context.Background(), 1, 2, 3, "SAVE10")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 1 || stockErr.Requested != 3 {
		t.Fatalf("unexpected detail: %+v", stockErr)
	}

	it, _ := store.Item(2)
	if it.Quantity != 1 {
		t.Fatalf("failed checkout must not touch stock, got %d", it.Quantity)
	}
	if len(store.Orders()) != 0 {
		t.Fatalf("failed checkout must not create an order")
	}
	p, _ := store.Promo(7)
	if !p.Active {
		t.Fatalf("failed checkout must not consume the promo code")
	}
}

func TestBuyItemRejectsNonPositiveQuantity(t *testing.T) {
	engine := NewEngine(seedStore())

	for _, qty := range []int{0, -1} {
		if _, err := engine.BuyItem(context.Background(), 1, 1, qty, ""); err != ErrInvalidQuantity {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestBuyItemUnknownItem(t *testing.T) {
	engine := NewEngine(seedStore())

	if _, err := engine.BuyItem(context.Background(), 1, 999, 1, ""); err != catalog.ErrNotFound {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestPromoDiscountAppliedOnce(t *testing.T) {
	store := seedStore()
	engine := NewEngine(store)

	// 2 x 100.00 with 10% off
	receipt, err := engine.BuyItem(context.Background(), 1, 1, 2, "SAVE10")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if got := receipt.Total.String(); got != "180" {
		t.Fatalf("expected discounted total 180, got %s", got)
	}
	if receipt.PromoWarning {
		t.Fatalf("valid promo must not raise a warning")
	}
	p, _ := store.Promo(7)
	if p.Active {
		t.Fatalf("promo must be consumed by a successful checkout")
	}

	// second use is full price with a warning
	receipt2, err := engine.BuyItem(context.Background(), 2, 1, 1, "SAVE10")
	if err != nil {
		t.Fatalf("second BuyItem: %v", err)
	}
	if got := receipt2.Total.String(); got != "100" {
		t.Fatalf("consumed promo must not discount, got total %s", got)
	}
	if !receipt2.PromoWarning {
		t.Fatalf("consumed promo must raise a warning")
	}
}

func TestPromoCodeCaseInsensitive(t *testing.T) {
	engine := NewEngine(seedStore())

	receipt, err := engine.BuyItem(context.Background(), 1, 1, 1, "save10")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if got := receipt.Total.String(); got != "90" {
		t.Fatalf("expected 90 with lowercase code, got %s", got)
	}
}

func TestUnknownPromoDegradesToWarning(t *testing.T) {
	engine := NewEngine(seedStore())

	receipt, err := engine.BuyItem(context.Background(), 1, 1, 1, "NOPE")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if got := receipt.Total.String(); got != "100" {
		t.Fatalf("unknown promo must not discount, got %s", got)
	}
	if !receipt.PromoWarning {
		t.Fatalf("unknown promo must raise a warning")
	}
}

func TestCheckoutSelectedAllOrNothing(t *testing.T) {
	store := seedStore()
	store.AddLine(cart.CartLine{ID: 10, CartID: 1, ItemID: 2, Quantity: 2}) // only 1 in stock
	store.AddLine(cart.CartLine{ID: 11, CartID: 1, ItemID: 3, Quantity: 1})
	engine := NewEngine(store)

	_, err := engine.CheckoutSelected(context.Background(), 1, []int{10, 11}, "")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	// nothing may have been written, including for the line that would fit
	if it, _ := store.Item(3); it.Quantity != 8 {
		t.Fatalf("aborted checkout must not decrement any stock, got %d", it.Quantity)
	}
	if len(store.Orders()) != 0 {
		t.Fatalf("aborted checkout must not create an order")
	}
	if got := len(store.Lines(1)); got != 2 {
		t.Fatalf("aborted checkout must keep all cart lines, got %d", got)
	}
}

func TestCheckoutSelectedHappyPath(t *testing.T) {
	store := seedStore()
	store.AddLine(cart.CartLine{ID: 10, CartID: 1, ItemID: 1, Quantity: 2})
	store.AddLine(cart.CartLine{ID: 11, CartID: 1, ItemID: 3, Quantity: 1})
	store.AddLine(cart.CartLine{ID: 12, CartID: 1, ItemID: 2, Quantity: 1}) // not selected
	engine := NewEngine(store)

	receipt, err := engine.CheckoutSelected(context.Background(), 1, []int{10, 11}, "SAVE10")
	if err != nil {
		t.Fatalf("CheckoutSelected: %v", err)
	}
	// (2*100.00 + 49.50) * 0.9 = 224.55
	if got := receipt.Total.String(); got != "224.55" {
		t.Fatalf("expected total 224.55, got %s", got)
	}
	if receipt.Lines != 2 || receipt.Quantity != 3 {
		t.Fatalf("unexpected receipt counts: %+v", receipt)
	}

	if it, _ := store.Item(1); it.Quantity != 3 {
		t.Fatalf("expected stock 3, got %d", it.Quantity)
	}
	if it, _ := store.Item(3); it.Quantity != 7 {
		t.Fatalf("expected stock 7, got %d", it.Quantity)
	}

	lines := store.Lines(1)
	if len(lines) != 1 || lines[0].ID != 12 {
		t.Fatalf("purchased lines must be removed, unselected kept: %+v", lines)
	}

	orders := store.Orders()
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
	if len(orders[0].Items) != 2 {
		t.Fatalf("expected two order items, got %d", len(orders[0].Items))
	}
	if orders[0].PromoID == nil || *orders[0].PromoID != 7 {
		t.Fatalf("order must reference the consumed promo")
	}
}

func TestCheckoutSelectedNoSelection(t *testing.T) {
	store := seedStore()
	store.AddLine(cart.CartLine{ID: 10, CartID: 1, ItemID: 1, Quantity: 1})
	engine := NewEngine(store)

	if _, err := engine.CheckoutSelected(context.Background(), 1, nil, ""); err != ErrNoSelection {
		t.Fatalf("expected ErrNoSelection for empty ids, got %v", err)
	}
	// ids that belong to no line of this user are excluded, leaving nothing
	if _, err := engine.CheckoutSelected(context.Background(), 1, []int{99}, ""); err != ErrNoSelection {
		t.Fatalf("expected ErrNoSelection for foreign ids, got %v", err)
	}
	// another user's line must not be purchasable
	if _, err := engine.CheckoutSelected(context.Background(), 2, []int{10}, ""); err != ErrNoSelection {
		t.Fatalf("expected ErrNoSelection for another user's line, got %v", err)
	}
}

func TestConcurrentBuyersNeverOversell(t *testing.T) {
	store := seedStore()
	engine := NewEngine(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.BuyItem(context.Background(), i+1, 1, 3, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("stock 5 with two buyers of 3: expected exactly one success, got %d", succeeded)
	}

	it, _ := store.Item(1)
	if it.Quantity != 2 {
		t.Fatalf("expected final stock 2, got %d", it.Quantity)
	}
}

func TestConcurrentPromoSingleWinner(t *testing.T) {
	store := seedStore()
	engine := NewEngine(store)

	var wg sync.WaitGroup
	receipts := make([]Receipt, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := engine.BuyItem(context.Background(), i+1, 3, 1, "SAVE10")
			if err != nil {
				t.Errorf("BuyItem: %v", err)
				return
			}
			receipts[i] = r
		}(i)
	}
	wg.Wait()

	discounted := 0
	for _, r := range receipts {
		if r.Total.String() == "44.55" {
			discounted++
		} else if r.Total.String() != "49.5" {
			t.Fatalf("unexpected total %s", r.Total.String())
		}
	}
	if discounted != 1 {
		t.Fatalf("expected exactly one discounted checkout, got %d", discounted)
	}
}
