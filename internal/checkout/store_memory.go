package checkout

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/cart"
	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/order"
	"github.com/watering-store/backend/internal/promo"
)

// MemoryStore is the test double for the checkout store. One mutex
// serializes whole checkouts, which gives the same observable semantics as
// the row-locked Postgres transaction; writes land on a scratch copy that
// replaces the state only when the checkout function succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	items      map[int]catalog.Item
	promos     map[int]promo.PromoCode
	lines      map[int]cart.CartLine // keyed by line id; CartID doubles as user id
	orders     map[int]order.Order
	orderItems []order.OrderItem

	nextOrderID     int
	nextOrderItemID int
}

func NewMemoryStore(items []catalog.Item, promos []promo.PromoCode) *MemoryStore {
	s := &MemoryStore{state: memState{
		items:           make(map[int]catalog.Item),
		promos:          make(map[int]promo.PromoCode),
		lines:           make(map[int]cart.CartLine),
		orders:          make(map[int]order.Order),
		nextOrderID:     1,
		nextOrderItemID: 1,
	}}
	for _, it := range items {
		it.InStock = it.Quantity > 0
		s.state.items[it.ID] = it
	}
	for _, p := range promos {
		s.state.promos[p.ID] = p
	}
	return s
}

// AddLine seeds a cart line for tests.
func (s *MemoryStore) AddLine(line cart.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.lines[line.ID] = line
}

// Item returns the current item state.
func (s *MemoryStore) Item(id int) (catalog.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.state.items[id]
	return it, ok
}

// Promo returns the current promo state.
func (s *MemoryStore) Promo(id int) (promo.PromoCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.promos[id]
	return p, ok
}

// Orders returns every persisted order with its items attached.
func (s *MemoryStore) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, 0, len(s.state.orders))
	for _, o := range s.state.orders {
		for _, it := range s.state.orderItems {
			if it.OrderID == o.ID {
				o.Items = append(o.Items, it)
			}
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lines returns the surviving cart lines of a user.
func (s *MemoryStore) Lines(userID int) []cart.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cart.CartLine, 0)
	for _, line := range s.state.lines {
		if line.CartID == userID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) Checkout(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.state.clone()
	if err := fn(&memTx{state: &scratch}); err != nil {
		return err
	}
	s.state = scratch
	return nil
}

func (st memState) clone() memState {
	out := memState{
		items:           make(map[int]catalog.Item, len(st.items)),
		promos:          make(map[int]promo.PromoCode, len(st.promos)),
		lines:           make(map[int]cart.CartLine, len(st.lines)),
		orders:          make(map[int]order.Order, len(st.orders)),
		orderItems:      append([]order.OrderItem(nil), st.orderItems...),
		nextOrderID:     st.nextOrderID,
		nextOrderItemID: st.nextOrderItemID,
	}
	for k, v := range st.items {
		out.items[k] = v
	}
	for k, v := range st.promos {
		out.promos[k] = v
	}
	for k, v := range st.lines {
		out.lines[k] = v
	}
	for k, v := range st.orders {
		v.Items = nil
		out.orders[k] = v
	}
	return out
}

type memTx struct {
	state *memState
}

func (t *memTx) LockItem(id int) (catalog.Item, error) {
	it, ok := t.state.items[id]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return it, nil
}

func (t *memTx) FindActivePromoForUpdate(code string) (promo.PromoCode, error) {
	for _, p := range t.state.promos {
		if p.Active && strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return promo.PromoCode{}, promo.ErrNotFound
}

func (t *memTx) ConsumePromo(id int) (bool, error) {
	p, ok := t.state.promos[id]
	if !ok || !p.Active {
		return false, nil
	}
	p.Active = false
	t.state.promos[id] = p
	return true, nil
}

func (t *memTx) SelectedLines(userID int, ids []int) ([]cart.CartLine, error) {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]cart.CartLine, 0, len(ids))
	for _, line := range t.state.lines {
		if line.CartID == userID && wanted[line.ID] {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (t *memTx) InsertOrder(userID int, total decimal.Decimal, promoID *int) (int, error) {
	id := t.state.nextOrderID
	t.state.nextOrderID++
	t.state.orders[id] = order.Order{
		ID:         id,
		UserID:     userID,
		TotalPrice: total,
		PromoID:    promoID,
		CreatedAt:  time.Now(),
	}
	return id, nil
}

func (t *memTx) InsertOrderItem(orderID, itemID, qty int, pricePerItem decimal.Decimal) error {
	id := t.state.nextOrderItemID
	t.state.nextOrderItemID++
	t.state.orderItems = append(t.state.orderItems, order.OrderItem{
		ID:           id,
		OrderID:      orderID,
		ItemID:       itemID,
		Quantity:     qty,
		PricePerItem: pricePerItem,
	})
	return nil
}

func (t *memTx) ApplyStockDelta(itemID, delta int) error {
	it, ok := t.state.items[itemID]
	if !ok {
		return catalog.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return ErrInvariant
	}
	it.Quantity += delta
	it.InStock = it.Quantity > 0
	t.state.items[itemID] = it
	return nil
}

func (t *memTx) DeleteCartLine(lineID int) error {
	delete(t.state.lines, lineID)
	return nil
}
