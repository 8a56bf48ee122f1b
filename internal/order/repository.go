package order

import (
	"sort"
	"sync"
)

// Repository is the read side of order history. Orders are written by the
// checkout store so that order, items, stock and cart share one transaction.
type Repository interface {
	// ListByUser returns the user's orders newest-first, items included.
	ListByUser(userID int) ([]Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	return &InMemoryRepository{orders: append([]Order(nil), seed...)}
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
