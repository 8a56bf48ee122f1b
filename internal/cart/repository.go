package cart

import (
	"sync"
)

// Repository provides access to cart state. The checkout store deletes
// consumed lines itself so the deletion shares the order transaction; this
// interface covers every other cart mutation.
type Repository interface {
	// AddItem increments the (user, item) line, creating cart and line as
	// needed, and returns the resulting line.
	AddItem(userID, itemID, qty int) (CartLine, error)
	// UpdateLine sets the quantity; zero or negative removes the line.
	UpdateLine(userID, lineID, qty int) error
	RemoveLine(userID, lineID int) (CartLine, error)
	Clear(userID int) error
	Lines(userID int) ([]CartLine, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	lines  map[int][]CartLine // keyed by user id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, lines: make(map[int][]CartLine)}
}

func (r *InMemoryRepository) AddItem(userID, itemID, qty int) (CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, line := range r.lines[userID] {
		if line.ItemID == itemID {
			r.lines[userID][i].Quantity += qty
			return r.lines[userID][i], nil
		}
	}
	line := CartLine{ID: r.nextID, CartID: userID, ItemID: itemID, Quantity: qty}
	r.nextID++
	r.lines[userID] = append(r.lines[userID], line)
	return line, nil
}

func (r *InMemoryRepository) UpdateLine(userID, lineID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, line := range r.lines[userID] {
		if line.ID == lineID {
			if qty <= 0 {
				r.lines[userID] = append(r.lines[userID][:i], r.lines[userID][i+1:]...)
			} else {
				r.lines[userID][i].Quantity = qty
			}
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) RemoveLine(userID, lineID int) (CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, line := range r.lines[userID] {
		if line.ID == lineID {
			r.lines[userID] = append(r.lines[userID][:i], r.lines[userID][i+1:]...)
			return line, nil
		}
	}
	return CartLine{}, ErrLineNotFound
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[userID] = nil
	return nil
}

func (r *InMemoryRepository) Lines(userID int) ([]CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CartLine, len(r.lines[userID]))
	copy(out, r.lines[userID])
	return out, nil
}
