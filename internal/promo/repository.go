package promo

import (
	"strings"
	"sync"
)

// Repository provides access to the promo ledger. Codes are provisioned
// out-of-band; this subsystem only reads them and flips the active flag.
type Repository interface {
	// FindActiveByCode matches case-insensitively against active codes.
	// A wrong code and an inactive code are the same ErrNotFound outcome.
	FindActiveByCode(code string) (PromoCode, error)

	// Consume deactivates the code iff it is still active and reports
	// whether this call won the transition.
	Consume(id int) (bool, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.Mutex
	codes []PromoCode
}

func NewInMemoryRepository(seed []PromoCode) *InMemoryRepository {
	r := &InMemoryRepository{codes: make([]PromoCode, 0, len(seed))}
	r.codes = append(r.codes, seed...)
	return r
}

func (r *InMemoryRepository) FindActiveByCode(code string) (PromoCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.codes {
		if p.Active && strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return PromoCode{}, ErrNotFound
}

func (r *InMemoryRepository) Consume(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.codes {
		if p.ID == id {
			if !p.Active {
				return false, nil
			}
			r.codes[i].Active = false
			return true, nil
		}
	}
	return false, ErrNotFound
}
