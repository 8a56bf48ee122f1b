package catalog

import (
	"strings"
	"sync"
)

// Repository provides read access to the catalog. Stock is never mutated
// through this interface; only the checkout store writes item quantities.
type Repository interface {
	ListItems(f Filter) ([]Item, error)
	ListKits(f Filter) ([]Kit, error)
	GetItem(id int) (Item, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Item
	kits  []Kit
}

func NewInMemoryRepository(items []Item, kits []Kit) *InMemoryRepository {
	r := &InMemoryRepository{}
	for _, it := range items {
		it.InStock = it.Quantity > 0
		r.items = append(r.items, it)
	}
	r.kits = append(r.kits, kits...)
	return r
}

func (r *InMemoryRepository) ListItems(f Filter) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f.Type == "Kit" {
		return []Item{}, nil
	}
	out := make([]Item, 0)
	for _, it := range r.items {
		if !matchesItem(it, f) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *InMemoryRepository) ListKits(f Filter) ([]Kit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// category filtering applies to single items only
	if f.Type == "Item" || f.Category != "" {
		return []Kit{}, nil
	}
	out := make([]Kit, 0)
	for _, k := range r.kits {
		if f.PriceMin != nil && (k.Price == nil || k.Price.LessThan(*f.PriceMin)) {
			continue
		}
		if f.PriceMax != nil && (k.Price == nil || k.Price.GreaterThan(*f.PriceMax)) {
			continue
		}
		if f.Search != "" && !matchesSearch(k.Name, k.Description, f.Search) {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

func (r *InMemoryRepository) GetItem(id int) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func matchesItem(it Item, f Filter) bool {
	if f.Category != "" && (it.Category == nil || *it.Category != f.Category) {
		return false
	}
	if f.PriceMin != nil && it.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && it.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if f.Search != "" && !matchesSearch(it.Name, it.Description, f.Search) {
		return false
	}
	return true
}

// matchesSearch implements the word-wise OR search of the catalog page:
// an entry matches when any search word occurs in its name or description.
func matchesSearch(name, description, search string) bool {
	name = strings.ToLower(name)
	description = strings.ToLower(description)
	for _, word := range strings.Fields(strings.ToLower(search)) {
		if strings.Contains(name, word) || strings.Contains(description, word) {
			return true
		}
	}
	return false
}
