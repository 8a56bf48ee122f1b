package services

import (
	"sync"
	"time"
)

// Repository provides access to offered services and service orders.
type Repository interface {
	ListServices() ([]Service, error)
	GetService(id int) (Service, error)
	AddOrder(o ServiceOrder) (ServiceOrder, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.Mutex
	nextID   int
	services []Service
	orders   []ServiceOrder
}

func NewInMemoryRepository(services []Service) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, services: append([]Service(nil), services...)}
}

func (r *InMemoryRepository) ListServices() ([]Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Service(nil), r.services...), nil
}

func (r *InMemoryRepository) GetService(id int) (Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.ID == id {
			return s, nil
		}
	}
	return Service{}, ErrNotFound
}

func (r *InMemoryRepository) AddOrder(o ServiceOrder) (ServiceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	o.CreatedAt = time.Now()
	r.orders = append(r.orders, o)
	return o, nil
}
