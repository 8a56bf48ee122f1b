package user

import (
	"strings"
	"sync"
)

// Repository provides access to user records.
type Repository interface {
	Create(u User) (User, error)
	GetByID(id int) (User, error)
	GetByEmail(email string) (User, error)
	// Update persists verification state changes (flag + code).
	Update(u User) (User, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	users  []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, u := range seed {
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users = append(r.users, u)
	}
	return r
}

func (r *InMemoryRepository) Create(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryRepository) GetByID(id int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Update(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.users {
		if existing.ID == u.ID {
			r.users[i] = u
			return u, nil
		}
	}
	return User{}, ErrNotFound
}
