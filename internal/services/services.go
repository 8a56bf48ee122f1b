package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("service not found")

// Service is an offered installation or maintenance service.
type Service struct {
	ID          int              `json:"serviceId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// ServiceOrder is a request for a service, captured from the intake form.
type ServiceOrder struct {
	ID        int       `json:"serviceOrderId"`
	UserID    int       `json:"userId"`
	ServiceID int       `json:"serviceId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
