package promo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Service answers "what discount does this code give right now" without
// ever mutating the ledger. Consumption happens inside the checkout
// transaction, not here.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolution is the outcome of resolving a promo code input.
type Resolution struct {
	// Promo is nil when no usable code was supplied.
	Promo *PromoCode
	// Discount is the fraction to subtract from 1, e.g. 0.1 for 10%.
	Discount decimal.Decimal
	// Warning is true when a non-empty code turned out invalid or used.
	Warning bool
}

// Resolve maps user input to a discount. Empty input is not an error and
// not a warning; an unknown or inactive code degrades to zero discount with
// a warning the caller surfaces to the user. The active flag must be
// re-checked at commit time by whoever consumes the code.
func (s *Service) Resolve(code string) (Resolution, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Resolution{Discount: decimal.Zero}, nil
	}

	p, err := s.repo.FindActiveByCode(code)
	if err != nil {
		if err == ErrNotFound {
			return Resolution{Discount: decimal.Zero, Warning: true}, nil
		}
		return Resolution{}, err
	}

	discount := decimal.NewFromInt(int64(p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return Resolution{Promo: &p, Discount: discount}, nil
}

// ValidationResult is the payload of the validate endpoint.
type ValidationResult struct {
	Valid    bool `json:"valid"`
	Discount int  `json:"discount"`
}

// Validate is the read-only pre-checkout check used by the storefront UI.
func (s *Service) Validate(code string) (ValidationResult, error) {
	res, err := s.Resolve(code)
	if err != nil {
		return ValidationResult{}, err
	}
	if res.Promo == nil {
		return ValidationResult{}, nil
	}
	return ValidationResult{Valid: true, Discount: res.Promo.DiscountPercent}, nil
}
