package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Service orchestrates catalog reads.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Listing is the combined catalog page payload.
type Listing struct {
	Items []Item `json:"items"`
	Kits  []Kit  `json:"kits"`
}

func (s *Service) List(f Filter) (Listing, error) {
	f.Search = strings.TrimSpace(f.Search)

	items, err := s.repo.ListItems(f)
	if err != nil {
		return Listing{}, err
	}
	kits, err := s.repo.ListKits(f)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Items: items, Kits: kits}, nil
}

func (s *Service) GetItem(id int) (Item, error) {
	if id <= 0 {
		return Item{}, ErrNotFound
	}
	return s.repo.GetItem(id)
}

// ParsePrice converts a raw query value into a decimal bound, ignoring
// garbage the same way the original cart filters did.
func ParsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
