package cart

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/catalog"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Service orchestrates cart operations. It needs the catalog to validate
// item ids and to enrich lines for display.
type Service struct {
	repo  Repository
	items catalog.Repository
}

func NewService(repo Repository, items catalog.Repository) *Service {
	return &Service{repo: repo, items: items}
}

func (s *Service) Add(userID, itemID, qty int) (CartLine, error) {
	if qty <= 0 {
		return CartLine{}, ErrInvalidQuantity
	}
	if _, err := s.items.GetItem(itemID); err != nil {
		return CartLine{}, err
	}
	return s.repo.AddItem(userID, itemID, qty)
}

func (s *Service) Update(userID, lineID, qty int) error {
	return s.repo.UpdateLine(userID, lineID, qty)
}

func (s *Service) Remove(userID, lineID int) (CartLine, error) {
	return s.repo.RemoveLine(userID, lineID)
}

func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID)
}

// View builds the cart page: lines enriched with their items, narrowed by
// the same filters the catalog page offers, plus the running total of the
// lines that survived the filter.
func (s *Service) View(userID int, f catalog.Filter) (View, error) {
	lines, err := s.repo.Lines(userID)
	if err != nil {
		return View{}, err
	}

	view := View{Lines: make([]LineDetail, 0, len(lines)), Total: decimal.Zero}
	for _, line := range lines {
		item, err := s.items.GetItem(line.ItemID)
		if err != nil {
			if err == catalog.ErrNotFound {
				continue
			}
			return View{}, err
		}
		if !lineMatches(item, f) {
			continue
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, LineDetail{
			ID:       line.ID,
			Item:     item,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}

// BoardEntry is one placed element from the interactive watering board.
// The board reports water amounts, so quantities may arrive fractional.
type BoardEntry struct {
	ItemID   int     `json:"id"`
	Quantity float64 `json:"quantity"`
}

// AddBoard bulk-adds board selections to the cart. Fractional quantities
// are floored; entries that floor to zero or reference unknown items are
// skipped rather than failing the whole batch. Returns how many entries
// made it into the cart.
func (s *Service) AddBoard(userID int, entries []BoardEntry) (int, error) {
	added := 0
	for _, e := range entries {
		qty := int(math.Floor(e.Quantity))
		if e.ItemID <= 0 || qty <= 0 {
			continue
		}
		if _, err := s.items.GetItem(e.ItemID); err != nil {
			if err == catalog.ErrNotFound {
				continue
			}
			return added, err
		}
		if _, err := s.repo.AddItem(userID, e.ItemID, qty); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func lineMatches(item catalog.Item, f catalog.Filter) bool {
	if f.Category != "" && (item.Category == nil || *item.Category != f.Category) {
		return false
	}
	if f.PriceMin != nil && item.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && item.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if f.Search != "" {
		name := strings.ToLower(item.Name)
		desc := strings.ToLower(item.Description)
		needle := strings.ToLower(strings.TrimSpace(f.Search))
		if !strings.Contains(name, needle) && !strings.Contains(desc, needle) {
			return false
		}
	}
	return true
}
