package services

import (
	"database/sql"
	"errors"
	"strings"

	"swapit/internal/domain"
	"swapit/internal/repos"
)

type OrderService struct {
	Swaps    *repos.SwapRepo
	Listings *repos.ListingRepo
}

func NewOrderService(swaps *repos.SwapRepo, listings *repos.ListingRepo) *OrderService {
	return &OrderService{Swaps: swaps, Listings: listings}
}

// CartLine is the client-submitted checkout line. Only the id matters
// server-side; title/price are client display state.
type CartLine struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Price float64 `json:"price,omitempty"`
	Qty   int     `json:"qty,omitempty"`
}

// Create converts the cart into one pending swap request per line,
// all-or-nothing. A missing listing fails the whole batch with
// ErrItemNotFound and commits nothing.
func (s *OrderService) Create(requesterID, pickupAt string, lines []CartLine) ([]string, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("No items in order")
	}
	if strings.TrimSpace(pickupAt) == "" {
		return nil, domain.Invalid("Pickup date/time is required")
	}

	itemIDs := make([]string, 0, len(lines))
	for _, ln := range lines {
		if strings.TrimSpace(ln.ID) == "" {
			return nil, domain.Invalid("No items in order")
		}
		itemIDs = append(itemIDs, ln.ID)
	}

	ids, err := s.Swaps.CreateBatch(requesterID, pickupAt, itemIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, domain.ErrOperationFailed
	}
	return ids, nil
}

func (s *OrderService) History(userID string) ([]domain.SwapRequest, error) {
	return s.Swaps.ListByRequester(userID)
}
