// Package browse narrows and orders an in-memory listing set. Apply is
// a pure function: same records and filter in, same slice out.
package browse

import (
	"sort"
	"strings"
)

// Record is one browsable listing, merged from server records and any
// locally-cached pending listings.
type Record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Image       string  `json:"img,omitempty"`
	Pending     bool    `json:"pending,omitempty"`
}

type Sort int

const (
	SortNone Sort = iota
	SortPriceAsc
	SortPriceDesc
)

// Filter holds the active narrowing inputs. Nil price bounds mean
// unbounded; bounds are inclusive.
type Filter struct {
	Category string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Query    string
	Sort     Sort
}

func (f Filter) matches(r Record) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Location != "" && r.Location != f.Location {
		return false
	}
	if f.MinPrice != nil && r.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && r.Price > *f.MaxPrice {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		title := strings.ToLower(r.Title)
		desc := strings.ToLower(r.Description)
		if !strings.Contains(title, q) && !strings.Contains(desc, q) {
			return false
		}
	}
	return true
}

// Apply filters then optionally sorts by price. The input order is
// preserved for unfiltered ties (stable sort), so output is
// deterministic for a fixed input.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Merge appends pending records after the server set, marking them so
// views can badge unconfirmed listings.
func Merge(server, pending []Record) []Record {
	out := make([]Record, 0, len(server)+len(pending))
	out = append(out, server...)
	for _, p := range pending {
		p.Pending = true
		out = append(out, p)
	}
	return out
}
