// Package cart holds the client-local cart and wishlist state. Neither
// is authoritative: the cart only becomes server state when checkout
// converts it into swap requests.
package cart

import (
	"fmt"
	"strings"

	"swapit/internal/client/store"
)

// Line is one cart entry.
type Line struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Location string  `json:"location,omitempty"`
	Image    string  `json:"img,omitempty"`
	Qty      int     `json:"qty"`
}

// SyntheticID derives an identifier for records the server has not
// assigned one, e.g. locally-cached pending listings.
func SyntheticID(index int, title string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	return fmt.Sprintf("item-%d-%s", index, slug)
}

type Cart struct {
	st store.Store
}

func New(st store.Store) *Cart { return &Cart{st: st} }

func (c *Cart) load() []Line {
	var lines []Line
	_, _ = c.st.Get(store.KeyCart, &lines)
	return lines
}

func (c *Cart) save(lines []Line) error {
	return c.st.Set(store.KeyCart, lines)
}

// Add inserts the item with qty 1, or increments the existing line
// when the id is already present.
func (c *Cart) Add(item Line) error {
	lines := c.load()
	for i := range lines {
		if lines[i].ID == item.ID {
			if lines[i].Qty < 1 {
				lines[i].Qty = 1
			}
			lines[i].Qty++
			return c.save(lines)
		}
	}
	item.Qty = 1
	return c.save(append(lines, item))
}

// SetQty clamps to a minimum of 1; removal is explicit.
func (c *Cart) SetQty(id string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	lines := c.load()
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Qty = qty
			return c.save(lines)
		}
	}
	return nil
}

func (c *Cart) Remove(id string) error {
	lines := c.load()
	out := lines[:0]
	for _, ln := range lines {
		if ln.ID != id {
			out = append(out, ln)
		}
	}
	return c.save(out)
}

func (c *Cart) Clear() error { return c.st.Delete(store.KeyCart) }

func (c *Cart) Items() []Line { return c.load() }

// Count is the badge number: total quantity across lines.
func (c *Cart) Count() int {
	n := 0
	for _, ln := range c.load() {
		q := ln.Qty
		if q < 1 {
			q = 1
		}
		n += q
	}
	return n
}

// SummaryLine is a cart line with its derived subtotal.
type SummaryLine struct {
	Line
	Subtotal float64 `json:"subtotal"`
}

type Summary struct {
	Lines []SummaryLine `json:"lines"`
	Total float64       `json:"total"`
}

// Summarize computes per-line subtotals (price x qty) and the grand total.
func (c *Cart) Summarize() Summary {
	var s Summary
	for _, ln := range c.load() {
		q := ln.Qty
		if q < 1 {
			q = 1
		}
		sub := ln.Price * float64(q)
		s.Lines = append(s.Lines, SummaryLine{Line: ln, Subtotal: sub})
		s.Total += sub
	}
	return s
}

// Subscribe notifies on every cart write.
func (c *Cart) Subscribe(fn func()) (cancel func()) {
	return c.st.Subscribe(store.KeyCart, fn)
}
