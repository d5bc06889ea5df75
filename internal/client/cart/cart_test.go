package cart_test

import (
	"testing"

	"swapit/internal/client/cart"
	"swapit/internal/client/store"
)

func TestAddIncrementsExistingLine(t *testing.T) {
	c := cart.New(store.NewMemory())

	ln := cart.Line{ID: "item-1", Title: "Drill", Price: 10}
	if err := c.Add(ln); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(ln); err != nil {
		t.Fatal(err)
	}

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("same id added twice should stay one line, got %d", len(items))
	}
	if items[0].Qty != 2 {
		t.Fatalf("want qty 2, got %d", items[0].Qty)
	}
	if c.Count() != 2 {
		t.Fatalf("badge count: want 2, got %d", c.Count())
	}

	// a different id gets its own line
	if err := c.Add(cart.Line{ID: "item-2", Title: "Tent", Price: 5}); err != nil {
		t.Fatal(err)
	}
	if len(c.Items()) != 2 || c.Count() != 3 {
		t.Fatalf("after second item: %d lines, count %d", len(c.Items()), c.Count())
	}
}

func TestSummarize(t *testing.T) {
	c := cart.New(store.NewMemory())
	_ = c.Add(cart.Line{ID: "a", Title: "Drill", Price: 10})
	_ = c.Add(cart.Line{ID: "a"}) // qty 2
	_ = c.Add(cart.Line{ID: "b", Title: "Tent", Price: 5})

	s := c.Summarize()
	if len(s.Lines) != 2 {
		t.Fatalf("want 2 summary lines, got %d", len(s.Lines))
	}
	if s.Lines[0].Subtotal != 20 || s.Lines[1].Subtotal != 5 {
		t.Fatalf("bad subtotals: %v, %v", s.Lines[0].Subtotal, s.Lines[1].Subtotal)
	}
	if s.Total != 25 {
		t.Fatalf("want total 25, got %v", s.Total)
	}
}

func TestSetQtyClampsAndRemove(t *testing.T) {
	c := cart.New(store.NewMemory())
	_ = c.Add(cart.Line{ID: "a", Price: 10})

	if err := c.SetQty("a", 0); err != nil {
		t.Fatal(err)
	}
	if got := c.Items()[0].Qty; got != 1 {
		t.Fatalf("qty below 1 must clamp to 1, got %d", got)
	}
	if err := c.SetQty("a", 7); err != nil {
		t.Fatal(err)
	}
	if got := c.Items()[0].Qty; got != 7 {
		t.Fatalf("want qty 7, got %d", got)
	}

	// unknown id is a no-op
	if err := c.SetQty("ghost", 3); err != nil {
		t.Fatal(err)
	}
	if len(c.Items()) != 1 {
		t.Fatalf("SetQty on unknown id changed the cart: %+v", c.Items())
	}

	if err := c.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if len(c.Items()) != 0 || c.Count() != 0 {
		t.Fatalf("remove left lines behind: %+v", c.Items())
	}
}

func TestCartSubscribe(t *testing.T) {
	st := store.NewMemory()
	c := cart.New(st)

	fired := 0
	cancel := c.Subscribe(func() { fired++ })
	_ = c.Add(cart.Line{ID: "a"})
	_ = c.Clear()
	if fired != 2 {
		t.Fatalf("want 2 notifications, got %d", fired)
	}

	// wishlist writes must not ping cart subscribers
	_, _ = cart.NewWishlist(st).Toggle(cart.Entry{ID: "a"})
	if fired != 2 {
		t.Fatalf("cross-key notification: %d", fired)
	}

	cancel()
	_ = c.Add(cart.Line{ID: "b"})
	if fired != 2 {
		t.Fatalf("notified after cancel: %d", fired)
	}
}

func TestWishlistToggle(t *testing.T) {
	w := cart.NewWishlist(store.NewMemory())

	added, err := w.Toggle(cart.Entry{ID: "a", Title: "Drill"})
	if err != nil {
		t.Fatal(err)
	}
	if !added || !w.Contains("a") || w.Count() != 1 {
		t.Fatalf("first toggle should add: added=%v count=%d", added, w.Count())
	}

	added, err = w.Toggle(cart.Entry{ID: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if added || w.Contains("a") || w.Count() != 0 {
		t.Fatalf("second toggle should remove: added=%v count=%d", added, w.Count())
	}
}

func TestSyntheticID(t *testing.T) {
	if got := cart.SyntheticID(3, "Game  Boy Color"); got != "item-3-game-boy-color" {
		t.Fatalf("got %q", got)
	}
}
