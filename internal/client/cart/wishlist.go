package cart

import "swapit/internal/client/store"

// Entry is one wishlist item; membership is a toggle.
type Entry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Location string  `json:"location,omitempty"`
	Image    string  `json:"img,omitempty"`
}

type Wishlist struct {
	st store.Store
}

func NewWishlist(st store.Store) *Wishlist { return &Wishlist{st: st} }

func (w *Wishlist) load() []Entry {
	var entries []Entry
	_, _ = w.st.Get(store.KeyWishlist, &entries)
	return entries
}

// Toggle adds the entry if absent and removes it if present; the
// return value reports whether it is now a member.
func (w *Wishlist) Toggle(e Entry) (added bool, err error) {
	entries := w.load()
	for i, x := range entries {
		if x.ID == e.ID {
			entries = append(entries[:i], entries[i+1:]...)
			return false, w.st.Set(store.KeyWishlist, entries)
		}
	}
	return true, w.st.Set(store.KeyWishlist, append(entries, e))
}

func (w *Wishlist) Contains(id string) bool {
	for _, x := range w.load() {
		if x.ID == id {
			return true
		}
	}
	return false
}

func (w *Wishlist) Items() []Entry { return w.load() }

func (w *Wishlist) Count() int { return len(w.load()) }

func (w *Wishlist) Subscribe(fn func()) (cancel func()) {
	return w.st.Subscribe(store.KeyWishlist, fn)
}
