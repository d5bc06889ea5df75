// Package store is the browser-localStorage analogue: a small
// key-value repository of JSON-encoded values scoped to one profile.
// Views receive a Store instead of reaching for ambient globals.
package store

import (
	"encoding/json"
	"sync"
)

// Well-known keys shared with the pages that read them on load.
const (
	KeyCart     = "swapit_cart"
	KeyWishlist = "swapit_wishlist"
	KeyPending  = "swapit_pending_items"
	KeyOrders   = "swapit_orders"
)

// Store is a JSON key-value repository with change notification.
type Store interface {
	// Get decodes the value under key into v; ok is false when absent.
	Get(key string, v any) (ok bool, err error)
	Set(key string, v any) error
	Delete(key string) error
	// Subscribe registers fn to run after every write to key and
	// returns a cancel func. fn runs on the writer's goroutine.
	Subscribe(key string, fn func()) (cancel func())
}

type memStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	subs map[string]map[int]func()
	next int
}

// NewMemory returns an in-memory Store. State lives exactly as long as
// the process, like a browser tab's session.
func NewMemory() Store {
	return &memStore{
		data: map[string][]byte{},
		subs: map[string]map[int]func(){},
	}
}

func (s *memStore) Get(key string, v any) (bool, error) {
	s.mu.RLock()
	b, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, v)
}

func (s *memStore) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = b
	fns := s.snapshot(key)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	fns := s.snapshot(key)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return nil
}

func (s *memStore) Subscribe(key string, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[key] == nil {
		s.subs[key] = map[int]func(){}
	}
	id := s.next
	s.next++
	s.subs[key][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}
}

// snapshot copies the key's subscribers; callers invoke them after
// releasing the lock.
func (s *memStore) snapshot(key string) []func() {
	fns := make([]func(), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	return fns
}
