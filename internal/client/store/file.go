package store

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// fileStore persists the key space as one JSON object on disk, read on
// open and rewritten on every Set, the way localStorage survives page
// loads. Not synchronized across processes; last writer wins.
type fileStore struct {
	path string
	mu   sync.Mutex
	mem  Store
}

func NewFile(path string) (Store, error) {
	fs := &fileStore{path: path, mem: NewMemory()}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs, nil
		}
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		// corrupt file: start empty rather than fail the client
		return fs, nil
	}
	for k, v := range raw {
		var any json.RawMessage = v
		if err := fs.mem.Set(k, any); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func (s *fileStore) Get(key string, v any) (bool, error) {
	var raw json.RawMessage
	ok, err := s.mem.Get(key, &raw)
	if !ok || err != nil {
		return ok, err
	}
	return true, json.Unmarshal(raw, v)
}

func (s *fileStore) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.mem.Set(key, json.RawMessage(b)); err != nil {
		return err
	}
	return s.flush()
}

func (s *fileStore) Delete(key string) error {
	if err := s.mem.Delete(key); err != nil {
		return err
	}
	return s.flush()
}

func (s *fileStore) Subscribe(key string, fn func()) func() {
	return s.mem.Subscribe(key, fn)
}

func (s *fileStore) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]json.RawMessage{}
	for _, key := range []string{KeyCart, KeyWishlist, KeyPending, KeyOrders} {
		var raw json.RawMessage
		if ok, err := s.mem.Get(key, &raw); err == nil && ok {
			out[key] = raw
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0644)
}
