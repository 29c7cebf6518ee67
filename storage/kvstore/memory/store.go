package memory

import (
	"context"
	"sync"

	"github.com/trezcool/hrms/core"
)

// Store keeps encoded slots in a map. Values are copied on every Load and Save,
// so callers never share memory with the store.
type Store struct {
	sync.RWMutex
	slots map[string][]byte
}

var _ core.Store = (*Store)(nil) // interface compliance check

func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, key string, dest interface{}) error {
	s.RLock()
	data, ok := s.slots[key]
	s.RUnlock()

	if !ok {
		return core.ErrSlotNotFound
	}
	return core.Decode(key, data, dest)
}

func (s *Store) Save(_ context.Context, key string, v interface{}) error {
	data, err := core.Encode(v)
	if err != nil {
		return err
	}
	s.SetRaw(key, data)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.slots, key)
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	_, ok := s.slots[key]
	return ok, nil
}

// SetRaw stores data under key as-is.
func (s *Store) SetRaw(key string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)

	s.Lock()
	defer s.Unlock()
	s.slots[key] = cp
}

// Raw returns the content stored under key.
func (s *Store) Raw(key string) ([]byte, bool) {
	s.RLock()
	defer s.RUnlock()
	data, ok := s.slots[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}
