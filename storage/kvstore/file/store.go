package file

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
)

const ext = ".json"

// Store persists each slot as <dir>/<key>.json. Writes go to a temp file
// which is then renamed over the slot, so a crash never leaves a half-written slot.
type Store struct {
	mu  sync.RWMutex
	dir string
}

var _ core.Store = (*Store)(nil) // interface compliance check

// Open returns a Store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+ext)
}

func (s *Store) Load(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	data, err := os.ReadFile(s.path(key))
	s.mu.RUnlock()

	if os.IsNotExist(err) {
		return core.ErrSlotNotFound
	} else if err != nil {
		return errors.Wrapf(err, "reading slot %s", key)
	}
	return core.Decode(key, data, dest)
}

func (s *Store) Save(_ context.Context, key string, v interface{}) error {
	data, err := core.Encode(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op once renamed

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing slot %s", key)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "syncing slot %s", key)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing slot %s", key)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path(key)), "renaming slot %s", key)
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "deleting slot %s", key)
	}
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.path(key))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	}
	return false, errors.Wrapf(err, "checking slot %s", key)
}
