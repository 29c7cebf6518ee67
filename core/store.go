package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Slot keys
const (
	KeyUsers         = "hrms_users"
	KeyAttendance    = "hrms_attendance"
	KeyLeaveRequests = "hrms_leave_requests"
	KeySession       = "hrms_auth"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrCorruptSlot  = errors.New("slot content is corrupt")
)

// Store is a key-namespaced persistence of JSON-serializable values.
// Save always overwrites the whole slot; there are no partial or merge writes.
type Store interface {
	// Load decodes the slot into dest. It returns ErrSlotNotFound if the slot is absent
	// and an error wrapping ErrCorruptSlot if the stored content cannot be decoded into dest.
	Load(ctx context.Context, key string, dest interface{}) error
	Save(ctx context.Context, key string, v interface{}) error
	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// LoadCollection loads the collection stored under key into dest (a pointer to a slice).
// An absent slot leaves dest untouched, i.e. an empty collection.
func LoadCollection(ctx context.Context, store Store, key string, dest interface{}) error {
	if err := store.Load(ctx, key, dest); err != nil && !errors.Is(err, ErrSlotNotFound) {
		return errors.Wrapf(err, "loading %s", key)
	}
	return nil
}

// Encode marshals v for storage.
func Encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding slot")
	}
	return data, nil
}

// Decode unmarshals stored content into dest, mapping failures to ErrCorruptSlot.
func Decode(key string, data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(ErrCorruptSlot, "%s: %v", key, err)
	}
	return nil
}
