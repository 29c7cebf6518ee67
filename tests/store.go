package testutil

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/trezcool/hrms/core"
)

type storeItem struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// TestStore runs the core.Store contract against the store returned by newStore.
// setRaw must write content under key bypassing encoding.
func TestStore(t *testing.T, newStore func(t *testing.T) core.Store, setRaw func(t *testing.T, store core.Store, key, content string)) {
	ctx := context.Background()

	t.Run("load absent slot", func(t *testing.T) {
		store := newStore(t)
		var items []storeItem
		if err := store.Load(ctx, "absent", &items); !errors.Is(err, core.ErrSlotNotFound) {
			t.Errorf("Load() error = %v, wantErr %v", err, core.ErrSlotNotFound)
		}
		if exists, err := store.Exists(ctx, "absent"); err != nil || exists {
			t.Errorf("Exists() = %v, %v; want false, nil", exists, err)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		store := newStore(t)
		want := []storeItem{{ID: "1", Tags: []string{"a"}}, {ID: "2"}}
		if err := store.Save(ctx, core.KeyUsers, want); err != nil {
			t.Fatalf("Save() unexpected error = %v", err)
		}

		// mutating the saved value must not leak into the store
		want[0].Tags[0] = "mutated"

		var got []storeItem
		if err := store.Load(ctx, core.KeyUsers, &got); err != nil {
			t.Fatalf("Load() unexpected error = %v", err)
		}
		wantStored := []storeItem{{ID: "1", Tags: []string{"a"}}, {ID: "2"}}
		if !reflect.DeepEqual(got, wantStored) {
			t.Errorf("Load() = %+v, want %+v", got, wantStored)
		}
		if exists, err := store.Exists(ctx, core.KeyUsers); err != nil || !exists {
			t.Errorf("Exists() = %v, %v; want true, nil", exists, err)
		}
	})

	t.Run("save overwrites", func(t *testing.T) {
		store := newStore(t)
		_ = store.Save(ctx, "slot", []storeItem{{ID: "1"}, {ID: "2"}})
		if err := store.Save(ctx, "slot", []storeItem{}); err != nil {
			t.Fatalf("Save() unexpected error = %v", err)
		}
		var got []storeItem
		if err := store.Load(ctx, "slot", &got); err != nil {
			t.Fatalf("Load() unexpected error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Load() = %+v, want empty", got)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := newStore(t)
		_ = store.Save(ctx, core.KeySession, map[string]bool{"isAuthenticated": true})
		for i := 0; i < 2; i++ {
			if err := store.Delete(ctx, core.KeySession); err != nil {
				t.Errorf("Delete() #%d unexpected error = %v", i+1, err)
			}
		}
		if exists, _ := store.Exists(ctx, core.KeySession); exists {
			t.Error("Exists() = true after Delete()")
		}
	})

	t.Run("corrupt slot", func(t *testing.T) {
		store := newStore(t)
		setRaw(t, store, core.KeyAttendance, "{not json")
		var got []storeItem
		if err := store.Load(ctx, core.KeyAttendance, &got); !errors.Is(err, core.ErrCorruptSlot) {
			t.Errorf("Load() error = %v, wantErr %v", err, core.ErrCorruptSlot)
		}
	})

	t.Run("scoped keys", func(t *testing.T) {
		store := newStore(t)
		_ = store.Save(ctx, core.KeySession+":tab-1", "one")
		_ = store.Save(ctx, core.KeySession+":tab-2", "two")
		var got string
		if err := store.Load(ctx, core.KeySession+":tab-1", &got); err != nil || got != "one" {
			t.Errorf("Load() = %q, %v; want %q, nil", got, err, "one")
		}
	})
}
