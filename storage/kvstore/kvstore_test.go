package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/trezcool/hrms/core"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		conf    core.StoreConfig
		wantErr error
	}{
		{name: "memory", conf: core.StoreConfig{Engine: core.EngineMemory}},
		{name: "file", conf: core.StoreConfig{Engine: core.EngineFile, Dir: t.TempDir()}},
		{name: "sqlite", conf: core.StoreConfig{Engine: core.EngineSQLite, DSN: ":memory:"}},
		{name: "unknown engine", conf: core.StoreConfig{Engine: "lol"}, wantErr: ErrUnknownEngine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := Open(ctx, tt.conf)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() unexpected error = %v", err)
			}
			defer func() {
				if err := closeStore(); err != nil {
					t.Errorf("close unexpected error = %v", err)
				}
			}()

			if err = store.Save(ctx, core.KeyUsers, []string{"a"}); err != nil {
				t.Fatalf("Save() unexpected error = %v", err)
			}
			if ok, err := store.Exists(ctx, core.KeyUsers); err != nil || !ok {
				t.Errorf("Exists() = %v, %v; want true", ok, err)
			}
		})
	}
}
