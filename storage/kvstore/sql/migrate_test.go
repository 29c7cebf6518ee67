package sqlstore

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/hrms/core"
)

func newMigrateTestStore(t *testing.T) *Store {
	store, err := Open(core.EngineSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() unexpected error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Migrate_Dispatch(t *testing.T) {
	store := newMigrateTestStore(t)

	var gotCommand, gotDir string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		gotCommand, gotDir, gotArgs = command, dir, args
		return nil
	}
	defer func() { gooseRunFunc = defaultGooseRunFunc }()

	if err := store.Migrate("up-to", "1"); err != nil {
		t.Fatalf("Migrate() unexpected error = %v", err)
	}
	assert.Equal(t, "up-to", gotCommand)
	assert.Equal(t, migrationsDir, gotDir)
	assert.Equal(t, []string{"1"}, gotArgs)
}

func TestStore_Migrate(t *testing.T) {
	store := newMigrateTestStore(t)

	tableExists := func() bool {
		_, err := store.Exists(context.Background(), core.KeyUsers)
		return err == nil
	}

	tests := []struct {
		name       string
		command    string
		args       []string
		wantErrStr string
		wantTable  bool
	}{
		{name: "unknown command", command: "lol", wantErrStr: "\"lol\": no such command", wantTable: true},
		{name: "up-to: non-int arg", command: "up-to", args: []string{"lol"}, wantErrStr: "version must be a number (got 'lol')", wantTable: true},
		{name: "up (no-op)", command: "up", wantTable: true},
		{name: "status", command: "status", wantTable: true},
		{name: "redo", command: "redo", wantTable: true},
		{name: "down", command: "down", wantTable: false},
		{name: "up-by-one", command: "up-by-one", wantTable: true},
		{name: "down-to", command: "down-to", args: []string{"0"}, wantTable: false},
		{name: "up-to", command: "up-to", args: []string{"1"}, wantTable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Migrate(tt.command, tt.args...)
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("Migrate() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			} else if err != nil {
				t.Errorf("Migrate() unexpected error = %v", err)
			}
			if got := tableExists(); got != tt.wantTable {
				t.Errorf("table exists = %v, want %v", got, tt.wantTable)
			}
		})
	}
}
