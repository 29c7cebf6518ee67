package mongostore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/tests"
)

// set HRMS_TEST_MONGO_URI (e.g. mongodb://localhost:27017) to run these tests
const uriEnv = "HRMS_TEST_MONGO_URI"

func newTestStore(t *testing.T) core.Store {
	uri := os.Getenv(uriEnv)
	if uri == "" {
		t.Skipf("%s not set", uriEnv)
	}

	ctx := context.Background()
	database := "hrms_test_" + uuid.New().String()[:8]
	store, err := Open(ctx, uri, database)
	if err != nil {
		t.Fatalf("Open() unexpected error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.client.Database(database).Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func TestStore(t *testing.T) {
	testutil.TestStore(t, newTestStore, func(t *testing.T, store core.Store, key, content string) {
		if err := store.(*Store).SetRaw(context.Background(), key, content); err != nil {
			t.Fatalf("SetRaw() unexpected error = %v", err)
		}
	})
}
