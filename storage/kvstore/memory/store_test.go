package memory

import (
	"testing"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/tests"
)

func TestStore(t *testing.T) {
	testutil.TestStore(t,
		func(t *testing.T) core.Store { return New() },
		func(t *testing.T, store core.Store, key, content string) {
			store.(*Store).SetRaw(key, []byte(content))
		},
	)
}
