package kvstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/storage/kvstore/file"
	"github.com/trezcool/hrms/storage/kvstore/memory"
	mongostore "github.com/trezcool/hrms/storage/kvstore/mongo"
	sqlstore "github.com/trezcool/hrms/storage/kvstore/sql"
)

var ErrUnknownEngine = errors.New("unknown storage engine")

// Open returns the durable store selected by conf.Engine and a func releasing it.
func Open(ctx context.Context, conf core.StoreConfig) (core.Store, func() error, error) {
	noop := func() error { return nil }

	switch conf.Engine {
	case core.EngineMemory:
		return memory.New(), noop, nil
	case core.EngineFile:
		store, err := file.Open(conf.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case core.EngineSQLite, core.EnginePostgres:
		if conf.Engine == core.EnginePostgres && strings.Contains(conf.DSN, "://") {
			if err := sqlstore.CreateIfNotExist(conf.DSN); err != nil {
				return nil, nil, err
			}
		}
		store, err := sqlstore.Open(conf.Engine, conf.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case core.EngineMongo:
		store, err := mongostore.Open(ctx, conf.DSN, conf.Database)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return store.Close(context.Background()) }, nil
	}
	return nil, nil, errors.Wrap(ErrUnknownEngine, conf.Engine)
}
