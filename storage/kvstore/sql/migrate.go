package sqlstore

import (
	"embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

var (
	defaultGooseRunFunc = goose.RunFS
	gooseRunFunc        = defaultGooseRunFunc // mockable
)

func migrate(db *sqlx.DB, driver string) error {
	if err := goose.SetDialect(driver); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := gooseRunFunc("up", db.DB, migrations, migrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Migrate runs a goose command (up, up-by-one, up-to VERSION, down, down-to VERSION, redo, status, version)
// against the embedded migrations.
func (s *Store) Migrate(command string, args ...string) error {
	return gooseRunFunc(command, s.db.DB, migrations, migrationsDir, args...)
}
