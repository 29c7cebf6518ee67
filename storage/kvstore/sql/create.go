package sqlstore

import (
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
)

var ErrNotPostgresURL = errors.New("dsn must be a postgres:// URL naming a database")

// CreateIfNotExist creates the database named by a postgres URL dsn, connecting
// to the maintenance database of the same server with the same credentials.
func CreateIfNotExist(dsn string) error {
	adminDSN, dbName, err := maintenanceDSN(dsn)
	if err != nil {
		return err
	}

	db, err := sqlx.Open(core.EnginePostgres, adminDSN)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	// check if DB exists
	var exists bool
	if err = db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName); err != nil {
		return errors.Wrap(err, "checking DB")
	}

	// create DB if not exist
	if !exists {
		if _, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// maintenanceDSN returns dsn pointing at the "postgres" database, and the database dsn names.
func maintenanceDSN(dsn string) (string, string, error) {
	u, err := url.Parse(dsn)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return "", "", ErrNotPostgresURL
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" || strings.Contains(dbName, "/") {
		return "", "", ErrNotPostgresURL
	}
	u.Path = "/postgres"
	return u.String(), dbName, nil
}
