package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kat-co/vala"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
)

const (
	loadQuery   = "SELECT content FROM kv_slots WHERE slot_key = ?"
	existsQuery = "SELECT COUNT(*) FROM kv_slots WHERE slot_key = ?"
	deleteQuery = "DELETE FROM kv_slots WHERE slot_key = ?"
	saveQuery   = `INSERT INTO kv_slots (slot_key, content) VALUES (?, ?)
		ON CONFLICT (slot_key) DO UPDATE SET content = excluded.content`
)

// Store keeps each slot as one row of the kv_slots table.
// Supported drivers: sqlite3 and postgres.
type Store struct {
	db *sqlx.DB
}

var _ core.Store = (*Store)(nil) // interface compliance check

// Open connects to the database, waits for it to be ready and migrates it.
func Open(driver, dsn string) (*Store, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(driver, "driver"),
		vala.StringNotEmpty(dsn, "dsn"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "opening sql store")
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == core.EngineSQLite {
		db.SetMaxOpenConns(1) // a :memory: database only lives in its own connection
	}

	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = migrate(db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 20
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, key string, dest interface{}) error {
	var content string
	err := s.db.GetContext(ctx, &content, s.db.Rebind(loadQuery), key)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrSlotNotFound
	} else if err != nil {
		return errors.Wrapf(err, "loading slot %s", key)
	}
	return core.Decode(key, []byte(content), dest)
}

func (s *Store) Save(ctx context.Context, key string, v interface{}) error {
	data, err := core.Encode(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(saveQuery), key, string(data))
	return errors.Wrapf(err, "saving slot %s", key)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(deleteQuery), key)
	return errors.Wrapf(err, "deleting slot %s", key)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(existsQuery), key); err != nil {
		return false, errors.Wrapf(err, "checking slot %s", key)
	}
	return count > 0, nil
}

// SetRaw stores content under key as-is.
func (s *Store) SetRaw(ctx context.Context, key string, content string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(saveQuery), key, content)
	return errors.Wrapf(err, "saving slot %s", key)
}
