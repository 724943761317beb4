// Package session persists the (token, username) pair that identifies the
// logged-in user between runs of the client.
//
// The pair is written and cleared as a unit: Save writes both keys inside one
// transaction and Load reports a half-present pair as no session at all.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/snoozer/internal/client/migrations"
	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// Credentials is the persisted half of a session.
type Credentials struct {
	Token    string
	Username string
}

// Store is the session store backed by SQLite.
type Store struct {
	db *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the session database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// a single connection keeps ":memory:" DSNs pointing at one database
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save persists token and username together.
func (s *Store) Save(ctx context.Context, token, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUsername, username)
	})
}

// Load returns the stored credentials. ok is false unless both keys are
// present and non-empty.
func (s *Store) Load(ctx context.Context) (Credentials, bool, error) {
	repo := NewSQLiteRepository(s.db)

	token, hasToken, err := repo.Get(ctx, KeyToken)
	if err != nil {
		return Credentials{}, false, err
	}
	username, hasUsername, err := repo.Get(ctx, KeyUsername)
	if err != nil {
		return Credentials{}, false, err
	}

	if !hasToken || !hasUsername || token == "" || username == "" {
		return Credentials{}, false, nil
	}
	return Credentials{Token: token, Username: username}, true, nil
}

// Clear removes both keys of the stored session. It is the only logout
// primitive.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUsername)
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
