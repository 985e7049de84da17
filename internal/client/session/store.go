// Package session keeps the CLI session (token and last known user) in a
// local SQLite file between runs.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/connectlink/internal/client/migrations"
	"github.com/dmitrijs2005/connectlink/internal/client/models"
	"github.com/dmitrijs2005/connectlink/internal/dbx"
	"github.com/dmitrijs2005/connectlink/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

type Store struct {
	db *sql.DB
}

// gooseUpContext is a seam for tests.
var gooseUpContext = goose.UpContext

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite file at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases consistent
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating session store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func get(ctx context.Context, db dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, true, nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// Save stores the token and user together.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyToken, sess.Token); err != nil {
			return err
		}
		return set(ctx, tx, keyUser, string(user))
	})
}

// SaveUser replaces the cached user, keeping the token.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	user, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return set(ctx, s.db, keyUser, string(user))
}

// Load returns the stored session, or nil when there is none.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	token, ok, err := get(ctx, s.db, keyToken)
	if err != nil || !ok || token == "" {
		return nil, err
	}

	sess := &models.Session{Token: token}
	raw, ok, err := get(ctx, s.db, keyUser)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &sess.User); err != nil {
			return nil, fmt.Errorf("corrupt cached user: %w", err)
		}
	}
	return sess, nil
}

// Clear forgets the session.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
