// Package session persists the CLI login between runs in a local SQLite
// file, so a restarted client can resume with the token it already holds.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/deckexc/internal/client/session/migrations"
	"github.com/dmitrijs2005/deckexc/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	keyEmail  = "email"
	keyUserID = "user_id"
	keyToken  = "token"
)

// Session is what the client remembers about the signed-in user.
type Session struct {
	Email  string
	UserID string
	Token  string
}

// Empty reports whether no user is signed in.
func (s Session) Empty() bool {
	return s.Token == ""
}

type Store struct {
	db *sql.DB
}

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the session file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored session; a zero Session when nobody is signed in.
func (s *Store) Load(ctx context.Context) (Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session`)
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	var sess Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, fmt.Errorf("failed to scan session row: %w", err)
		}
		switch key {
		case keyEmail:
			sess.Email = value
		case keyUserID:
			sess.UserID = value
		case keyToken:
			sess.Token = value
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return sess, nil
}

// Save replaces the stored session with sess.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := clearAll(ctx, tx); err != nil {
			return err
		}
		for key, value := range map[string]string{
			keyEmail:  sess.Email,
			keyUserID: sess.UserID,
			keyToken:  sess.Token,
		} {
			if err := set(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear forgets the stored session.
func (s *Store) Clear(ctx context.Context) error {
	return clearAll(ctx, s.db)
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func clearAll(ctx context.Context, db dbx.DBTX) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
