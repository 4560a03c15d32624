package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SQLStore keeps sessions in a table next to the member profiles, so a
// portal without Redis still finds its session after a restart. The
// database handle is shared and stays open after Close.
type SQLStore struct {
	db       *sql.DB
	postgres bool
	now      func() time.Time
}

const sessionSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	email      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL
)`

// NewSQLStore creates the sessions table on db if needed. dialect is
// "sqlite" or "postgres" and only picks the placeholder style.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect string) (*SQLStore, error) {
	s := &SQLStore{db: db, postgres: dialect == "postgres", now: time.Now}
	if _, err := db.ExecContext(ctx, sessionSchema); err != nil {
		return nil, fmt.Errorf("migrate sessions: %w", err)
	}
	return s, nil
}

func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Save(ctx context.Context, token string, rec Record) error {
	if !rec.ExpiresAt.After(s.now()) {
		return fmt.Errorf("save session: already expired at %s", rec.ExpiresAt.Format(time.RFC3339))
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO sessions (token, user_id, email, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (token) DO UPDATE SET user_id = excluded.user_id, email = excluded.email,
			created_at = excluded.created_at, expires_at = excluded.expires_at`),
		token, rec.UserID, rec.Email, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLStore) Lookup(ctx context.Context, token string) (Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT user_id, email, created_at, expires_at FROM sessions WHERE token = ?`), token).
		Scan(&rec.UserID, &rec.Email, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("lookup session: %w", err)
	}
	if !s.now().Before(rec.ExpiresAt) {
		if err := s.Revoke(ctx, token); err != nil {
			return Record{}, err
		}
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *SQLStore) Revoke(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE token = ?`), token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Close leaves the shared database open; its owner closes it.
func (s *SQLStore) Close() error { return nil }
