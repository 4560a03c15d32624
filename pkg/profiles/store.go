// Package profiles stores member accounts: login e-mail, display name,
// role and password hash. The same SQL store runs on a local SQLite file or
// on the hosted Postgres profiles table.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("profile not found")
	ErrExists   = errors.New("profile already exists")
)

// Profile is one row of the profiles table.
type Profile struct {
	ID           string
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the profile persistence contract used by the auth provider.
type Store interface {
	ByEmail(ctx context.Context, email string) (Profile, error)
	ByID(ctx context.Context, id string) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Close() error
}

// Dialect selects placeholder syntax and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (creating if needed) a SQLite profile database.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, DialectSQLite)
}

// OpenPostgres connects to a Postgres database through pgx.
func OpenPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(4)
	return newSQLStore(ctx, db, DialectPostgres)
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying handle for other tables kept in the same
// database. It is closed by Close.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Dialect reports which database the store runs on.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

const schema = `CREATE TABLE IF NOT EXISTS profiles (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'medlem',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
)`

func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}
	return nil
}

// rebind rewrites '?' placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
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

const selectColumns = `SELECT id, email, display_name, role, password_hash, created_at FROM profiles`

func (s *SQLStore) ByEmail(ctx context.Context, email string) (Profile, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectColumns+` WHERE email = ?`), normalizeEmail(email))
	return scanProfile(row)
}

func (s *SQLStore) ByID(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectColumns+` WHERE id = ?`), id)
	return scanProfile(row)
}

// Create inserts p. ID and CreatedAt are filled in when empty.
func (s *SQLStore) Create(ctx context.Context, p Profile) (Profile, error) {
	p.Email = normalizeEmail(p.Email)
	if p.Email == "" {
		return Profile{}, fmt.Errorf("create profile: empty email")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Role == "" {
		p.Role = "medlem"
	}

	if _, err := s.ByEmail(ctx, p.Email); err == nil {
		return Profile{}, fmt.Errorf("create profile %s: %w", p.Email, ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO profiles
		(id, email, display_name, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		p.ID, p.Email, p.DisplayName, p.Role, p.PasswordHash, p.CreatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
