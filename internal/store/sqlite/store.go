// Package sqlitestore implements core.Store on an embedded SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/JonMunkholm/usersvc/internal/core"
)

// Store is a core.Store backed by SQLite. SQLite allows a single writer, so
// the pool is limited to one connection.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

// Open opens the database at path. ":memory:" gives a private in-memory
// database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// DB exposes the handle for migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

const userColumns = `id, name, email, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var (
		u       core.User
		id      string
		created int64
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &created); err != nil {
		return u, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return u, fmt.Errorf("stored id %q: %w", id, err)
	}
	u.ID = parsed
	u.CreatedAt = time.UnixMicro(created).UTC()
	return u, nil
}

// FindByID selects a user by ID.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// List returns a page of users in insertion order.
func (s *Store) List(ctx context.Context, offset, limit int) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY rowid LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// EmailTaken reports whether a user other than exclude holds email.
func (s *Store) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = ? AND id <> ?)`, email, exclude.String()).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// sqliteMaxVars stays under SQLite's default bound-parameter limit.
const sqliteMaxVars = 900

// ExistingEmails returns the members of emails that are already stored.
func (s *Store) ExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	var found []string
	for start := 0; start < len(emails); start += sqliteMaxVars {
		chunk := emails[start:min(start+sqliteMaxVars, len(emails))]

		args := make([]any, len(chunk))
		for i, e := range chunk {
			args[i] = e
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		got, err := s.queryEmails(ctx, `SELECT email FROM users WHERE email IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, err
		}
		found = append(found, got...)
	}
	return found, nil
}

// AllEmails returns every stored email.
func (s *Store) AllEmails(ctx context.Context) ([]string, error) {
	return s.queryEmails(ctx, `SELECT email FROM users`)
}

func (s *Store) queryEmails(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func newRecord(nu core.NewUser) core.User {
	return core.User{
		ID:        uuid.New(),
		Name:      nu.Name,
		Email:     nu.Email,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// Insert adds one user.
func (s *Store) Insert(ctx context.Context, nu core.NewUser) (*core.User, error) {
	u := newRecord(nu)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, u.CreatedAt.UnixMicro())
	if isUniqueViolation(err) {
		return nil, core.ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// InsertMany adds users in one transaction. Rows whose email is already
// taken, including by an earlier row of the same batch, are skipped.
func (s *Store) InsertMany(ctx context.Context, users []core.NewUser) ([]core.User, error) {
	if len(users) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	created := make([]core.User, 0, len(users))
	for _, nu := range users {
		u := newRecord(nu)
		res, err := stmt.ExecContext(ctx, u.ID.String(), u.Name, u.Email, u.CreatedAt.UnixMicro())
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			created = append(created, u)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// Update replaces name and email of a user.
func (s *Store) Update(ctx context.Context, id uuid.UUID, nu core.NewUser) (*core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE users SET name = ?, email = ? WHERE id = ? RETURNING `+userColumns,
		nu.Name, nu.Email, id.String())
	u, err := scanUser(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, core.ErrNotFound
	case isUniqueViolation(err):
		return nil, core.ErrEmailExists
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

// Delete removes a user.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
