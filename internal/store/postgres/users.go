package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/usersvc/internal/core"
)

// UserStore implements core.Store using PostgreSQL.
type UserStore struct{ db *DB }

var _ core.Store = (*UserStore)(nil)

// NewUserStore constructs a user store.
func NewUserStore(db *DB) *UserStore { return &UserStore{db: db} }

// FindByID selects a user by ID.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	const q = `
SELECT id, name, email, created_at
FROM users WHERE id = $1`
	var u core.User
	err := s.db.Pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// List returns a page of users in insertion order.
func (s *UserStore) List(ctx context.Context, offset, limit int) ([]core.User, error) {
	const q = `
SELECT id, name, email, created_at
FROM users ORDER BY seq LIMIT $1 OFFSET $2`
	rows, err := s.db.Pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return scanUsers(rows)
}

// Count returns the number of users.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// EmailTaken reports whether a user other than exclude holds email.
func (s *UserStore) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	const q = `
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var taken bool
	if err := s.db.Pool.QueryRow(ctx, q, email, exclude).Scan(&taken); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// ExistingEmails returns the members of emails that are already stored.
func (s *UserStore) ExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	rows, err := s.db.Pool.Query(ctx, `SELECT email FROM users WHERE email = ANY($1)`, emails)
	if err != nil {
		return nil, fmt.Errorf("select emails: %w", err)
	}
	return scanEmails(rows)
}

// AllEmails returns every stored email.
func (s *UserStore) AllEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT email FROM users`)
	if err != nil {
		return nil, fmt.Errorf("select emails: %w", err)
	}
	return scanEmails(rows)
}

// Insert adds one user.
func (s *UserStore) Insert(ctx context.Context, nu core.NewUser) (*core.User, error) {
	const q = `
INSERT INTO users (id, name, email)
VALUES ($1, $2, $3)
RETURNING id, name, email, created_at`
	var u core.User
	err := s.db.Pool.QueryRow(ctx, q, uuid.New(), nu.Name, nu.Email).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, core.ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// InsertMany adds users in a single statement. Rows whose email is already
// taken, including by an earlier row of the same batch, are skipped.
func (s *UserStore) InsertMany(ctx context.Context, users []core.NewUser) ([]core.User, error) {
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]string, len(users))
	names := make([]string, len(users))
	emails := make([]string, len(users))
	for i, u := range users {
		ids[i] = uuid.NewString()
		names[i] = u.Name
		emails[i] = u.Email
	}

	const q = `
INSERT INTO users (id, name, email)
SELECT * FROM unnest($1::uuid[], $2::text[], $3::text[])
ON CONFLICT DO NOTHING
RETURNING id, name, email, created_at`
	rows, err := s.db.Pool.Query(ctx, q, ids, names, emails)
	if err != nil {
		return nil, fmt.Errorf("insert users: %w", err)
	}
	return scanUsers(rows)
}

// Update replaces name and email of a user.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, nu core.NewUser) (*core.User, error) {
	const q = `
UPDATE users SET name = $2, email = $3
WHERE id = $1
RETURNING id, name, email, created_at`
	var u core.User
	err := s.db.Pool.QueryRow(ctx, q, id, nu.Name, nu.Email).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, core.ErrNotFound
	case isUniqueViolation(err):
		return nil, core.ErrEmailExists
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Ping checks connectivity.
func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}

func scanUsers(rows pgx.Rows) ([]core.User, error) {
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

func scanEmails(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read emails: %w", err)
	}
	return emails, nil
}
