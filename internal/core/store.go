package core

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract for user records.
//
// Implementations translate driver errors into the sentinels of this
// package: a missing row is ErrNotFound and a unique violation on email is
// ErrEmailExists. Everything else is returned wrapped.
type Store interface {
	// FindByID loads one user.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// List returns up to limit users starting at offset, in insertion order.
	List(ctx context.Context, offset, limit int) ([]User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)

	// EmailTaken reports whether a user other than exclude holds email.
	// Pass uuid.Nil to check against every user.
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)

	// ExistingEmails returns the subset of emails already stored.
	ExistingEmails(ctx context.Context, emails []string) ([]string, error)

	// AllEmails returns every stored email.
	AllEmails(ctx context.Context) ([]string, error)

	// Insert writes one user and returns it with its assigned ID.
	Insert(ctx context.Context, u NewUser) (*User, error)

	// InsertMany writes users without stopping at the first failure: a row
	// that violates a constraint is skipped and the rest are still written.
	// It returns only the rows that were written.
	InsertMany(ctx context.Context, users []NewUser) ([]User, error)

	// Update replaces name and email of an existing user.
	Update(ctx context.Context, id uuid.UUID, u NewUser) (*User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
