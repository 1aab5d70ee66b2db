package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/usersvc/internal/logging"
	"github.com/google/uuid"
)

// CreateUser validates in, rejects an email that is already taken, and
// stores the new user.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if err := ValidateUser(in); err != nil {
		return nil, err
	}
	nu := in.toNewUser()

	taken, err := s.store.EmailTaken(ctx, nu.Email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailExists
	}

	u, err := s.store.Insert(ctx, nu)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Debug("user created", "id", u.ID)
	return u, nil
}

// UpdateUser replaces name and email of an existing user. The body is
// validated before the ID is looked at.
func (s *Service) UpdateUser(ctx context.Context, rawID string, in UserInput) (*User, error) {
	if err := ValidateUser(in); err != nil {
		return nil, err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	nu := in.toNewUser()

	taken, err := s.store.EmailTaken(ctx, nu.Email, id)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailExists
	}

	u, err := s.store.Update(ctx, id, nu)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	logging.FromContext(ctx).Debug("user updated", "id", u.ID)
	return u, nil
}

// DeleteUser removes a user by its client-supplied ID.
func (s *Service) DeleteUser(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	logging.FromContext(ctx).Debug("user deleted", "id", id)
	return nil
}
