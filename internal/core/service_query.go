package core

import (
	"context"
	"fmt"
	"math"
)

// ListUsers returns one page of users. A page or limit below 1 falls back to
// page 1 and the configured default page size. A page whose offset does not
// fit in an int lies past any store and comes back empty.
func (s *Service) ListUsers(ctx context.Context, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.DefaultPageSize
	}

	var users []User
	if offset, ok := pageOffset(page, limit); ok {
		var err error
		users, err = s.store.List(ctx, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return &UserPage{
		Users:       users,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
		TotalUsers:  total,
	}, nil
}

// pageOffset is (page-1)*limit for page, limit >= 1. ok is false when the
// product overflows.
func pageOffset(page, limit int) (offset int, ok bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// totalPages is ceil(total/limit) for limit >= 1.
func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// GetUser loads a user by its client-supplied ID.
func (s *Service) GetUser(ctx context.Context, rawID string) (*User, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// CountUsers returns the number of stored users.
func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
