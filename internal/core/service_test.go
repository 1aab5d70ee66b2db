package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/JonMunkholm/usersvc/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.UsersConfig {
	return config.UsersConfig{
		DefaultPageSize:   10,
		BulkMax:           10000,
		InsertBatchSize:   1000,
		SeedDefaultCount:  5000,
		BulkMaxConcurrent: 2,
		BulkMaxWait:       time.Second,
	}
}

func seedUsers(n int) []NewUser {
	users := make([]NewUser, n)
	for i := range users {
		users[i] = NewUser{Name: fmt.Sprintf("User %03d", i), Email: fmt.Sprintf("user%03d@example.com", i)}
	}
	return users
}

func TestNewService_AppliesDefaults(t *testing.T) {
	svc := NewService(newMemStore(), config.UsersConfig{})

	assert.Equal(t, DefaultPageSize, svc.cfg.DefaultPageSize)
	assert.Equal(t, DefaultBulkMax, svc.cfg.BulkMax)
	assert.Equal(t, DefaultInsertBatchSize, svc.cfg.InsertBatchSize)
	assert.Equal(t, DefaultSeedCount, svc.cfg.SeedDefaultCount)
	assert.Equal(t, DefaultMaxConcurrentBulk, svc.Limiter().Status().MaxConcurrent)
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "123", "not-a-uuid", "507f1f77bcf86cd799439011"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, "raw %q", raw)
	}
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(seedUsers(25)...), testConfig())

	tests := []struct {
		name        string
		page, limit int
		wantLen     int
		wantFirst   string
		wantPages   int
		wantCurrent int
	}{
		{name: "defaults", page: 0, limit: 0, wantLen: 10, wantFirst: "user000@example.com", wantPages: 3, wantCurrent: 1},
		{name: "second page", page: 2, limit: 10, wantLen: 10, wantFirst: "user010@example.com", wantPages: 3, wantCurrent: 2},
		{name: "partial last page", page: 3, limit: 10, wantLen: 5, wantFirst: "user020@example.com", wantPages: 3, wantCurrent: 3},
		{name: "page 3 limit 7 skips 14", page: 3, limit: 7, wantLen: 7, wantFirst: "user014@example.com", wantPages: 4, wantCurrent: 3},
		{name: "negative falls back", page: -4, limit: -1, wantLen: 10, wantFirst: "user000@example.com", wantPages: 3, wantCurrent: 1},
		{name: "past the end", page: 9, limit: 10, wantLen: 0, wantPages: 3, wantCurrent: 9},
		{name: "max limit", page: 1, limit: math.MaxInt, wantLen: 25, wantFirst: "user000@example.com", wantPages: 1, wantCurrent: 1},
		{name: "max limit second page", page: 2, limit: math.MaxInt, wantLen: 0, wantPages: 1, wantCurrent: 2},
		{name: "offset overflows", page: math.MaxInt, limit: 10, wantLen: 0, wantPages: 3, wantCurrent: math.MaxInt},
		{name: "both max", page: math.MaxInt, limit: math.MaxInt, wantLen: 0, wantPages: 1, wantCurrent: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListUsers(ctx, tt.page, tt.limit)
			require.NoError(t, err)

			assert.Len(t, page.Users, tt.wantLen)
			assert.NotNil(t, page.Users)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, page.Users[0].Email)
			}
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantCurrent, page.CurrentPage)
			assert.EqualValues(t, 25, page.TotalUsers)
		})
	}
}

func TestListUsers_EmptyStore(t *testing.T) {
	svc := NewService(newMemStore(), testConfig())

	page, err := svc.ListUsers(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, 0, page.TotalPages)
	assert.EqualValues(t, 0, page.TotalUsers)
}

func TestListUsers_StoreError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	svc := NewService(store, testConfig())

	_, err := svc.ListUsers(context.Background(), 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 1429, totalPages(10000, 7))
	assert.Equal(t, 1, totalPages(3, math.MaxInt))
	assert.Equal(t, 1, totalPages(math.MaxInt64, math.MaxInt))
	assert.Equal(t, 2, totalPages(math.MaxInt64, math.MaxInt-1))
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		page, limit int
		want        int
		wantOK      bool
	}{
		{page: 1, limit: 10, want: 0, wantOK: true},
		{page: 3, limit: 7, want: 14, wantOK: true},
		{page: 2, limit: math.MaxInt, want: math.MaxInt, wantOK: true},
		{page: 3, limit: math.MaxInt, wantOK: false},
		{page: math.MaxInt, limit: 10, wantOK: false},
		{page: math.MaxInt, limit: 1, want: math.MaxInt - 1, wantOK: true},
	}

	for _, tt := range tests {
		got, ok := pageOffset(tt.page, tt.limit)
		assert.Equal(t, tt.wantOK, ok, "page=%d limit=%d", tt.page, tt.limit)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "page=%d limit=%d", tt.page, tt.limit)
		}
	}
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(seedUsers(1)...)
	svc := NewService(store, testConfig())
	existing := store.users[0]

	got, err := svc.GetUser(ctx, existing.ID.String())
	require.NoError(t, err)
	assert.Equal(t, existing, *got)

	_, err = svc.GetUser(ctx, "abc")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.GetUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, testConfig())

	u, err := svc.CreateUser(ctx, NewUserInput("Alice", "alice@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, 1, store.size())

	t.Run("duplicate email leaves store unchanged", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, NewUserInput("Alice Two", "alice@example.com"))
		assert.ErrorIs(t, err, ErrEmailExists)
		assert.Equal(t, 1, store.size())
	})

	t.Run("validation error wins over everything", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, NewUserInput("Al", "alice@example.com"))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Name must be at least 3 characters", ve.Message)
		assert.Equal(t, 1, store.size())
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(seedUsers(2)...)
	svc := NewService(store, testConfig())
	first, second := store.users[0], store.users[1]

	t.Run("replaces name and email", func(t *testing.T) {
		u, err := svc.UpdateUser(ctx, first.ID.String(), NewUserInput("Renamed", "renamed@example.com"))
		require.NoError(t, err)
		assert.Equal(t, first.ID, u.ID)
		assert.Equal(t, "Renamed", u.Name)
		assert.Equal(t, "renamed@example.com", u.Email)
	})

	t.Run("keeping own email is allowed", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, first.ID.String(), NewUserInput("Renamed Again", "renamed@example.com"))
		require.NoError(t, err)
	})

	t.Run("email of another user is rejected", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, first.ID.String(), NewUserInput("Renamed", second.Email))
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, "nope", NewUserInput("Valid Name", "valid@example.com"))
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("body is validated before the id", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, "nope", UserInput{})
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, uuid.NewString(), NewUserInput("Valid Name", "valid@example.com"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(seedUsers(1)...)
	svc := NewService(store, testConfig())
	id := store.users[0].ID.String()

	assert.ErrorIs(t, svc.DeleteUser(ctx, "1234"), ErrInvalidID)
	require.NoError(t, svc.DeleteUser(ctx, id))
	assert.Equal(t, 0, store.size())
	assert.ErrorIs(t, svc.DeleteUser(ctx, id), ErrNotFound)
}

func TestCountUsers(t *testing.T) {
	svc := NewService(newMemStore(seedUsers(3)...), testConfig())

	n, err := svc.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
