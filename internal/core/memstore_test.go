package core

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory Store that enforces email uniqueness the way the
// real backends do.
type memStore struct {
	mu    sync.Mutex
	users []User

	// err, when set, is returned by every call.
	err error
	// insertManyCalls records the size of each InsertMany batch.
	insertManyCalls []int
}

func newMemStore(seed ...NewUser) *memStore {
	m := &memStore{}
	for _, u := range seed {
		m.users = append(m.users, m.build(u))
	}
	return m
}

func (m *memStore) build(u NewUser) User {
	return User{ID: uuid.New(), Name: u.Name, Email: u.Email, CreatedAt: time.Now().UTC()}
}

func (m *memStore) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(m.users, func(u User) bool { return u.ID == id })
}

func (m *memStore) emailHolder(email string) int {
	return slices.IndexFunc(m.users, func(u User) bool { return u.Email == email })
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := m.users[i]
	return &u, nil
}

func (m *memStore) List(_ context.Context, offset, limit int) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if offset >= len(m.users) {
		return nil, nil
	}
	end := min(offset+limit, len(m.users))
	return slices.Clone(m.users[offset:end]), nil
}

func (m *memStore) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.users)), nil
}

func (m *memStore) EmailTaken(_ context.Context, email string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Email == email && u.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistingEmails(_ context.Context, emails []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for _, e := range emails {
		if m.emailHolder(e) >= 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) AllEmails(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, len(m.users))
	for i, u := range m.users {
		out[i] = u.Email
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, nu NewUser) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.emailHolder(nu.Email) >= 0 {
		return nil, ErrEmailExists
	}
	u := m.build(nu)
	m.users = append(m.users, u)
	return &u, nil
}

func (m *memStore) InsertMany(_ context.Context, users []NewUser) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.insertManyCalls = append(m.insertManyCalls, len(users))
	var out []User
	for _, nu := range users {
		if m.emailHolder(nu.Email) >= 0 {
			continue
		}
		u := m.build(nu)
		m.users = append(m.users, u)
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id uuid.UUID, nu NewUser) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if j := m.emailHolder(nu.Email); j >= 0 && j != i {
		return nil, ErrEmailExists
	}
	m.users[i].Name = nu.Name
	m.users[i].Email = nu.Email
	u := m.users[i]
	return &u, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.users = slices.Delete(m.users, i, i+1)
	return nil
}

func (m *memStore) Ping(context.Context) error {
	return m.err
}

func (m *memStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
