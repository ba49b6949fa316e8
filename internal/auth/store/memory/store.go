// Package memory provides the in-memory user store used by unit tests and
// local development. Semantics mirror the postgres store.
package memory

import (
	"context"
	"sync"

	"vigirisco/internal/auth"
	"vigirisco/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]auth.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, users: make(map[int64]auth.User)}
}

func (s *InMemoryStore) FindActiveByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email && !u.Inativo {
			user := u
			return &user, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ExistsByEmailOrLogin(_ context.Context, email, login string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email || u.Login == login {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) Create(_ context.Context, user *auth.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Login == user.Login {
			return 0, sentinel.ErrConflict
		}
	}
	id := s.nextID
	s.nextID++
	stored := *user
	stored.ID = id
	s.users[id] = stored
	return id, nil
}

// Seed inserts an account bypassing uniqueness checks. Test helper.
func (s *InMemoryStore) Seed(user auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	} else if user.ID >= s.nextID {
		s.nextID = user.ID + 1
	}
	s.users[user.ID] = user
}
