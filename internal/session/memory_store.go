package session

import (
	"context"
	"sync"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

// MemoryStore is the fallback when Redis is unavailable; sessions do
// not survive a restart. Also used in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]models.SessionUser
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]models.SessionUser)}
}

func (s *MemoryStore) Save(_ context.Context, user models.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) Load(_ context.Context, userID int64) (*models.SessionUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return &user, nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}
