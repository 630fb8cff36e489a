package authRepository

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/internal/entity"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MemoryRepository keeps accounts in process memory. Accounts are lost on
// restart.
type MemoryRepository struct {
	users *memoryUsers
}

func NewMemory(log *logrus.Logger) *MemoryRepository {
	return &MemoryRepository{
		users: &memoryUsers{
			byID: make(map[string]entity.User),
			log:  log,
		},
	}
}

func (m *MemoryRepository) NewClient(bool) (Client, error) {
	noop := func() error { return nil }
	return Client{
		Users:    m.users,
		Commit:   noop,
		Rollback: noop,
	}, nil
}

func (m *MemoryRepository) Len() int {
	m.users.mu.RLock()
	defer m.users.mu.RUnlock()
	return len(m.users.byID)
}

type memoryUsers struct {
	mu   sync.RWMutex
	byID map[string]entity.User
	log  *logrus.Logger
}

func (s *memoryUsers) CreateUser(_ context.Context, user entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Username == user.Username || u.Email == user.Email {
			s.log.WithField("username", user.Username).Warn("Username or email already exists")
			return auth.ErrDuplicateUser
		}
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.byID[user.ID] = user
	return nil
}

func (s *memoryUsers) GetByID(_ context.Context, id string) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return entity.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (s *memoryUsers) GetByUsername(_ context.Context, username string) (entity.User, error) {
	return s.find(func(u entity.User) bool { return u.Username == username })
}

func (s *memoryUsers) GetByEmail(_ context.Context, email string) (entity.User, error) {
	return s.find(func(u entity.User) bool { return u.Email == email })
}

func (s *memoryUsers) ExistsByUsernameOrEmail(_ context.Context, username string, email string) (bool, error) {
	_, err := s.find(func(u entity.User) bool { return u.Username == username || u.Email == email })
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memoryUsers) find(match func(entity.User) bool) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if match(u) {
			return u, nil
		}
	}
	return entity.User{}, auth.ErrUserNotFound
}
