package redis

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemory returns a process local session store for single instance
// deployments and tests.
func NewMemory() ISessionStore {
	return &memoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *memoryStore) SetSession(_ context.Context, sessionID string, userID string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{userID: userID}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}
	m.sessions[sessionID] = entry
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.sessions, sessionID)
		return "", ErrSessionNotFound
	}
	return entry.userID, nil
}

func (m *memoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryStore) Ping(context.Context) error {
	return nil
}
