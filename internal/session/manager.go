// Package session tracks connected clients with lease-based expiry.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one client's lease on the server.
type Session struct {
	ID         string
	PlayerName string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Manager tracks sessions and expires the ones whose lease lapses.
type Manager struct {
	mu          sync.RWMutex
	leasePeriod time.Duration
	logger      *zap.Logger
	sessions    map[string]*Session
}

// NewManager creates a session manager with the given lease period.
func NewManager(leasePeriod time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		leasePeriod: leasePeriod,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// Create registers a new session for a player name.
func (m *Manager) Create(playerName string) *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		PlayerName: playerName,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.leasePeriod),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("player", playerName),
	)
	return s
}

// Get returns the session by ID if it exists and has not expired.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, false
	}
	return s, true
}

// Touch extends a session's lease. Returns false for unknown sessions.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.ExpiresAt = time.Now().Add(m.leasePeriod)
	return true
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions sweeps expired sessions until the context ends.
// Intended to run as a goroutine from main.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	interval := m.leasePeriod / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	now := time.Now()
	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.logger.Info("session expired", zap.String("session_id", id))
	}
}

// CloseAll drops every session. Called during shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	n := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	if n > 0 {
		m.logger.Info("closed all sessions", zap.Int("count", n))
	}
}
