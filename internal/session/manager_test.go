package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(time.Minute, nil)

	s := m.Create("Alice")
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "Alice", s.PlayerName)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 1, m.Count())

	_, ok = m.Get("no-such-session")
	assert.False(t, ok)
}

func TestExpiredSessionNotReturned(t *testing.T) {
	m := NewManager(-time.Second, nil)

	s := m.Create("Alice")
	_, ok := m.Get(s.ID)
	assert.False(t, ok, "expired lease should hide the session")
}

func TestTouchExtendsLease(t *testing.T) {
	m := NewManager(time.Minute, nil)

	s := m.Create("Alice")
	before := s.ExpiresAt
	time.Sleep(5 * time.Millisecond)
	require.True(t, m.Touch(s.ID))
	assert.True(t, s.ExpiresAt.After(before))

	assert.False(t, m.Touch("no-such-session"))
}

func TestRemoveAndCloseAll(t *testing.T) {
	m := NewManager(time.Minute, nil)

	a := m.Create("Alice")
	m.Create("Bob")
	require.Equal(t, 2, m.Count())

	m.Remove(a.ID)
	assert.Equal(t, 1, m.Count())

	m.CloseAll()
	assert.Equal(t, 0, m.Count())
}

func TestSweepDropsOnlyExpired(t *testing.T) {
	m := NewManager(time.Minute, nil)

	live := m.Create("Alice")
	dead := m.Create("Bob")
	m.mu.Lock()
	m.sessions[dead.ID].ExpiresAt = time.Now().Add(-time.Second)
	m.mu.Unlock()

	m.sweep()

	_, ok := m.Get(live.ID)
	assert.True(t, ok)
	_, ok = m.Get(dead.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Count())
}
