package rules

import (
	"strings"
	"sync"
)

// TurnState is the shared record of turn number, active player and phase that
// every consumer of a game reads. One instance exists per game; it is
// constructed at startup and passed by reference to all consumers, so tests
// and multiple concurrent games get independent instances.
type TurnState struct {
	mu            sync.RWMutex
	bus           *EventBus
	turn          int
	currentPlayer string
	currentPhase  string
	playerNames   []string
}

// NewTurnState creates a turn state record at turn 1 with no active player or
// phase set. The bus may be nil for consumers that do not need notifications.
func NewTurnState(playerNames []string, bus *EventBus) *TurnState {
	names := make([]string, 0, len(playerNames))
	for _, n := range playerNames {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return &TurnState{
		bus:         bus,
		turn:        1,
		playerNames: names,
	}
}

// Turn returns the current turn number (1-based).
func (ts *TurnState) Turn() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.turn
}

// CurrentPlayer returns the active player, or empty if none has been set.
func (ts *TurnState) CurrentPlayer() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.currentPlayer
}

// CurrentPhase returns the phase label, or empty if none has been set.
func (ts *TurnState) CurrentPhase() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.currentPhase
}

// PlayerNames returns the ordered player list.
func (ts *TurnState) PlayerNames() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	names := make([]string, len(ts.playerNames))
	copy(names, ts.playerNames)
	return names
}

// SetTurn updates the turn number. Setting the current value is a no-op and
// emits nothing; a change emits a single turn-changed event.
func (ts *TurnState) SetTurn(turn int) {
	if turn < 1 {
		return
	}
	ts.mu.Lock()
	if ts.turn == turn {
		ts.mu.Unlock()
		return
	}
	ts.turn = turn
	ts.mu.Unlock()

	ts.publish(NewAmountEvent(EventTurnChanged, "", turn))
}

// AdvanceTurn increments the turn number by one.
func (ts *TurnState) AdvanceTurn() {
	ts.mu.RLock()
	next := ts.turn + 1
	ts.mu.RUnlock()
	ts.SetTurn(next)
}

// SetCurrentPlayer updates the active player. Idempotent.
func (ts *TurnState) SetCurrentPlayer(player string) {
	player = strings.TrimSpace(player)
	ts.mu.Lock()
	if ts.currentPlayer == player {
		ts.mu.Unlock()
		return
	}
	ts.currentPlayer = player
	ts.mu.Unlock()

	ts.publish(NewEvent(EventPlayerChanged, player))
}

// SetCurrentPhase updates the phase label. Idempotent.
func (ts *TurnState) SetCurrentPhase(phase string) {
	ts.mu.Lock()
	if ts.currentPhase == phase {
		ts.mu.Unlock()
		return
	}
	ts.currentPhase = phase
	ts.mu.Unlock()

	evt := NewEvent(EventPhaseChanged, "")
	evt.Data = phase
	ts.publish(evt)
}

// NextPlayer returns the player after the given one in turn order, wrapping
// to the first. Returns empty when the player list is empty or the given
// player is unknown.
func (ts *TurnState) NextPlayer(after string) string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	for i, name := range ts.playerNames {
		if name == after {
			return ts.playerNames[(i+1)%len(ts.playerNames)]
		}
	}
	return ""
}

// TurnUpdate carries a partial sync from an external turn driver. Nil fields
// leave the corresponding state untouched. This replaces attribute sniffing
// on the driver with a contract the compiler can check.
type TurnUpdate struct {
	Turn          *int
	CurrentPlayer *string
	CurrentPhase  *string
	PlayerNames   []string
}

// SyncFrom applies the non-nil fields of a TurnUpdate.
func (ts *TurnState) SyncFrom(update TurnUpdate) {
	if update.PlayerNames != nil {
		ts.mu.Lock()
		names := make([]string, len(update.PlayerNames))
		copy(names, update.PlayerNames)
		ts.playerNames = names
		ts.mu.Unlock()
	}
	if update.Turn != nil {
		ts.SetTurn(*update.Turn)
	}
	if update.CurrentPlayer != nil {
		ts.SetCurrentPlayer(*update.CurrentPlayer)
	}
	if update.CurrentPhase != nil {
		ts.SetCurrentPhase(*update.CurrentPhase)
	}
}

// Reset restores the initial state. Exists for test isolation and for
// loading a saved game over a live one; emits no events.
func (ts *TurnState) Reset() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.turn = 1
	ts.currentPlayer = ""
	ts.currentPhase = ""
}

func (ts *TurnState) publish(evt Event) {
	if ts.bus != nil {
		ts.bus.Publish(evt)
	}
}
