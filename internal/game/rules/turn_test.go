package rules

import "testing"

func TestTurnStateSetTurnIdempotent(t *testing.T) {
	bus := NewEventBus()
	ts := NewTurnState([]string{"Alice", "Bob"}, bus)

	var events []Event
	bus.SubscribeTyped(EventTurnChanged, func(evt Event) {
		events = append(events, evt)
	})

	ts.SetTurn(3)
	ts.SetTurn(3)

	if len(events) != 1 {
		t.Fatalf("expected exactly one turn-changed event, got %d", len(events))
	}
	if events[0].Amount != 3 {
		t.Errorf("expected event amount 3, got %d", events[0].Amount)
	}
	if ts.Turn() != 3 {
		t.Errorf("expected turn 3, got %d", ts.Turn())
	}
}

func TestTurnStateAdvanceTurn(t *testing.T) {
	ts := NewTurnState([]string{"Alice"}, nil)
	if ts.Turn() != 1 {
		t.Fatalf("expected initial turn 1, got %d", ts.Turn())
	}
	ts.AdvanceTurn()
	if ts.Turn() != 2 {
		t.Errorf("expected turn 2 after advance, got %d", ts.Turn())
	}
}

func TestTurnStateRejectsInvalidTurn(t *testing.T) {
	ts := NewTurnState(nil, nil)
	ts.SetTurn(0)
	if ts.Turn() != 1 {
		t.Errorf("expected turn to remain 1, got %d", ts.Turn())
	}
}

func TestTurnStateSetPlayerAndPhase(t *testing.T) {
	bus := NewEventBus()
	ts := NewTurnState([]string{"Alice", "Bob"}, bus)

	playerEvents := 0
	phaseEvents := 0
	bus.SubscribeTyped(EventPlayerChanged, func(Event) { playerEvents++ })
	bus.SubscribeTyped(EventPhaseChanged, func(Event) { phaseEvents++ })

	ts.SetCurrentPlayer("Alice")
	ts.SetCurrentPlayer("Alice")
	ts.SetCurrentPhase("FIRST_MARCH")
	ts.SetCurrentPhase("FIRST_MARCH")

	if playerEvents != 1 {
		t.Errorf("expected one player-changed event, got %d", playerEvents)
	}
	if phaseEvents != 1 {
		t.Errorf("expected one phase-changed event, got %d", phaseEvents)
	}
}

func TestTurnStateNextPlayerWraps(t *testing.T) {
	ts := NewTurnState([]string{"Alice", "Bob", "Carol"}, nil)
	if next := ts.NextPlayer("Carol"); next != "Alice" {
		t.Errorf("expected wrap to Alice, got %q", next)
	}
	if next := ts.NextPlayer("Alice"); next != "Bob" {
		t.Errorf("expected Bob after Alice, got %q", next)
	}
	if next := ts.NextPlayer("Mallory"); next != "" {
		t.Errorf("expected empty for unknown player, got %q", next)
	}
}

func TestTurnStateSyncFromPartial(t *testing.T) {
	ts := NewTurnState([]string{"Alice", "Bob"}, nil)
	ts.SetCurrentPlayer("Alice")
	ts.SetCurrentPhase("FIRST_MARCH")

	turn := 5
	ts.SyncFrom(TurnUpdate{Turn: &turn})

	if ts.Turn() != 5 {
		t.Errorf("expected turn 5, got %d", ts.Turn())
	}
	// Fields not present in the update stay untouched.
	if ts.CurrentPlayer() != "Alice" {
		t.Errorf("expected current player unchanged, got %q", ts.CurrentPlayer())
	}
	if ts.CurrentPhase() != "FIRST_MARCH" {
		t.Errorf("expected current phase unchanged, got %q", ts.CurrentPhase())
	}

	player := "Bob"
	ts.SyncFrom(TurnUpdate{CurrentPlayer: &player, PlayerNames: []string{"Bob", "Alice"}})
	if ts.CurrentPlayer() != "Bob" {
		t.Errorf("expected Bob, got %q", ts.CurrentPlayer())
	}
	names := ts.PlayerNames()
	if len(names) != 2 || names[0] != "Bob" {
		t.Errorf("expected player order replaced, got %v", names)
	}
}

func TestTurnStateReset(t *testing.T) {
	ts := NewTurnState([]string{"Alice"}, nil)
	ts.SetTurn(7)
	ts.SetCurrentPlayer("Alice")
	ts.SetCurrentPhase("RESERVES")

	ts.Reset()
	if ts.Turn() != 1 || ts.CurrentPlayer() != "" || ts.CurrentPhase() != "" {
		t.Error("expected reset to restore initial state")
	}
}
