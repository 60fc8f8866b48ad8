package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragondice/companion-server-go/internal/game/pool"
	"github.com/dragondice/companion-server-go/internal/game/rules"
)

func newPopulatedEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine([]string{"Alice", "Bob"}, nil)
	e.SetupPlayer("Alice",
		[]string{"FIRE_ELEMENTAL", "WHITE"},
		[]string{"COASTLAND_BRIDGE"},
	)
	e.SetupPlayer("Bob",
		[]string{"WATER_ELEMENTAL"},
		nil,
	)

	dragons, err := e.Pools().Pool("Alice")
	require.NoError(t, err)
	require.True(t, e.Pools().SummonToTerrain("Alice", dragons[0].ID, "Highland"))

	require.NoError(t, e.Transfer().PoolToBUA("Alice", "Coastland Bridge"))
	return e
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := newPopulatedEngine(t)
	e.Turn().SetTurn(4)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Turn)
	assert.Equal(t, "Alice", snap.CurrentPlayer)

	data, err := snap.Marshal()
	require.NoError(t, err)
	decoded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	restored := NewEngine(nil, nil)
	require.NoError(t, restored.Restore(decoded))

	assert.Equal(t, 4, restored.Turn().Turn())
	assert.Equal(t, "Alice", restored.Turn().CurrentPlayer())
	assert.Equal(t, []string{"Alice", "Bob"}, restored.Turn().PlayerNames())

	dragons, err := restored.Pools().Pool("Alice")
	require.NoError(t, err)
	assert.Len(t, dragons, 1)
	assert.Len(t, restored.Pools().PlacementsAt("Highland"), 1)
	assert.Len(t, restored.BUA().Stored("Alice"), 1)

	// The restored state hashes identically to the original.
	snap2, err := restored.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snap.Checksum(), snap2.Checksum())
}

func TestSnapshotPreservesMarchState(t *testing.T) {
	e := newPopulatedEngine(t)
	e.March().CompleteMarch()
	e.March().DecideManeuver(true)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "SECOND_MARCH", snap.MarchPhase)
	assert.Equal(t, "AWAITING_MANEUVER_INPUT", snap.MarchStep)

	restored := NewEngine(nil, nil)
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, rules.PhaseSecondMarch, restored.March().CurrentPhase())
	assert.Equal(t, rules.StepAwaitingManeuverInput, restored.March().CurrentStep())

	// The client view and the turn record agree on the restored phase.
	view := restored.View()
	assert.Equal(t, "SECOND_MARCH", view.Phase)
	assert.Equal(t, "SECOND_MARCH", restored.Turn().CurrentPhase())
	assert.Equal(t, "AWAITING_MANEUVER_INPUT", view.MarchStep)
}

func TestChecksumDeterministic(t *testing.T) {
	e := newPopulatedEngine(t)

	a, err := e.Snapshot()
	require.NoError(t, err)
	b, err := e.Snapshot()
	require.NoError(t, err)

	// SavedAt differs between the two; the checksum must not.
	assert.Equal(t, a.Checksum(), b.Checksum())

	e.Turn().AdvanceTurn()
	c, err := e.Snapshot()
	require.NoError(t, err)
	assert.NotEqual(t, a.Checksum(), c.Checksum())
}

func TestRestoreRejectsCorruptPlacement(t *testing.T) {
	e := newPopulatedEngine(t)
	snap, err := e.Snapshot()
	require.NoError(t, err)
	snap.Placements["Highland"][0].DragonID = ""

	fresh := NewEngine(nil, nil)
	err = fresh.Restore(snap)
	require.ErrorIs(t, err, pool.ErrCorruptPlacement)

	// A rejected snapshot leaves the target untouched.
	assert.Empty(t, fresh.Pools().PlacementsAt("Highland"))
	assert.Equal(t, 1, fresh.Turn().Turn())
}

func TestRestoreRejectsBadVersion(t *testing.T) {
	e := NewEngine(nil, nil)
	assert.Error(t, e.Restore(nil))
	assert.Error(t, e.Restore(&Snapshot{Version: 99}))
}
