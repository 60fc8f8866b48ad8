package bua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/rules"
)

func mustTerrain(t *testing.T, key string) *pieces.MinorTerrain {
	t.Helper()
	mt, ok := pieces.MinorTerrainByKey(key)
	require.True(t, ok, "unknown minor terrain key %s", key)
	return mt
}

func TestStoreAndRemove(t *testing.T) {
	m := NewManager(nil, nil)
	bridge := mustTerrain(t, "COASTLAND_BRIDGE")

	require.NoError(t, m.PlaceMinorTerrain("Alice", bridge))
	assert.Len(t, m.Stored("Alice"), 1)

	got, ok := m.RemoveMinorTerrain("Alice", "Coastland Bridge")
	require.True(t, ok)
	assert.Equal(t, "Coastland Bridge", got.Name)
	assert.Empty(t, m.Stored("Alice"))

	_, ok = m.RemoveMinorTerrain("Alice", "Coastland Bridge")
	assert.False(t, ok)
}

func TestStoreRejectsInvalid(t *testing.T) {
	m := NewManager(nil, nil)
	assert.ErrorIs(t, m.PlaceMinorTerrain("Alice", nil), ErrInvalidTerrain)
	assert.ErrorIs(t, m.PlaceMinorTerrain("", mustTerrain(t, "COASTLAND_BRIDGE")), ErrInvalidTerrain)
	assert.ErrorIs(t, m.Deploy("", mustTerrain(t, "COASTLAND_BRIDGE"), "Highland"), ErrInvalidTerrain)
}

func TestDeploySetFaceBury(t *testing.T) {
	m := NewManager(nil, nil)
	forest := mustTerrain(t, "HIGHLAND_FOREST")

	require.NoError(t, m.Deploy("Alice", forest, "Highland"))

	placed := m.PlacementsAt("Highland")
	require.Len(t, placed, 1)
	assert.Equal(t, 0, placed[0].FaceIndex)
	assert.Equal(t, "Alice", placed[0].Controller)

	require.True(t, m.SetFace("Highland", "Highland Forest", 7))
	assert.Equal(t, 7, m.PlacementsAt("Highland")[0].FaceIndex)

	// Out-of-range faces are rejected without touching state.
	assert.False(t, m.SetFace("Highland", "Highland Forest", 8))
	assert.False(t, m.SetFace("Highland", "Highland Forest", -1))
	assert.Equal(t, 7, m.PlacementsAt("Highland")[0].FaceIndex)

	got, ok := m.Bury("Highland", "Highland Forest")
	require.True(t, ok)
	assert.Equal(t, "Highland Forest", got.Name)
	assert.Empty(t, m.PlacementsAt("Highland"))
	assert.Empty(t, m.DeployedMajors())

	_, ok = m.Bury("Highland", "Highland Forest")
	assert.False(t, ok)
}

func TestManagerEvents(t *testing.T) {
	bus := rules.NewEventBus()
	m := NewManager(bus, nil)

	var types []rules.EventType
	bus.Subscribe(func(evt rules.Event) { types = append(types, evt.Type) })

	forest := mustTerrain(t, "HIGHLAND_FOREST")
	require.NoError(t, m.PlaceMinorTerrain("Alice", forest))
	_, ok := m.RemoveMinorTerrain("Alice", "Highland Forest")
	require.True(t, ok)
	require.NoError(t, m.Deploy("Alice", forest, "Highland"))
	require.True(t, m.SetFace("Highland", "Highland Forest", 3))
	_, ok = m.Bury("Highland", "Highland Forest")
	require.True(t, ok)

	want := []rules.EventType{
		rules.EventMinorTerrainStored,
		rules.EventMinorTerrainRetrieved,
		rules.EventMinorTerrainPlaced,
		rules.EventMinorTerrainFaceSet,
		rules.EventMinorTerrainBuried,
	}
	assert.Equal(t, want, types)
}

func TestSnapshotRestore(t *testing.T) {
	m := NewManager(nil, nil)
	require.NoError(t, m.PlaceMinorTerrain("Alice", mustTerrain(t, "COASTLAND_BRIDGE")))
	require.NoError(t, m.Deploy("Bob", mustTerrain(t, "HIGHLAND_FOREST"), "Highland"))
	require.True(t, m.SetFace("Highland", "Highland Forest", 5))

	stored, placements := m.Snapshot()

	m2 := NewManager(nil, nil)
	m2.Restore(stored, placements)

	assert.Len(t, m2.Stored("Alice"), 1)
	placed := m2.PlacementsAt("Highland")
	require.Len(t, placed, 1)
	assert.Equal(t, 5, placed[0].FaceIndex)
	assert.Equal(t, "Bob", placed[0].Controller)

	// Snapshot instances are independent of the source manager.
	stored["Alice"][0].Name = "mutated"
	assert.Equal(t, "Coastland Bridge", m.Stored("Alice")[0].Name)
}
