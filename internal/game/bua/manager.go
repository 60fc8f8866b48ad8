// Package bua tracks minor terrains outside the summoning pool: the
// built-up-area storage each player holds, and minor terrains currently
// deployed at major terrains.
package bua

import (
	"errors"
	"sync"

	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// ErrInvalidTerrain is returned when storing or deploying a nil terrain.
var ErrInvalidTerrain = errors.New("invalid minor terrain")

// TerrainPlacement records a minor terrain deployed at a major terrain.
type TerrainPlacement struct {
	Terrain      *pieces.MinorTerrain `json:"terrain"`
	Controller   string               `json:"controller"`
	MajorTerrain string               `json:"major_terrain"`
	FaceIndex    int                  `json:"face_index"`
	Buried       bool                 `json:"buried"`
}

// Manager owns per-player built-up-area storage and the placements of minor
// terrains at major terrains.
type Manager struct {
	mu     sync.RWMutex
	logger *zap.Logger
	bus    *rules.EventBus

	stored     map[string][]*pieces.MinorTerrain // player -> stored terrains
	placements map[string][]TerrainPlacement     // major terrain -> deployed minor terrains
}

// NewManager creates an empty built-up-area manager. The bus may be nil.
func NewManager(bus *rules.EventBus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:     logger,
		bus:        bus,
		stored:     make(map[string][]*pieces.MinorTerrain),
		placements: make(map[string][]TerrainPlacement),
	}
}

// PlaceMinorTerrain stores a minor terrain in the player's built-up area.
func (m *Manager) PlaceMinorTerrain(player string, terrain *pieces.MinorTerrain) error {
	if terrain == nil || player == "" {
		return ErrInvalidTerrain
	}
	m.mu.Lock()
	m.stored[player] = append(m.stored[player], terrain)
	m.mu.Unlock()

	m.publish(rules.NewTerrainEvent(rules.EventMinorTerrainStored, player, "", terrain.Name))
	return nil
}

// RemoveMinorTerrain removes the first stored terrain matching the name from
// the player's built-up area. Not-found is reported as (nil, false).
func (m *Manager) RemoveMinorTerrain(player, name string) (*pieces.MinorTerrain, bool) {
	m.mu.Lock()
	list := m.stored[player]
	var removed *pieces.MinorTerrain
	for i, t := range list {
		if t.Name == name {
			removed = t
			m.stored[player] = append(list[:i], list[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if removed == nil {
		return nil, false
	}
	m.publish(rules.NewTerrainEvent(rules.EventMinorTerrainRetrieved, player, "", name))
	return removed, true
}

// Stored returns the player's built-up-area terrains in order.
func (m *Manager) Stored(player string) []*pieces.MinorTerrain {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.stored[player]
	out := make([]*pieces.MinorTerrain, len(list))
	copy(out, list)
	return out
}

// Deploy places a minor terrain at a major terrain under the player's
// control, starting on face 0.
func (m *Manager) Deploy(player string, terrain *pieces.MinorTerrain, majorTerrain string) error {
	if terrain == nil || player == "" {
		return ErrInvalidTerrain
	}
	m.mu.Lock()
	m.placements[majorTerrain] = append(m.placements[majorTerrain], TerrainPlacement{
		Terrain:      terrain,
		Controller:   player,
		MajorTerrain: majorTerrain,
	})
	m.mu.Unlock()

	m.logger.Info("minor terrain deployed",
		zap.String("player", player),
		zap.String("terrain", terrain.Name),
		zap.String("major_terrain", majorTerrain),
	)
	m.publish(rules.NewTerrainEvent(rules.EventMinorTerrainPlaced, player, majorTerrain, terrain.Name))
	return nil
}

// SetFace turns a deployed minor terrain to the given face index.
func (m *Manager) SetFace(majorTerrain, name string, faceIndex int) bool {
	if faceIndex < 0 || faceIndex >= pieces.MinorTerrainFaceCount {
		return false
	}
	m.mu.Lock()
	changed := false
	var controller string
	for i, p := range m.placements[majorTerrain] {
		if p.Terrain != nil && p.Terrain.Name == name && !p.Buried {
			m.placements[majorTerrain][i].FaceIndex = faceIndex
			controller = p.Controller
			changed = true
			break
		}
	}
	m.mu.Unlock()

	if changed {
		evt := rules.NewTerrainEvent(rules.EventMinorTerrainFaceSet, controller, majorTerrain, name)
		evt.Amount = faceIndex
		m.publish(evt)
	}
	return changed
}

// Bury removes a deployed minor terrain from its major terrain and returns
// the instance so the caller can route it back to a pool. Not-found is
// reported as (nil, false).
func (m *Manager) Bury(majorTerrain, name string) (*pieces.MinorTerrain, bool) {
	m.mu.Lock()
	records := m.placements[majorTerrain]
	var removed *pieces.MinorTerrain
	var controller string
	for i, p := range records {
		if p.Terrain != nil && p.Terrain.Name == name {
			removed = p.Terrain
			controller = p.Controller
			m.placements[majorTerrain] = append(records[:i], records[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if removed == nil {
		return nil, false
	}
	m.logger.Info("minor terrain buried",
		zap.String("terrain", name),
		zap.String("major_terrain", majorTerrain),
	)
	m.publish(rules.NewTerrainEvent(rules.EventMinorTerrainBuried, controller, majorTerrain, name))
	return removed, true
}

// PlacementsAt returns copies of the minor terrain placements at a major
// terrain.
func (m *Manager) PlacementsAt(majorTerrain string) []TerrainPlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := m.placements[majorTerrain]
	out := make([]TerrainPlacement, len(records))
	copy(out, records)
	return out
}

// DeployedMajors returns the major terrains with at least one deployed
// minor terrain.
func (m *Manager) DeployedMajors() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for major, records := range m.placements {
		if len(records) > 0 {
			out = append(out, major)
		}
	}
	return out
}

// Snapshot captures stored terrains and placements for save files.
func (m *Manager) Snapshot() (map[string][]*pieces.MinorTerrain, map[string][]TerrainPlacement) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := make(map[string][]*pieces.MinorTerrain, len(m.stored))
	for player, list := range m.stored {
		cp := make([]*pieces.MinorTerrain, len(list))
		for i, t := range list {
			cp[i] = t.Copy()
		}
		stored[player] = cp
	}
	placements := make(map[string][]TerrainPlacement, len(m.placements))
	for major, list := range m.placements {
		cp := make([]TerrainPlacement, len(list))
		for i, p := range list {
			cp[i] = p
			if p.Terrain != nil {
				cp[i].Terrain = p.Terrain.Copy()
			}
		}
		placements[major] = cp
	}
	return stored, placements
}

// Restore replaces all state from a snapshot.
func (m *Manager) Restore(stored map[string][]*pieces.MinorTerrain, placements map[string][]TerrainPlacement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = make(map[string][]*pieces.MinorTerrain, len(stored))
	for player, list := range stored {
		cp := make([]*pieces.MinorTerrain, len(list))
		copy(cp, list)
		m.stored[player] = cp
	}
	m.placements = make(map[string][]TerrainPlacement, len(placements))
	for major, list := range placements {
		cp := make([]TerrainPlacement, len(list))
		copy(cp, list)
		m.placements[major] = cp
	}
}

func (m *Manager) publish(evt rules.Event) {
	if m.bus != nil {
		m.bus.Publish(evt)
	}
}
