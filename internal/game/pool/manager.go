package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

var (
	// ErrPoolNotInitialized is returned when querying a pool for a player
	// that was never initialized. Distinct from an empty pool, which is a
	// valid state; hitting this means a setup bug.
	ErrPoolNotInitialized = errors.New("summoning pool not initialized for player")

	// ErrCorruptPlacement is returned when a placement record is missing its
	// dragon ID. This indicates corrupted internal state and is not
	// recovered from.
	ErrCorruptPlacement = errors.New("placement record missing dragon id")
)

// Manager is the single source of truth for which dragons and minor terrains
// each player holds off-board, and which dragons are deployed at terrains.
// An instance appears in at most one of a player's pool or a terrain's
// placement list; every transfer removes before adding.
type Manager struct {
	mu     sync.RWMutex
	logger *zap.Logger
	bus    *rules.EventBus

	dragons    map[string][]*pieces.Dragon       // player -> unclaimed dragons
	terrains   map[string][]*pieces.MinorTerrain // player -> unclaimed minor terrains
	placements map[string][]Placement            // terrain -> deployed dragons
}

// NewManager creates an empty pool manager. The bus may be nil.
func NewManager(bus *rules.EventBus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:     logger,
		bus:        bus,
		dragons:    make(map[string][]*pieces.Dragon),
		terrains:   make(map[string][]*pieces.MinorTerrain),
		placements: make(map[string][]Placement),
	}
}

// InitializePool replaces the player's dragon pool wholesale. Used once at
// game setup; re-initializing overwrites whatever was there.
func (m *Manager) InitializePool(player string, dragons []*pieces.Dragon) {
	m.mu.Lock()
	list := make([]*pieces.Dragon, len(dragons))
	copy(list, dragons)
	m.dragons[player] = list
	m.mu.Unlock()

	m.logger.Info("dragon pool initialized",
		zap.String("player", player),
		zap.Int("dragons", len(dragons)),
	)
	m.publishPoolChanged(player)
}

// AddDragon appends a dragon to the player's pool, creating the pool if the
// player has none yet.
func (m *Manager) AddDragon(player string, dragon *pieces.Dragon) {
	if dragon == nil {
		return
	}
	m.mu.Lock()
	m.dragons[player] = append(m.dragons[player], dragon)
	m.mu.Unlock()

	m.publishPoolChanged(player)
}

// RemoveDragon removes the first dragon matching ref from the player's pool.
// Matching tries ID first, then falls back to display name. Not-found is a
// normal outcome reported as (nil, false).
func (m *Manager) RemoveDragon(player, ref string) (*pieces.Dragon, bool) {
	m.mu.Lock()
	dragon, ok := m.removeDragonLocked(player, ref)
	m.mu.Unlock()

	if ok {
		m.publishPoolChanged(player)
	}
	return dragon, ok
}

func (m *Manager) removeDragonLocked(player, ref string) (*pieces.Dragon, bool) {
	list := m.dragons[player]
	idx := -1
	for i, d := range list {
		if d.ID == ref {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, d := range list {
			if d.Name == ref {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, false
	}
	dragon := list[idx]
	m.dragons[player] = append(list[:idx], list[idx+1:]...)
	return dragon, true
}

// Pool returns the player's dragon pool in order. An empty-but-initialized
// pool returns an empty slice; a player never initialized returns
// ErrPoolNotInitialized.
func (m *Manager) Pool(player string) ([]*pieces.Dragon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, ok := m.dragons[player]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotInitialized, player)
	}
	out := make([]*pieces.Dragon, len(list))
	copy(out, list)
	return out, nil
}

// DragonsByElement returns the pool dragons whose element set includes el.
func (m *Manager) DragonsByElement(player string, el pieces.Element) ([]*pieces.Dragon, error) {
	list, err := m.Pool(player)
	if err != nil {
		return nil, err
	}
	var out []*pieces.Dragon
	for _, d := range list {
		if d.HasElement(el) {
			out = append(out, d)
		}
	}
	return out, nil
}

// DragonsByType returns the pool dragons of the given type key.
func (m *Manager) DragonsByType(player, typeKey string) ([]*pieces.Dragon, error) {
	list, err := m.Pool(player)
	if err != nil {
		return nil, err
	}
	var out []*pieces.Dragon
	for _, d := range list {
		if d.TypeKey == typeKey {
			out = append(out, d)
		}
	}
	return out, nil
}

// SummonToTerrain moves a dragon from the player's pool to a terrain's
// placement list. The transfer is atomic: a miss leaves all state unchanged
// and reports false.
func (m *Manager) SummonToTerrain(player, ref, terrain string) bool {
	m.mu.Lock()
	dragon, ok := m.removeDragonLocked(player, ref)
	if !ok {
		m.mu.Unlock()
		return false
	}
	m.placements[terrain] = append(m.placements[terrain], newPlacement(dragon, terrain))
	m.mu.Unlock()

	m.logger.Info("dragon summoned",
		zap.String("player", player),
		zap.String("dragon", dragon.Name),
		zap.String("terrain", terrain),
	)
	m.publishPoolChanged(player)
	m.publish(rules.NewTerrainEvent(rules.EventDragonSummoned, player, terrain, dragon.ID))
	return true
}

// ReturnToPool moves a deployed dragon back to its owner's pool, preserving
// its snapshotted attributes. Reports false when no placement at the terrain
// matches the ID; reports ErrCorruptPlacement when the terrain's records are
// structurally broken.
func (m *Manager) ReturnToPool(terrain, dragonID string) (bool, error) {
	m.mu.Lock()
	records := m.placements[terrain]
	idx := -1
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			m.mu.Unlock()
			return false, fmt.Errorf("placement at %s: %w", terrain, err)
		}
		if rec.DragonID == dragonID {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return false, nil
	}
	record := records[idx]
	m.placements[terrain] = append(records[:idx], records[idx+1:]...)
	dragon := record.dragon()
	m.dragons[record.Owner] = append(m.dragons[record.Owner], dragon)
	m.mu.Unlock()

	m.logger.Info("dragon returned to pool",
		zap.String("player", record.Owner),
		zap.String("dragon", record.Name),
		zap.String("terrain", terrain),
	)
	m.publishPoolChanged(record.Owner)
	m.publish(rules.NewTerrainEvent(rules.EventDragonReturned, record.Owner, terrain, dragonID))
	return true, nil
}

// KillDragonAtTerrain handles a dragon death. Rules-wise a dead dragon goes
// back to its owner's summoning pool rather than being destroyed.
func (m *Manager) KillDragonAtTerrain(terrain, dragonID string) (bool, error) {
	ok, err := m.ReturnToPool(terrain, dragonID)
	if ok {
		m.publish(rules.NewTerrainEvent(rules.EventDragonKilled, "", terrain, dragonID))
	}
	return ok, err
}

// PlacementsAt returns copies of the placement records at a terrain.
func (m *Manager) PlacementsAt(terrain string) []Placement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyPlacements(m.placements[terrain])
}

// TerrainsWithPlacements returns the names of terrains with at least one
// deployed dragon.
func (m *Manager) TerrainsWithPlacements() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for terrain, records := range m.placements {
		if len(records) > 0 {
			out = append(out, terrain)
		}
	}
	return out
}

// RestorePlacements replaces a terrain's placement list from a snapshot.
// Records are validated first; a malformed record rejects the whole list.
func (m *Manager) RestorePlacements(terrain string, records []Placement) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("restore placements at %s: %w", terrain, err)
		}
	}
	m.mu.Lock()
	m.placements[terrain] = copyPlacements(records)
	m.mu.Unlock()
	return nil
}

// InitializeTerrainPool replaces the player's minor terrain pool wholesale.
func (m *Manager) InitializeTerrainPool(player string, terrains []*pieces.MinorTerrain) {
	m.mu.Lock()
	list := make([]*pieces.MinorTerrain, len(terrains))
	copy(list, terrains)
	m.terrains[player] = list
	m.mu.Unlock()

	m.logger.Info("minor terrain pool initialized",
		zap.String("player", player),
		zap.Int("terrains", len(terrains)),
	)
	m.publishTerrainPoolChanged(player)
}

// AddMinorTerrain appends a minor terrain to the player's pool.
func (m *Manager) AddMinorTerrain(player string, terrain *pieces.MinorTerrain) {
	if terrain == nil {
		return
	}
	m.mu.Lock()
	m.terrains[player] = append(m.terrains[player], terrain)
	m.mu.Unlock()

	m.publishTerrainPoolChanged(player)
}

// RemoveMinorTerrain removes the first minor terrain matching the name from
// the player's pool. Not-found is reported as (nil, false).
func (m *Manager) RemoveMinorTerrain(player, name string) (*pieces.MinorTerrain, bool) {
	m.mu.Lock()
	terrain, ok := m.removeMinorTerrainLocked(player, name)
	m.mu.Unlock()

	if ok {
		m.publishTerrainPoolChanged(player)
	}
	return terrain, ok
}

func (m *Manager) removeMinorTerrainLocked(player, name string) (*pieces.MinorTerrain, bool) {
	list := m.terrains[player]
	for i, t := range list {
		if t.Name == name {
			m.terrains[player] = append(list[:i], list[i+1:]...)
			return t, true
		}
	}
	return nil, false
}

// TerrainPool returns the player's minor terrain pool in order, with the
// same initialized/uninitialized distinction as Pool.
func (m *Manager) TerrainPool(player string) ([]*pieces.MinorTerrain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, ok := m.terrains[player]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotInitialized, player)
	}
	out := make([]*pieces.MinorTerrain, len(list))
	copy(out, list)
	return out, nil
}

// TerrainsByElement returns the pool minor terrains whose element set
// includes el.
func (m *Manager) TerrainsByElement(player string, el pieces.Element) ([]*pieces.MinorTerrain, error) {
	list, err := m.TerrainPool(player)
	if err != nil {
		return nil, err
	}
	var out []*pieces.MinorTerrain
	for _, t := range list {
		if t.HasElement(el) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Players returns the players with an initialized dragon pool.
func (m *Manager) Players() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.dragons))
	for player := range m.dragons {
		out = append(out, player)
	}
	return out
}

func (m *Manager) publishPoolChanged(player string) {
	m.publish(rules.NewEvent(rules.EventPoolChanged, player))
}

func (m *Manager) publishTerrainPoolChanged(player string) {
	m.publish(rules.NewEvent(rules.EventTerrainPoolChanged, player))
}

func (m *Manager) publish(evt rules.Event) {
	if m.bus != nil {
		m.bus.Publish(evt)
	}
}
