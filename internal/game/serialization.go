package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dragondice/companion-server-go/internal/game/bua"
	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/pool"
	"github.com/dragondice/companion-server-go/internal/game/rules"
)

// snapshotVersion guards forward compatibility of the save format.
const snapshotVersion = 1

// Snapshot captures a complete game state for save/load.
type Snapshot struct {
	Version       int       `json:"version"`
	SavedAt       time.Time `json:"saved_at"`
	Turn          int       `json:"turn"`
	CurrentPlayer string    `json:"current_player"`
	CurrentPhase  string    `json:"current_phase"`
	MarchPhase    string    `json:"march_phase"`
	MarchStep     string    `json:"march_step"`
	PlayerNames   []string  `json:"player_names"`

	Pools        map[string][]pool.DragonRecord    `json:"pools"`
	TerrainPools map[string][]pool.TerrainRecord   `json:"terrain_pools"`
	Placements   map[string][]pool.Placement       `json:"placements"`
	Stored       map[string][]*pieces.MinorTerrain `json:"stored"`
	Deployed     map[string][]bua.TerrainPlacement `json:"deployed"`
}

// Snapshot renders the engine's full state as a save snapshot.
func (e *Engine) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Version:       snapshotVersion,
		SavedAt:       time.Now().UTC(),
		Turn:          e.turn.Turn(),
		CurrentPlayer: e.turn.CurrentPlayer(),
		CurrentPhase:  e.turn.CurrentPhase(),
		MarchPhase:    e.march.CurrentPhase().String(),
		MarchStep:     e.march.CurrentStep().String(),
		PlayerNames:   e.turn.PlayerNames(),
		Pools:         make(map[string][]pool.DragonRecord),
		TerrainPools:  make(map[string][]pool.TerrainRecord),
		Placements:    make(map[string][]pool.Placement),
	}

	for _, player := range e.pools.Players() {
		records, err := e.pools.ExportPool(player)
		if err != nil {
			return nil, fmt.Errorf("export pool for %s: %w", player, err)
		}
		snap.Pools[player] = records
		if terrains, err := e.pools.ExportTerrainPool(player); err == nil {
			snap.TerrainPools[player] = terrains
		}
	}
	for _, terrain := range e.pools.TerrainsWithPlacements() {
		snap.Placements[terrain] = e.pools.PlacementsAt(terrain)
	}
	snap.Stored, snap.Deployed = e.bua.Snapshot()
	return snap, nil
}

// Restore replaces the engine's state from a snapshot. Placement records are
// validated before anything is touched, so a corrupt save leaves the live
// game intact.
func (e *Engine) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	for terrain, records := range snap.Placements {
		for _, rec := range records {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("snapshot placements at %s: %w", terrain, err)
			}
		}
	}

	e.turn.Reset()
	e.turn.SyncFrom(rules.TurnUpdate{
		Turn:          &snap.Turn,
		CurrentPlayer: &snap.CurrentPlayer,
		CurrentPhase:  &snap.CurrentPhase,
		PlayerNames:   snap.PlayerNames,
	})
	// The march machine must agree with the restored phase label; unknown
	// names fall back to the start of a march.
	marchPhase, _ := rules.MarchPhaseByName(snap.MarchPhase)
	marchStep, _ := rules.MarchStepByName(snap.MarchStep)
	e.march.Restore(marchPhase, marchStep)
	for player, records := range snap.Pools {
		e.pools.ImportPool(player, records)
	}
	for player, records := range snap.TerrainPools {
		e.pools.ImportTerrainPool(player, records)
	}
	for terrain, records := range snap.Placements {
		if err := e.pools.RestorePlacements(terrain, records); err != nil {
			return err
		}
	}
	e.bua.Restore(snap.Stored, snap.Deployed)

	e.bus.Publish(rules.NewEvent(rules.EventGameLoaded, ""))
	e.bus.Publish(rules.NewEvent(rules.EventStateUpdated, ""))
	return nil
}

// Marshal encodes the snapshot for storage.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a stored snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Checksum computes a deterministic sha256 over a canonical rendering of the
// snapshot, excluding non-deterministic fields like SavedAt. Two snapshots
// of identical game state always hash the same.
func (s *Snapshot) Checksum() string {
	data := s.buildDeterministicRepresentation()
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// buildDeterministicRepresentation creates a canonical string representation
// of the snapshot that is independent of map iteration order.
func (s *Snapshot) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("GAME:%d|%d|%s|%s\n",
		s.Version, s.Turn, s.CurrentPlayer, s.CurrentPhase))
	buf.WriteString(fmt.Sprintf("MARCH:%s|%s\n", s.MarchPhase, s.MarchStep))
	for _, name := range s.PlayerNames {
		buf.WriteString(fmt.Sprintf("ORDER:%s\n", name))
	}

	for _, player := range sortedKeys(s.Pools) {
		for _, d := range s.Pools[player] {
			buf.WriteString(fmt.Sprintf("DRAGON:%s|%s|%s|%s|%s|%d|%d\n",
				player, d.ID, d.Name, d.TypeKey, d.Form, d.Health, d.MaxHealth))
		}
	}
	for _, player := range sortedKeys(s.TerrainPools) {
		for _, t := range s.TerrainPools[player] {
			buf.WriteString(fmt.Sprintf("TERRAIN:%s|%s|%s\n",
				player, t.Name, t.EighthFace))
		}
	}
	for _, terrain := range sortedKeys(s.Placements) {
		for _, p := range s.Placements[terrain] {
			buf.WriteString(fmt.Sprintf("PLACED:%s|%s|%s|%d|%d\n",
				terrain, p.DragonID, p.Owner, p.Health, p.MaxHealth))
		}
	}
	for _, player := range sortedKeys(s.Stored) {
		for _, t := range s.Stored[player] {
			buf.WriteString(fmt.Sprintf("STORED:%s|%s\n", player, t.Name))
		}
	}
	for _, major := range sortedKeys(s.Deployed) {
		for _, p := range s.Deployed[major] {
			name := ""
			if p.Terrain != nil {
				name = p.Terrain.Name
			}
			buf.WriteString(fmt.Sprintf("DEPLOYED:%s|%s|%s|%d|%t\n",
				major, name, p.Controller, p.FaceIndex, p.Buried))
		}
	}

	return buf.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
