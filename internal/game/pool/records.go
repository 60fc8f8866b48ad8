package pool

import (
	"github.com/dragondice/companion-server-go/internal/game/pieces"
)

// DragonRecord is the plain save/load shape for a pooled dragon.
type DragonRecord struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Form      pieces.DragonForm `json:"form"`
	TypeKey   string            `json:"type_key"`
	Elements  []pieces.Element  `json:"elements"`
	Owner     string            `json:"owner"`
	Health    int               `json:"health"`
	MaxHealth int               `json:"max_health"`
}

// TerrainRecord is the plain save/load shape for a pooled minor terrain.
type TerrainRecord struct {
	Name       string               `json:"name"`
	EighthFace string               `json:"eighth_face"`
	Faces      []pieces.TerrainFace `json:"faces"`
	Elements   []pieces.Element     `json:"elements"`
}

// ExportPool renders the player's dragon pool as plain records.
func (m *Manager) ExportPool(player string) ([]DragonRecord, error) {
	list, err := m.Pool(player)
	if err != nil {
		return nil, err
	}
	records := make([]DragonRecord, len(list))
	for i, d := range list {
		records[i] = DragonRecord{
			ID:        d.ID,
			Name:      d.Name,
			Form:      d.Form,
			TypeKey:   d.TypeKey,
			Elements:  pieces.CopyElements(d.Elements),
			Owner:     d.Owner,
			Health:    d.Health,
			MaxHealth: d.MaxHealth,
		}
	}
	return records, nil
}

// ImportPool replaces the player's dragon pool from plain records.
func (m *Manager) ImportPool(player string, records []DragonRecord) {
	dragons := make([]*pieces.Dragon, len(records))
	for i, r := range records {
		dragons[i] = &pieces.Dragon{
			ID:        r.ID,
			Name:      r.Name,
			Form:      r.Form,
			TypeKey:   r.TypeKey,
			Elements:  pieces.CopyElements(r.Elements),
			Owner:     r.Owner,
			Health:    r.Health,
			MaxHealth: r.MaxHealth,
		}
	}
	m.InitializePool(player, dragons)
}

// ExportTerrainPool renders the player's minor terrain pool as plain records.
func (m *Manager) ExportTerrainPool(player string) ([]TerrainRecord, error) {
	list, err := m.TerrainPool(player)
	if err != nil {
		return nil, err
	}
	records := make([]TerrainRecord, len(list))
	for i, t := range list {
		faces := make([]pieces.TerrainFace, len(t.Faces))
		copy(faces, t.Faces)
		records[i] = TerrainRecord{
			Name:       t.Name,
			EighthFace: t.EighthFace,
			Faces:      faces,
			Elements:   pieces.CopyElements(t.Elements),
		}
	}
	return records, nil
}

// ImportTerrainPool replaces the player's minor terrain pool from records.
func (m *Manager) ImportTerrainPool(player string, records []TerrainRecord) {
	terrains := make([]*pieces.MinorTerrain, len(records))
	for i, r := range records {
		faces := make([]pieces.TerrainFace, len(r.Faces))
		copy(faces, r.Faces)
		terrains[i] = &pieces.MinorTerrain{
			Name:       r.Name,
			EighthFace: r.EighthFace,
			Faces:      faces,
			Elements:   pieces.CopyElements(r.Elements),
		}
	}
	m.InitializeTerrainPool(player, terrains)
}
