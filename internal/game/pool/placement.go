package pool

import (
	"time"

	"github.com/dragondice/companion-server-go/internal/game/pieces"
)

// Placement is the single record type for a dragon deployed at a terrain.
// Every transfer path constructs this type, so a record produced by this
// package always carries its dragon ID; Validate exists for records that
// arrive from outside (save files).
type Placement struct {
	DragonID  string            `json:"dragon_id"`
	Name      string            `json:"name"`
	TypeKey   string            `json:"type_key"`
	Form      pieces.DragonForm `json:"form"`
	Elements  []pieces.Element  `json:"elements"`
	Owner     string            `json:"owner"`
	Health    int               `json:"health"`
	MaxHealth int               `json:"max_health"`
	Terrain   string            `json:"terrain"`
	PlacedAt  time.Time         `json:"placed_at"`
}

// newPlacement snapshots a dragon's attributes at the moment of summoning.
func newPlacement(d *pieces.Dragon, terrain string) Placement {
	return Placement{
		DragonID:  d.ID,
		Name:      d.Name,
		TypeKey:   d.TypeKey,
		Form:      d.Form,
		Elements:  pieces.CopyElements(d.Elements),
		Owner:     d.Owner,
		Health:    d.Health,
		MaxHealth: d.MaxHealth,
		Terrain:   terrain,
		PlacedAt:  time.Now(),
	}
}

// dragon reconstructs the dragon instance from the snapshot.
func (p Placement) dragon() *pieces.Dragon {
	return &pieces.Dragon{
		ID:        p.DragonID,
		Name:      p.Name,
		Form:      p.Form,
		TypeKey:   p.TypeKey,
		Elements:  pieces.CopyElements(p.Elements),
		Owner:     p.Owner,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
	}
}

// Validate reports whether the record is structurally sound. A missing
// dragon ID means corrupted state, not a not-found condition.
func (p Placement) Validate() error {
	if p.DragonID == "" {
		return ErrCorruptPlacement
	}
	return nil
}

// copyPlacements returns an independent copy of a placement list.
func copyPlacements(records []Placement) []Placement {
	out := make([]Placement, len(records))
	for i, r := range records {
		out[i] = r
		out[i].Elements = pieces.CopyElements(r.Elements)
	}
	return out
}
