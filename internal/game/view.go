package game

import (
	"github.com/dragondice/companion-server-go/internal/game/bua"
	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/pool"
)

// StateView is the complete game state as rendered for a client.
type StateView struct {
	Turn          int    `json:"turn"`
	CurrentPlayer string `json:"current_player"`
	Phase         string `json:"phase"`
	MarchStep     string `json:"march_step"`

	Players  []PlayerView  `json:"players"`
	Terrains []TerrainView `json:"terrains"`
}

// PlayerView is one player's pools as rendered for a client.
type PlayerView struct {
	Name     string             `json:"name"`
	Dragons  []DragonView       `json:"dragons"`
	Terrains []MinorTerrainView `json:"minor_terrains"`
	Stored   []MinorTerrainView `json:"stored"`
}

// DragonView is a dragon as rendered for a client.
type DragonView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Form      string           `json:"form"`
	TypeKey   string           `json:"type_key"`
	Elements  []pieces.Element `json:"elements"`
	Health    int              `json:"health"`
	MaxHealth int              `json:"max_health"`
}

// MinorTerrainView is a minor terrain as rendered for a client.
type MinorTerrainView struct {
	Name        string           `json:"name"`
	EighthFace  string           `json:"eighth_face"`
	Elements    []pieces.Element `json:"elements"`
	BaseTerrain string           `json:"base_terrain,omitempty"`
	FaceIndex   int              `json:"face_index"`
	Controller  string           `json:"controller,omitempty"`
	Buried      bool             `json:"buried"`
}

// TerrainView is a major terrain with everything deployed at it.
type TerrainView struct {
	Name          string             `json:"name"`
	Dragons       []DragonView       `json:"dragons"`
	MinorTerrains []MinorTerrainView `json:"minor_terrains"`
}

// View renders the engine's current state for clients.
func (e *Engine) View() StateView {
	view := StateView{
		Turn:          e.turn.Turn(),
		CurrentPlayer: e.turn.CurrentPlayer(),
		Phase:         e.march.CurrentPhase().String(),
		MarchStep:     e.march.CurrentStep().String(),
	}

	for _, name := range e.turn.PlayerNames() {
		pv := PlayerView{Name: name}
		if dragons, err := e.pools.Pool(name); err == nil {
			for _, d := range dragons {
				pv.Dragons = append(pv.Dragons, dragonView(d))
			}
		}
		if terrains, err := e.pools.TerrainPool(name); err == nil {
			for _, t := range terrains {
				pv.Terrains = append(pv.Terrains, minorTerrainView(t))
			}
		}
		for _, t := range e.bua.Stored(name) {
			pv.Stored = append(pv.Stored, minorTerrainView(t))
		}
		view.Players = append(view.Players, pv)
	}

	seen := make(map[string]*TerrainView)
	order := []string{}
	for _, terrain := range e.pools.TerrainsWithPlacements() {
		tv := &TerrainView{Name: terrain}
		for _, p := range e.pools.PlacementsAt(terrain) {
			tv.Dragons = append(tv.Dragons, placementView(p))
		}
		seen[terrain] = tv
		order = append(order, terrain)
	}
	for _, terrain := range e.bua.DeployedMajors() {
		tv, ok := seen[terrain]
		if !ok {
			tv = &TerrainView{Name: terrain}
			seen[terrain] = tv
			order = append(order, terrain)
		}
		for _, p := range e.bua.PlacementsAt(terrain) {
			tv.MinorTerrains = append(tv.MinorTerrains, deployedView(p))
		}
	}
	for _, terrain := range order {
		view.Terrains = append(view.Terrains, *seen[terrain])
	}
	return view
}

func dragonView(d *pieces.Dragon) DragonView {
	return DragonView{
		ID:        d.ID,
		Name:      d.Name,
		Form:      string(d.Form),
		TypeKey:   d.TypeKey,
		Elements:  pieces.CopyElements(d.Elements),
		Health:    d.Health,
		MaxHealth: d.MaxHealth,
	}
}

func placementView(p pool.Placement) DragonView {
	return DragonView{
		ID:        p.DragonID,
		Name:      p.Name,
		Form:      string(p.Form),
		TypeKey:   p.TypeKey,
		Elements:  pieces.CopyElements(p.Elements),
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
	}
}

func minorTerrainView(t *pieces.MinorTerrain) MinorTerrainView {
	view := MinorTerrainView{
		Name:       t.Name,
		EighthFace: t.EighthFace,
		Elements:   pieces.CopyElements(t.Elements),
	}
	if base, ok := t.BaseTerrainName(); ok {
		view.BaseTerrain = base
	}
	return view
}

func deployedView(p bua.TerrainPlacement) MinorTerrainView {
	view := MinorTerrainView{
		FaceIndex:  p.FaceIndex,
		Controller: p.Controller,
		Buried:     p.Buried,
	}
	if p.Terrain != nil {
		view.Name = p.Terrain.Name
		view.EighthFace = p.Terrain.EighthFace
		view.Elements = pieces.CopyElements(p.Terrain.Elements)
		if base, ok := p.Terrain.BaseTerrainName(); ok {
			view.BaseTerrain = base
		}
	}
	return view
}
