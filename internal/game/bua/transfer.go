package bua

import (
	"fmt"

	"github.com/dragondice/companion-server-go/internal/game/pool"
	"go.uber.org/zap"
)

// Transfer coordinates moving minor terrains between the summoning pool and
// the built-up area. Both legs are owned here so the first leg can be rolled
// back when the second fails; callers never observe a half-moved terrain.
type Transfer struct {
	pools  *pool.Manager
	bua    *Manager
	logger *zap.Logger
}

// NewTransfer creates a transfer coordinator over the two managers.
func NewTransfer(pools *pool.Manager, bua *Manager, logger *zap.Logger) *Transfer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transfer{pools: pools, bua: bua, logger: logger}
}

// PoolToBUA moves a minor terrain from the player's summoning pool into
// their built-up area.
func (t *Transfer) PoolToBUA(player, name string) error {
	terrain, ok := t.pools.RemoveMinorTerrain(player, name)
	if !ok {
		return fmt.Errorf("minor terrain %q not in %s's pool", name, player)
	}
	if err := t.bua.PlaceMinorTerrain(player, terrain); err != nil {
		// Roll the first leg back so the terrain is not lost.
		t.pools.AddMinorTerrain(player, terrain)
		t.logger.Warn("pool-to-bua transfer rolled back",
			zap.String("player", player),
			zap.String("terrain", name),
			zap.Error(err),
		)
		return fmt.Errorf("store %q in built-up area: %w", name, err)
	}
	return nil
}

// BUAToPool moves a minor terrain from the player's built-up area back into
// their summoning pool.
func (t *Transfer) BUAToPool(player, name string) error {
	terrain, ok := t.bua.RemoveMinorTerrain(player, name)
	if !ok {
		return fmt.Errorf("minor terrain %q not in %s's built-up area", name, player)
	}
	t.pools.AddMinorTerrain(player, terrain)
	return nil
}

// BuryToPool removes a deployed minor terrain from a major terrain and
// returns it to the controller's summoning pool, per the burial rule.
func (t *Transfer) BuryToPool(majorTerrain, name, player string) error {
	terrain, ok := t.bua.Bury(majorTerrain, name)
	if !ok {
		return fmt.Errorf("minor terrain %q not deployed at %s", name, majorTerrain)
	}
	t.pools.AddMinorTerrain(player, terrain)
	return nil
}
