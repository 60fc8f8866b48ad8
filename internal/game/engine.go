package game

import (
	"github.com/dragondice/companion-server-go/internal/game/bua"
	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/pool"
	"github.com/dragondice/companion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Engine owns one game's state: the shared turn record, the march state
// machine, the summoning pools and the built-up area. All consumers reach
// game state through it; change notifications flow out over its event bus.
type Engine struct {
	logger *zap.Logger
	bus    *rules.EventBus

	turn     *rules.TurnState
	march    *rules.MarchEngine
	pools    *pool.Manager
	bua      *bua.Manager
	transfer *bua.Transfer
}

// NewEngine creates a game for the given players in turn order.
func NewEngine(playerNames []string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := rules.NewEventBus()
	turn := rules.NewTurnState(playerNames, bus)
	pools := pool.NewManager(bus, logger)
	buaMgr := bua.NewManager(bus, logger)

	e := &Engine{
		logger:   logger,
		bus:      bus,
		turn:     turn,
		march:    rules.NewMarchEngine(turn, bus, logger),
		pools:    pools,
		bua:      buaMgr,
		transfer: bua.NewTransfer(pools, buaMgr, logger),
	}
	logger.Info("game engine created",
		zap.Strings("players", turn.PlayerNames()),
	)
	return e
}

// Bus returns the engine's event bus for observers to subscribe to.
func (e *Engine) Bus() *rules.EventBus { return e.bus }

// Turn returns the shared turn state record.
func (e *Engine) Turn() *rules.TurnState { return e.turn }

// March returns the march-phase state machine.
func (e *Engine) March() *rules.MarchEngine { return e.march }

// Pools returns the summoning pool manager.
func (e *Engine) Pools() *pool.Manager { return e.pools }

// BUA returns the built-up-area manager.
func (e *Engine) BUA() *bua.Manager { return e.bua }

// Transfer returns the pool/BUA transfer coordinator.
func (e *Engine) Transfer() *bua.Transfer { return e.transfer }

// SetupPlayer builds a player's starting pools from type keys. Unknown keys
// are skipped with a warning rather than aborting setup.
func (e *Engine) SetupPlayer(player string, dragonTypes []string, terrainKeys []string) {
	dragons := make([]*pieces.Dragon, 0, len(dragonTypes))
	for _, key := range dragonTypes {
		d, err := pieces.NewDragon("", key, pieces.FormDrake, player)
		if err != nil {
			e.logger.Warn("skipping unknown dragon type",
				zap.String("player", player),
				zap.String("type", key),
			)
			continue
		}
		dragons = append(dragons, d)
	}
	e.pools.InitializePool(player, dragons)

	terrains := make([]*pieces.MinorTerrain, 0, len(terrainKeys))
	for _, key := range terrainKeys {
		t, ok := pieces.MinorTerrainByKey(key)
		if !ok {
			e.logger.Warn("skipping unknown minor terrain",
				zap.String("player", player),
				zap.String("key", key),
			)
			continue
		}
		terrains = append(terrains, t)
	}
	e.pools.InitializeTerrainPool(player, terrains)
}
