package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dragondice/companion-server-go/internal/game"
	"github.com/dragondice/companion-server-go/internal/game/pieces"
	"github.com/dragondice/companion-server-go/internal/game/rules"
	"github.com/dragondice/companion-server-go/internal/protocol"
	"github.com/dragondice/companion-server-go/internal/repository"
	"github.com/dragondice/companion-server-go/internal/session"
	"go.uber.org/zap"
)

const saveTimeout = 5 * time.Second

// Hub manages websocket connections for one game and dispatches client
// intents into the engine. Engine notifications fan out to every connected
// client.
type Hub struct {
	mu       sync.Mutex
	logger   *zap.Logger
	engine   *game.Engine
	sessions *session.Manager
	saves    *repository.SaveRepository // nil when persistence is disabled
	opts     HubOptions

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	quit       chan struct{}
}

// HubOptions carries the hub's tunables from configuration.
type HubOptions struct {
	MaxSessions int  // 0 disables the cap
	AutoSave    bool // persist after every accepted game action
}

// NewHub creates a hub over the engine. The saves repository may be nil.
func NewHub(engine *game.Engine, sessions *session.Manager, saves *repository.SaveRepository, opts HubOptions, logger *zap.Logger) *Hub {
	h := &Hub{
		logger:     logger,
		engine:     engine,
		sessions:   sessions,
		saves:      saves,
		opts:       opts,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		quit:       make(chan struct{}),
	}
	// Engine notifications reach clients as event messages. Delivery is
	// synchronous on the mutating goroutine, which is the hub loop itself
	// for everything driven through handleMessage.
	engine.Bus().Subscribe(func(evt rules.Event) {
		h.broadcastAll(protocol.MustEnvelope(protocol.MsgEvent, protocol.EventMsg{
			Type:    string(evt.Type),
			Player:  evt.Player,
			Terrain: evt.Terrain,
			Target:  evt.TargetID,
			Amount:  evt.Amount,
			Data:    evt.Data,
		}))
	})
	return h
}

// Run processes hub channels until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendStateToClient(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.SessionID != "" {
				h.sessions.Remove(client.SessionID)
			}

		case msg := <-h.incoming:
			h.handleMessage(msg)

		case <-h.quit:
			return
		}
	}
}

// Stop terminates the hub loop.
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	if msg.Client.SessionID != "" {
		h.sessions.Touch(msg.Client.SessionID)
	}

	switch msg.Envelope.Type {
	case protocol.MsgJoin:
		h.handleJoin(msg)
		return
	case protocol.MsgGetState:
		h.sendStateToClient(msg.Client)
		return
	case protocol.MsgSaveGame:
		h.handleSave(msg)
		return
	case protocol.MsgLoadGame:
		h.handleLoad(msg)
		return
	case protocol.MsgListSaves:
		h.handleListSaves(msg)
		return
	}

	if err := h.handleGameAction(msg); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.broadcastState()
	if h.opts.AutoSave && h.saves != nil {
		h.autoSave()
	}
}

func (h *Hub) handleJoin(msg IncomingMessage) {
	var join protocol.JoinMsg
	if err := json.Unmarshal(msg.Envelope.Payload, &join); err != nil {
		h.sendError(msg.Client, "invalid join message")
		return
	}
	if h.opts.MaxSessions > 0 && h.sessions.Count() >= h.opts.MaxSessions {
		h.sendError(msg.Client, "server is full")
		return
	}
	s := h.sessions.Create(join.Name)
	msg.Client.SessionID = s.ID
	msg.Client.PlayerName = join.Name
	msg.Client.SendEnvelope(protocol.MustEnvelope(protocol.MsgJoined, protocol.JoinedMsg{
		SessionID: s.ID,
		Name:      join.Name,
	}))
	h.sendStateToClient(msg.Client)
}

func (h *Hub) handleGameAction(msg IncomingMessage) error {
	pools := h.engine.Pools()
	march := h.engine.March()

	switch msg.Envelope.Type {
	case protocol.MsgInitPool:
		var m protocol.InitPoolMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid init_pool message")
		}
		dragons := make([]string, len(m.Dragons))
		for i, spec := range m.Dragons {
			dragons[i] = spec.TypeKey
		}
		h.engine.SetupPlayer(m.Player, dragons, m.TerrainKeys)

	case protocol.MsgAddDragon:
		var m protocol.AddDragonMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid add_dragon message")
		}
		form := pieces.DragonForm(m.Dragon.Form)
		if form == "" {
			form = pieces.FormDrake
		}
		dragon, err := pieces.NewDragon(m.Dragon.Name, m.Dragon.TypeKey, form, m.Player)
		if err != nil {
			return err
		}
		pools.AddDragon(m.Player, dragon)

	case protocol.MsgRemoveDragon:
		var m protocol.RemoveDragonMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid remove_dragon message")
		}
		if _, ok := pools.RemoveDragon(m.Player, m.Ref); !ok {
			return fmt.Errorf("dragon %q not in %s's pool", m.Ref, m.Player)
		}

	case protocol.MsgSummon:
		var m protocol.SummonMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid summon message")
		}
		if !pools.SummonToTerrain(m.Player, m.Ref, m.Terrain) {
			return fmt.Errorf("dragon %q not in %s's pool", m.Ref, m.Player)
		}

	case protocol.MsgReturnDragon, protocol.MsgKillDragon:
		var m protocol.DragonAtTerrainMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid dragon message")
		}
		var ok bool
		var err error
		if msg.Envelope.Type == protocol.MsgKillDragon {
			ok, err = pools.KillDragonAtTerrain(m.Terrain, m.DragonID)
		} else {
			ok, err = pools.ReturnToPool(m.Terrain, m.DragonID)
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("dragon %q not at %s", m.DragonID, m.Terrain)
		}

	case protocol.MsgDeployTerrain:
		var m protocol.DeployTerrainMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid deploy_terrain message")
		}
		terrain, ok := pools.RemoveMinorTerrain(m.Player, m.Name)
		if !ok {
			return fmt.Errorf("minor terrain %q not in %s's pool", m.Name, m.Player)
		}
		if err := h.engine.BUA().Deploy(m.Player, terrain, m.MajorTerrain); err != nil {
			pools.AddMinorTerrain(m.Player, terrain)
			return err
		}

	case protocol.MsgSetTerrainFace:
		var m protocol.SetTerrainFaceMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid set_terrain_face message")
		}
		if !h.engine.BUA().SetFace(m.MajorTerrain, m.Name, m.FaceIndex) {
			return fmt.Errorf("minor terrain %q not at %s", m.Name, m.MajorTerrain)
		}

	case protocol.MsgBuryTerrain:
		var m protocol.BuryTerrainMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid bury_terrain message")
		}
		if err := h.engine.Transfer().BuryToPool(m.MajorTerrain, m.Name, m.Player); err != nil {
			return err
		}

	case protocol.MsgStoreTerrain:
		var m protocol.TerrainMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid store_terrain message")
		}
		if err := h.engine.Transfer().PoolToBUA(m.Player, m.Name); err != nil {
			return err
		}

	case protocol.MsgRetrieveTerrain:
		var m protocol.TerrainMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid retrieve_terrain message")
		}
		if err := h.engine.Transfer().BUAToPool(m.Player, m.Name); err != nil {
			return err
		}

	case protocol.MsgDecideManeuver:
		var m protocol.DecideManeuverMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid decide_maneuver message")
		}
		march.DecideManeuver(m.Maneuver)

	case protocol.MsgSubmitManeuver:
		var m protocol.SubmitManeuverMsg
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			return fmt.Errorf("invalid submit_maneuver message")
		}
		march.SubmitManeuverInput(m.Details)

	case protocol.MsgRollMarch:
		march.RecordMarchRoll()

	case protocol.MsgCompleteMarch:
		march.CompleteMarch()

	case protocol.MsgAdvanceTurn:
		h.engine.Turn().AdvanceTurn()

	default:
		return fmt.Errorf("unknown message type %q", msg.Envelope.Type)
	}
	return nil
}

func (h *Hub) handleSave(msg IncomingMessage) {
	if h.saves == nil {
		h.sendError(msg.Client, "persistence is disabled")
		return
	}
	var m protocol.SaveGameMsg
	if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
		h.sendError(msg.Client, "invalid save_game message")
		return
	}
	snap, err := h.engine.Snapshot()
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	data, err := snap.Marshal()
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	checksum := snap.Checksum()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	id, err := h.saves.Save(ctx, m.Name, data, checksum)
	if err != nil {
		h.logger.Error("save failed", zap.String("name", m.Name), zap.Error(err))
		h.sendError(msg.Client, "save failed")
		return
	}

	h.engine.Bus().Publish(rules.NewEvent(rules.EventGameSaved, ""))
	msg.Client.SendEnvelope(protocol.MustEnvelope(protocol.MsgSaved, protocol.SavedMsg{
		Name:     m.Name,
		SaveID:   id,
		Checksum: checksum,
	}))
}

func (h *Hub) handleLoad(msg IncomingMessage) {
	if h.saves == nil {
		h.sendError(msg.Client, "persistence is disabled")
		return
	}
	var m protocol.LoadGameMsg
	if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
		h.sendError(msg.Client, "invalid load_game message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	data, checksum, err := h.saves.LoadLatest(ctx, m.Name)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	snap, err := game.UnmarshalSnapshot(data)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	if got := snap.Checksum(); got != checksum {
		h.logger.Error("save checksum mismatch",
			zap.String("name", m.Name),
			zap.String("stored", checksum),
			zap.String("computed", got),
		)
		h.sendError(msg.Client, "save is corrupted")
		return
	}
	if err := h.engine.Restore(snap); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	msg.Client.SendEnvelope(protocol.MustEnvelope(protocol.MsgLoaded, protocol.LoadedMsg{
		Name:     m.Name,
		Checksum: checksum,
	}))
	h.broadcastState()
}

func (h *Hub) handleListSaves(msg IncomingMessage) {
	if h.saves == nil {
		h.sendError(msg.Client, "persistence is disabled")
		return
	}
	var m protocol.ListSavesMsg
	if len(msg.Envelope.Payload) > 0 {
		if err := json.Unmarshal(msg.Envelope.Payload, &m); err != nil {
			h.sendError(msg.Client, "invalid list_saves message")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	infos, err := h.saves.List(ctx, m.Limit)
	if err != nil {
		h.logger.Error("list saves failed", zap.Error(err))
		h.sendError(msg.Client, "list saves failed")
		return
	}

	out := protocol.SavesMsg{Saves: make([]protocol.SaveInfoMsg, len(infos))}
	for i, info := range infos {
		out.Saves[i] = protocol.SaveInfoMsg{
			SaveID:    info.ID,
			Name:      info.GameName,
			Checksum:  info.Checksum,
			CreatedAt: info.CreatedAt.Format(time.RFC3339),
		}
	}
	msg.Client.SendEnvelope(protocol.MustEnvelope(protocol.MsgSaves, out))
}

// autoSave persists the current state under a fixed name after accepted
// actions. Failures are logged, not surfaced to clients.
func (h *Hub) autoSave() {
	snap, err := h.engine.Snapshot()
	if err != nil {
		h.logger.Error("autosave snapshot failed", zap.Error(err))
		return
	}
	data, err := snap.Marshal()
	if err != nil {
		h.logger.Error("autosave marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if _, err := h.saves.Save(ctx, "autosave", data, snap.Checksum()); err != nil {
		h.logger.Error("autosave failed", zap.Error(err))
	}
}

func (h *Hub) broadcastState() {
	env := protocol.MustEnvelope(protocol.MsgState, h.engine.View())
	h.broadcastAll(env)
}

func (h *Hub) sendStateToClient(client *Client) {
	client.SendEnvelope(protocol.MustEnvelope(protocol.MsgState, h.engine.View()))
}

func (h *Hub) broadcastAll(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("broadcast marshal error", zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("client buffer full",
				zap.String("player", client.PlayerName),
			)
		}
	}
}

func (h *Hub) sendError(client *Client, message string) {
	client.SendEnvelope(protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{Message: message}))
}
