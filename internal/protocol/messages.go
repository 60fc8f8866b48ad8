package protocol

// Client -> server message types.
const (
	MsgJoin            = "join"
	MsgGetState        = "get_state"
	MsgInitPool        = "init_pool"
	MsgAddDragon       = "add_dragon"
	MsgRemoveDragon    = "remove_dragon"
	MsgSummon          = "summon"
	MsgReturnDragon    = "return_dragon"
	MsgKillDragon      = "kill_dragon"
	MsgDeployTerrain   = "deploy_terrain"
	MsgSetTerrainFace  = "set_terrain_face"
	MsgBuryTerrain     = "bury_terrain"
	MsgStoreTerrain    = "store_terrain"
	MsgRetrieveTerrain = "retrieve_terrain"
	MsgDecideManeuver  = "decide_maneuver"
	MsgSubmitManeuver  = "submit_maneuver"
	MsgRollMarch       = "roll_march"
	MsgCompleteMarch   = "complete_march"
	MsgAdvanceTurn     = "advance_turn"
	MsgSaveGame        = "save_game"
	MsgLoadGame        = "load_game"
	MsgListSaves       = "list_saves"
)

// Server -> client message types.
const (
	MsgState  = "state"
	MsgEvent  = "event"
	MsgJoined = "joined"
	MsgSaved  = "saved"
	MsgLoaded = "loaded"
	MsgSaves  = "saves"
	MsgError  = "error"
)

// JoinMsg registers the connection under a player name.
type JoinMsg struct {
	Name string `json:"name"`
}

// JoinedMsg acknowledges a join with the issued session ID.
type JoinedMsg struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// DragonSpec describes a dragon to create during pool setup.
type DragonSpec struct {
	TypeKey string `json:"type_key"`
	Form    string `json:"form,omitempty"`
	Name    string `json:"name,omitempty"`
}

// InitPoolMsg replaces a player's pools wholesale.
type InitPoolMsg struct {
	Player      string       `json:"player"`
	Dragons     []DragonSpec `json:"dragons"`
	TerrainKeys []string     `json:"terrain_keys"`
}

// AddDragonMsg adds one dragon to a player's pool.
type AddDragonMsg struct {
	Player string     `json:"player"`
	Dragon DragonSpec `json:"dragon"`
}

// RemoveDragonMsg removes a dragon (by ID or name) from a player's pool.
type RemoveDragonMsg struct {
	Player string `json:"player"`
	Ref    string `json:"ref"`
}

// SummonMsg moves a dragon from a pool to a terrain.
type SummonMsg struct {
	Player  string `json:"player"`
	Ref     string `json:"ref"`
	Terrain string `json:"terrain"`
}

// DragonAtTerrainMsg identifies a deployed dragon.
type DragonAtTerrainMsg struct {
	Terrain  string `json:"terrain"`
	DragonID string `json:"dragon_id"`
}

// TerrainMsg identifies a minor terrain in a player's pool or storage.
type TerrainMsg struct {
	Player string `json:"player"`
	Name   string `json:"name"`
}

// DeployTerrainMsg places a pooled minor terrain at a major terrain.
type DeployTerrainMsg struct {
	Player       string `json:"player"`
	Name         string `json:"name"`
	MajorTerrain string `json:"major_terrain"`
}

// SetTerrainFaceMsg turns a deployed minor terrain to a face.
type SetTerrainFaceMsg struct {
	MajorTerrain string `json:"major_terrain"`
	Name         string `json:"name"`
	FaceIndex    int    `json:"face_index"`
}

// BuryTerrainMsg buries a deployed minor terrain, returning it to a pool.
type BuryTerrainMsg struct {
	MajorTerrain string `json:"major_terrain"`
	Name         string `json:"name"`
	Player       string `json:"player"`
}

// DecideManeuverMsg records the active player's maneuver decision.
type DecideManeuverMsg struct {
	Maneuver bool `json:"maneuver"`
}

// SubmitManeuverMsg carries maneuver details.
type SubmitManeuverMsg struct {
	Details string `json:"details"`
}

// SaveGameMsg stores the current state under a name.
type SaveGameMsg struct {
	Name string `json:"name"`
}

// LoadGameMsg restores the newest save for a name.
type LoadGameMsg struct {
	Name string `json:"name"`
}

// SavedMsg acknowledges a save.
type SavedMsg struct {
	Name     string `json:"name"`
	SaveID   int64  `json:"save_id"`
	Checksum string `json:"checksum"`
}

// LoadedMsg acknowledges a load.
type LoadedMsg struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}

// ListSavesMsg requests save metadata, newest first.
type ListSavesMsg struct {
	Limit int `json:"limit,omitempty"`
}

// SaveInfoMsg describes one stored save.
type SaveInfoMsg struct {
	SaveID    int64  `json:"save_id"`
	Name      string `json:"name"`
	Checksum  string `json:"checksum"`
	CreatedAt string `json:"created_at"`
}

// SavesMsg carries save listings.
type SavesMsg struct {
	Saves []SaveInfoMsg `json:"saves"`
}

// EventMsg is a change notification pushed to clients.
type EventMsg struct {
	Type    string `json:"type"`
	Player  string `json:"player,omitempty"`
	Terrain string `json:"terrain,omitempty"`
	Target  string `json:"target,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Data    string `json:"data,omitempty"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	Message string `json:"message"`
}
