package pieces

// Static descriptor tables. These carry a representative set of the printed
// dice; the lookup contract is the boundary the game logic depends on.

var dragonTypes = map[string]DragonType{
	"AIR_ELEMENTAL": {
		Key: "AIR_ELEMENTAL", Name: "Air Dragon",
		Category: CategoryElemental, Elements: []Element{ElementAir},
	},
	"DEATH_ELEMENTAL": {
		Key: "DEATH_ELEMENTAL", Name: "Death Dragon",
		Category: CategoryElemental, Elements: []Element{ElementDeath},
	},
	"EARTH_ELEMENTAL": {
		Key: "EARTH_ELEMENTAL", Name: "Earth Dragon",
		Category: CategoryElemental, Elements: []Element{ElementEarth},
	},
	"FIRE_ELEMENTAL": {
		Key: "FIRE_ELEMENTAL", Name: "Fire Dragon",
		Category: CategoryElemental, Elements: []Element{ElementFire},
	},
	"WATER_ELEMENTAL": {
		Key: "WATER_ELEMENTAL", Name: "Water Dragon",
		Category: CategoryElemental, Elements: []Element{ElementWater},
	},
	"AIR_FIRE_HYBRID": {
		Key: "AIR_FIRE_HYBRID", Name: "Air/Fire Hybrid Dragon",
		Category: CategoryHybrid, Elements: []Element{ElementAir, ElementFire},
	},
	"WATER_EARTH_HYBRID": {
		Key: "WATER_EARTH_HYBRID", Name: "Water/Earth Hybrid Dragon",
		Category: CategoryHybrid, Elements: []Element{ElementWater, ElementEarth},
	},
	"DEATH_FIRE_HYBRID": {
		Key: "DEATH_FIRE_HYBRID", Name: "Death/Fire Hybrid Dragon",
		Category: CategoryHybrid, Elements: []Element{ElementDeath, ElementFire},
	},
	"IVORY": {
		Key: "IVORY", Name: "Ivory Dragon",
		Category: CategoryIvory, Elements: []Element{ElementIvory},
	},
	"IVORY_EARTH": {
		Key: "IVORY_EARTH", Name: "Ivory Earth Dragon",
		Category: CategoryIvoryHybrid, Elements: []Element{ElementEarth},
	},
	"WHITE": {
		Key: "WHITE", Name: "White Dragon",
		Category: CategoryWhite, Elements: []Element{ElementWhite},
	},
}

// DragonTypeByKey returns the static descriptor for a dragon type key.
func DragonTypeByKey(key string) (DragonType, bool) {
	dt, ok := dragonTypes[key]
	return dt, ok
}

// DragonTypeKeys returns all known dragon type keys.
func DragonTypeKeys() []string {
	keys := make([]string, 0, len(dragonTypes))
	for k := range dragonTypes {
		keys = append(keys, k)
	}
	return keys
}

// minorTerrainFaces builds the standard seven action faces plus the eighth.
func minorTerrainFaces(eighth, eighthEffect string) []TerrainFace {
	return []TerrainFace{
		{Name: "ID", Effect: "Counts as one of any action result."},
		{Name: "Magic", Effect: "Army may count magic results this roll."},
		{Name: "Melee", Effect: "Army may count melee results this roll."},
		{Name: "Missile", Effect: "Army may count missile results this roll."},
		{Name: "Maneuver", Effect: "Army may count maneuver results this roll."},
		{Name: "Double Saves", Effect: "Army counts double save results this roll."},
		{Name: "Flood", Effect: "Bury this minor terrain; army loses maneuvers this turn."},
		{Name: eighth, Effect: eighthEffect},
	}
}

var minorTerrains = map[string]MinorTerrain{
	"COASTLAND_BRIDGE": {
		Name:       "Coastland Bridge",
		EighthFace: "Bridge",
		Faces:      minorTerrainFaces("Bridge", "Army may maneuver as if at a land terrain."),
		Elements:   []Element{ElementAir, ElementWater},
	},
	"FLATLAND_KNOLL": {
		Name:       "Flatland Knoll",
		EighthFace: "Knoll",
		Faces:      minorTerrainFaces("Knoll", "Army adds one missile result to its rolls."),
		Elements:   []Element{ElementAir, ElementEarth},
	},
	"HIGHLAND_FOREST": {
		Name:       "Highland Forest",
		EighthFace: "Forest",
		Faces:      minorTerrainFaces("Forest", "Army adds one save result to its rolls."),
		Elements:   []Element{ElementFire, ElementEarth},
	},
	"SWAMPLAND_VILLAGE": {
		Name:       "Swampland Village",
		EighthFace: "Village",
		Faces:      minorTerrainFaces("Village", "Army may recruit one small unit."),
		Elements:   []Element{ElementWater, ElementEarth},
	},
	"WASTELAND_VORTEX": {
		Name:       "Wasteland Vortex",
		EighthFace: "Vortex",
		Faces:      minorTerrainFaces("Vortex", "Army may reroll one die during magic rolls."),
		Elements:   []Element{ElementAir, ElementFire},
	},
	"DEADLAND_STANDING_STONES": {
		Name:       "Deadland Standing Stones",
		EighthFace: "Standing Stones",
		Faces:      minorTerrainFaces("Standing Stones", "Army may convert magic results to any element."),
		Elements:   []Element{ElementDeath},
	},
}

// MinorTerrainByKey returns a fresh instance of a minor terrain by key.
// The returned value is a copy; callers own it.
func MinorTerrainByKey(key string) (*MinorTerrain, bool) {
	mt, ok := minorTerrains[key]
	if !ok {
		return nil, false
	}
	return mt.Copy(), true
}

// MinorTerrainKeys returns all known minor terrain keys.
func MinorTerrainKeys() []string {
	keys := make([]string, 0, len(minorTerrains))
	for k := range minorTerrains {
		keys = append(keys, k)
	}
	return keys
}
