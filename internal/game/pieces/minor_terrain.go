package pieces

import "fmt"

// MinorTerrainFaceCount is the number of faces on a minor terrain die.
const MinorTerrainFaceCount = 8

// TerrainFace is one face of a minor terrain die.
type TerrainFace struct {
	Name   string
	Effect string
}

// MinorTerrain is a single minor terrain die.
// Faces always holds exactly MinorTerrainFaceCount entries; the last is the
// eighth face named by EighthFace.
type MinorTerrain struct {
	Name       string
	EighthFace string
	Faces      []TerrainFace
	Elements   []Element
}

// baseTerrainNames maps a canonical element pair (or single element) to the
// major terrain family the minor terrain belongs to.
var baseTerrainNames = map[string]string{
	elementPairKey(ElementAir, ElementWater):   "Coastland",
	elementPairKey(ElementAir, ElementEarth):   "Flatland",
	elementPairKey(ElementFire, ElementEarth):  "Highland",
	elementPairKey(ElementWater, ElementEarth): "Swampland",
	elementPairKey(ElementAir, ElementFire):    "Wasteland",
	elementPairKey(ElementWater, ElementFire):  "Feyland",
	elementPairKey(ElementDeath):               "Deadland",
}

// elementPairKey builds an order-independent lookup key from 1 or 2 elements.
func elementPairKey(elements ...Element) string {
	if len(elements) == 1 {
		return string(elements[0])
	}
	a, b := string(elements[0]), string(elements[1])
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}

// BaseTerrainName derives the major terrain family from the element set.
func (mt *MinorTerrain) BaseTerrainName() (string, bool) {
	if len(mt.Elements) == 0 || len(mt.Elements) > 2 {
		return "", false
	}
	name, ok := baseTerrainNames[elementPairKey(mt.Elements...)]
	return name, ok
}

// Face returns the face at index i.
func (mt *MinorTerrain) Face(i int) (TerrainFace, error) {
	if i < 0 || i >= len(mt.Faces) {
		return TerrainFace{}, fmt.Errorf("face index %d out of range for %s", i, mt.Name)
	}
	return mt.Faces[i], nil
}

// HasElement reports whether the terrain's element set includes el.
func (mt *MinorTerrain) HasElement(el Element) bool {
	return ContainsElement(mt.Elements, el)
}

// Copy creates a deep copy of the minor terrain.
func (mt *MinorTerrain) Copy() *MinorTerrain {
	faces := make([]TerrainFace, len(mt.Faces))
	copy(faces, mt.Faces)
	return &MinorTerrain{
		Name:       mt.Name,
		EighthFace: mt.EighthFace,
		Faces:      faces,
		Elements:   CopyElements(mt.Elements),
	}
}
