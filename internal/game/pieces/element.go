package pieces

// Element represents one of the Dragon Dice elements.
type Element string

const (
	ElementAir   Element = "AIR"
	ElementDeath Element = "DEATH"
	ElementEarth Element = "EARTH"
	ElementFire  Element = "FIRE"
	ElementWater Element = "WATER"

	// ElementWhite marks White dragons, which belong to every element and none.
	ElementWhite Element = "WHITE"
	// ElementIvory marks Ivory dragons, which can be summoned by any element.
	ElementIvory Element = "IVORY"
)

// ElementInfo describes an element for display purposes.
type ElementInfo struct {
	Key   Element
	Name  string
	Color string
}

var elementTable = map[Element]ElementInfo{
	ElementAir:   {Key: ElementAir, Name: "Air", Color: "blue"},
	ElementDeath: {Key: ElementDeath, Name: "Death", Color: "black"},
	ElementEarth: {Key: ElementEarth, Name: "Earth", Color: "yellow"},
	ElementFire:  {Key: ElementFire, Name: "Fire", Color: "red"},
	ElementWater: {Key: ElementWater, Name: "Water", Color: "green"},
	ElementWhite: {Key: ElementWhite, Name: "White", Color: "white"},
	ElementIvory: {Key: ElementIvory, Name: "Ivory", Color: "ivory"},
}

// ElementByKey returns the descriptor for an element key.
func ElementByKey(key Element) (ElementInfo, bool) {
	info, ok := elementTable[key]
	return info, ok
}

// ContainsElement reports whether the element set includes the given element.
func ContainsElement(set []Element, el Element) bool {
	for _, e := range set {
		if e == el {
			return true
		}
	}
	return false
}

// CopyElements returns an independent copy of an element set.
func CopyElements(set []Element) []Element {
	if set == nil {
		return nil
	}
	out := make([]Element, len(set))
	copy(out, set)
	return out
}
