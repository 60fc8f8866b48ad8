package pieces

import (
	"fmt"

	"github.com/google/uuid"
)

// DragonForm distinguishes the two physical dragon die shapes.
type DragonForm string

const (
	FormDrake DragonForm = "DRAKE"
	FormWyrm  DragonForm = "WYRM"
)

// DragonCategory classifies dragon types by their element makeup.
type DragonCategory int

const (
	CategoryElemental DragonCategory = iota
	CategoryHybrid
	CategoryIvory
	CategoryIvoryHybrid
	CategoryWhite
)

var dragonCategoryNames = map[DragonCategory]string{
	CategoryElemental:   "ELEMENTAL",
	CategoryHybrid:      "HYBRID",
	CategoryIvory:       "IVORY",
	CategoryIvoryHybrid: "IVORY_HYBRID",
	CategoryWhite:       "WHITE",
}

func (c DragonCategory) String() string {
	if name, ok := dragonCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CATEGORY_%d", int(c))
}

// DragonType is a static, read-only descriptor of a dragon die type.
// Hybrids carry exactly two elements; every other category carries one.
type DragonType struct {
	Key      string
	Name     string
	Category DragonCategory
	Elements []Element
}

// Health returns the starting and maximum health for this type.
// White dragons have ten health, all others five.
func (dt DragonType) Health() int {
	if dt.Category == CategoryWhite {
		return 10
	}
	return 5
}

// ForceValue returns the summoning force value of this type.
func (dt DragonType) ForceValue() int {
	if dt.Category == CategoryWhite {
		return 2
	}
	return 1
}

// Dragon is a single dragon die in play or in a summoning pool.
type Dragon struct {
	ID        string
	Name      string
	Form      DragonForm
	TypeKey   string
	Elements  []Element
	Owner     string
	Health    int
	MaxHealth int
}

// NewDragon creates a dragon instance of the given type for a player.
// Returns an error for unknown type keys.
func NewDragon(name string, typeKey string, form DragonForm, owner string) (*Dragon, error) {
	dt, ok := DragonTypeByKey(typeKey)
	if !ok {
		return nil, fmt.Errorf("unknown dragon type %q", typeKey)
	}
	if name == "" {
		name = dt.Name
	}
	return &Dragon{
		ID:        uuid.NewString(),
		Name:      name,
		Form:      form,
		TypeKey:   dt.Key,
		Elements:  CopyElements(dt.Elements),
		Owner:     owner,
		Health:    dt.Health(),
		MaxHealth: dt.Health(),
	}, nil
}

// TakeDamage reduces health, never below zero.
func (d *Dragon) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	d.Health -= amount
	if d.Health < 0 {
		d.Health = 0
	}
}

// Heal restores health, never above MaxHealth.
func (d *Dragon) Heal(amount int) {
	if amount <= 0 {
		return
	}
	d.Health += amount
	if d.Health > d.MaxHealth {
		d.Health = d.MaxHealth
	}
}

// IsDead reports whether the dragon has been reduced to zero health.
func (d *Dragon) IsDead() bool {
	return d.Health <= 0
}

// HasElement reports whether the dragon's element set includes el.
func (d *Dragon) HasElement(el Element) bool {
	return ContainsElement(d.Elements, el)
}

// Copy creates a deep copy of the dragon, preserving its ID.
func (d *Dragon) Copy() *Dragon {
	return &Dragon{
		ID:        d.ID,
		Name:      d.Name,
		Form:      d.Form,
		TypeKey:   d.TypeKey,
		Elements:  CopyElements(d.Elements),
		Owner:     d.Owner,
		Health:    d.Health,
		MaxHealth: d.MaxHealth,
	}
}
