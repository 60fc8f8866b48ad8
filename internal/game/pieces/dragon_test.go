package pieces

import (
	"testing"
)

func TestDragonTypeHealthAndForce(t *testing.T) {
	white, ok := DragonTypeByKey("WHITE")
	if !ok {
		t.Fatal("expected WHITE dragon type to exist")
	}
	if white.Health() != 10 {
		t.Errorf("expected White health 10, got %d", white.Health())
	}
	if white.ForceValue() != 2 {
		t.Errorf("expected White force value 2, got %d", white.ForceValue())
	}

	fire, ok := DragonTypeByKey("FIRE_ELEMENTAL")
	if !ok {
		t.Fatal("expected FIRE_ELEMENTAL dragon type to exist")
	}
	if fire.Health() != 5 {
		t.Errorf("expected elemental health 5, got %d", fire.Health())
	}
	if fire.ForceValue() != 1 {
		t.Errorf("expected elemental force value 1, got %d", fire.ForceValue())
	}
}

func TestDragonTypeElementCardinality(t *testing.T) {
	for _, key := range DragonTypeKeys() {
		dt, _ := DragonTypeByKey(key)
		want := 1
		if dt.Category == CategoryHybrid {
			want = 2
		}
		if len(dt.Elements) != want {
			t.Errorf("%s: expected %d elements for category %s, got %d",
				key, want, dt.Category, len(dt.Elements))
		}
	}
}

func TestNewDragonUnknownType(t *testing.T) {
	if _, err := NewDragon("", "NO_SUCH_TYPE", FormDrake, "Alice"); err == nil {
		t.Error("expected error for unknown dragon type")
	}
}

func TestDragonDamageAndHeal(t *testing.T) {
	d, err := NewDragon("Scorch", "FIRE_ELEMENTAL", FormWyrm, "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Health != 5 || d.MaxHealth != 5 {
		t.Fatalf("expected 5/5 health, got %d/%d", d.Health, d.MaxHealth)
	}

	d.TakeDamage(3)
	if d.Health != 2 {
		t.Errorf("expected health 2 after 3 damage, got %d", d.Health)
	}
	if d.IsDead() {
		t.Error("dragon with 2 health should not be dead")
	}

	// Damage never goes below zero.
	d.TakeDamage(10)
	if d.Health != 0 {
		t.Errorf("expected health clamped to 0, got %d", d.Health)
	}
	if !d.IsDead() {
		t.Error("dragon with 0 health should be dead")
	}

	// Healing never exceeds max.
	d.Heal(100)
	if d.Health != d.MaxHealth {
		t.Errorf("expected health capped at %d, got %d", d.MaxHealth, d.Health)
	}

	// Non-positive amounts are no-ops.
	d.TakeDamage(-1)
	d.Heal(-1)
	if d.Health != d.MaxHealth {
		t.Errorf("expected health unchanged, got %d", d.Health)
	}
}

func TestDragonCopyPreservesID(t *testing.T) {
	d, _ := NewDragon("", "AIR_ELEMENTAL", FormDrake, "Bob")
	d.TakeDamage(2)
	cp := d.Copy()
	if cp.ID != d.ID || cp.Health != d.Health || cp.Owner != d.Owner {
		t.Error("copy should preserve id, health and owner")
	}
	cp.TakeDamage(1)
	if d.Health == cp.Health {
		t.Error("mutating the copy should not affect the original")
	}
}
