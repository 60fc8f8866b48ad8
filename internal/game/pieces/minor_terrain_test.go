package pieces

import "testing"

func TestMinorTerrainFaceCount(t *testing.T) {
	for _, key := range MinorTerrainKeys() {
		mt, ok := MinorTerrainByKey(key)
		if !ok {
			t.Fatalf("registry returned false for its own key %s", key)
		}
		if len(mt.Faces) != MinorTerrainFaceCount {
			t.Errorf("%s: expected %d faces, got %d", key, MinorTerrainFaceCount, len(mt.Faces))
		}
		if mt.Faces[len(mt.Faces)-1].Name != mt.EighthFace {
			t.Errorf("%s: last face %q should match eighth face %q",
				key, mt.Faces[len(mt.Faces)-1].Name, mt.EighthFace)
		}
	}
}

func TestBaseTerrainName(t *testing.T) {
	cases := []struct {
		elements []Element
		want     string
	}{
		{[]Element{ElementAir, ElementWater}, "Coastland"},
		{[]Element{ElementWater, ElementAir}, "Coastland"}, // order-independent
		{[]Element{ElementFire, ElementEarth}, "Highland"},
		{[]Element{ElementDeath}, "Deadland"},
	}
	for _, tc := range cases {
		mt := &MinorTerrain{Name: "test", Elements: tc.elements}
		got, ok := mt.BaseTerrainName()
		if !ok {
			t.Errorf("elements %v: expected base terrain lookup to succeed", tc.elements)
			continue
		}
		if got != tc.want {
			t.Errorf("elements %v: expected %s, got %s", tc.elements, tc.want, got)
		}
	}

	unknown := &MinorTerrain{Name: "test", Elements: []Element{ElementFire}}
	if _, ok := unknown.BaseTerrainName(); ok {
		t.Error("expected no base terrain for a lone fire element")
	}
}

func TestMinorTerrainByKeyReturnsCopy(t *testing.T) {
	a, _ := MinorTerrainByKey("COASTLAND_BRIDGE")
	b, _ := MinorTerrainByKey("COASTLAND_BRIDGE")
	a.Faces[0].Name = "mutated"
	if b.Faces[0].Name == "mutated" {
		t.Error("registry instances should be independent copies")
	}
}

func TestFaceIndexRange(t *testing.T) {
	mt, _ := MinorTerrainByKey("HIGHLAND_FOREST")
	if _, err := mt.Face(7); err != nil {
		t.Errorf("face 7 should exist: %v", err)
	}
	if _, err := mt.Face(8); err == nil {
		t.Error("face 8 should be out of range")
	}
	if _, err := mt.Face(-1); err == nil {
		t.Error("face -1 should be out of range")
	}
}
