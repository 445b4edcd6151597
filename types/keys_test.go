package types

import "testing"

func TestLegoUniqueID_Deterministic(t *testing.T) {
	a := LegoUniqueID("lego-1", "stamp-1")
	b := LegoUniqueID("lego-1", "stamp-1")
	if a != b {
		t.Errorf("LegoUniqueID not deterministic: %s != %s", a, b)
	}
}

func TestLegoUniqueID_DistinctPerVersion(t *testing.T) {
	a := LegoUniqueID("lego-1", "stamp-1")
	b := LegoUniqueID("lego-1", "stamp-2")
	if a == b {
		t.Error("different stamps must produce different uniqueIds")
	}
}

func TestLegoUniqueID_NoConcatenationCollision(t *testing.T) {
	// "ab"+"c" and "a"+"bc" concatenate identically; the composite key
	// must still tell them apart.
	a := LegoUniqueID("ab", "c")
	b := LegoUniqueID("a", "bc")
	if a == b {
		t.Error("composite key collides on shifted boundary")
	}
}

func TestPncsKey_Deterministic(t *testing.T) {
	if PncsKey(7, "x") != PncsKey(7, "x") {
		t.Error("PncsKey not deterministic")
	}
	if PncsKey(7, "x") == PncsKey(7, "y") {
		t.Error("PncsKey ignores value")
	}
	if PncsKey(7, "x") == PncsKey(8, "x") {
		t.Error("PncsKey ignores id")
	}
}

func TestConceptKey_TupleIdentity(t *testing.T) {
	a := Concept{UUID: "u1", SCTID: 12}
	b := Concept{UUID: "u1", SCTID: 12}
	c := Concept{UUID: "u1", SCTID: 13}
	if !a.Same(b) {
		t.Error("identical concepts not same")
	}
	if a.Same(c) {
		t.Error("concepts differing in SCTID reported same")
	}
}

func TestLego_ConceptIdentifiers(t *testing.T) {
	lego := &Lego{
		UUID: "l1",
		Assertions: []*Assertion{{
			UUID: "a1",
			Discernible: &Expression{
				Concept: &Concept{SCTID: 404684003},
				Relations: []*Relation{{
					Type:        &Concept{SCTID: 246075003},
					Destination: Destination{Concept: &Concept{UUID: "dest-uuid"}},
				}},
			},
			Qualifier: &Expression{Concept: &Concept{SCTID: 246075003}}, // duplicate
		}},
	}
	ids := lego.ConceptIdentifiers()
	if len(ids) != 3 {
		t.Fatalf("ConceptIdentifiers() = %v, want 3 distinct identifiers", ids)
	}
}

func TestLego_UsedAssertionUUIDs_Dedup(t *testing.T) {
	lego := &Lego{
		UUID: "l1",
		Assertions: []*Assertion{
			{UUID: "a1", Components: []*AssertionComponent{{AssertionUUID: "x"}, {AssertionUUID: "x"}}},
			{UUID: "a2", Components: []*AssertionComponent{{AssertionUUID: "y"}}},
		},
	}
	used := lego.UsedAssertionUUIDs()
	if len(used) != 2 {
		t.Errorf("UsedAssertionUUIDs() = %v, want [x y]", used)
	}
}
