package filter

import (
	"testing"

	"github.com/openterm/legostore/types"
)

func key(sctid int64) types.ConceptKey {
	return types.Concept{SCTID: sctid}.Key()
}

func TestMemoCache_PutGet(t *testing.T) {
	c, err := newMemoCache(10)
	if err != nil {
		t.Fatal(err)
	}

	c.put(key(1), key(100), true)
	c.put(key(1), key(200), false)

	if got, ok := c.get(key(1), key(100)); !ok || !got {
		t.Errorf("get(1, 100) = (%v, %v), want (true, true)", got, ok)
	}
	if got, ok := c.get(key(1), key(200)); !ok || got {
		t.Errorf("get(1, 200) = (%v, %v), want (false, true)", got, ok)
	}
	if _, ok := c.get(key(1), key(300)); ok {
		t.Error("get hit for a filter concept never stored")
	}
	if _, ok := c.get(key(2), key(100)); ok {
		t.Error("get hit for a candidate never stored")
	}
}

func TestMemoCache_OuterEvictionIsBounded(t *testing.T) {
	c, err := newMemoCache(2)
	if err != nil {
		t.Fatal(err)
	}

	c.put(key(1), key(100), true)
	c.put(key(2), key(100), true)

	// Refresh access order for candidate 1, then overflow
	c.get(key(1), key(100))
	c.put(key(3), key(100), true)

	if c.len() != 2 {
		t.Errorf("cache len = %d, want bound of 2", c.len())
	}
	if _, ok := c.get(key(2), key(100)); ok {
		t.Error("least-recently-used candidate survived eviction")
	}
	if _, ok := c.get(key(1), key(100)); !ok {
		t.Error("recently-read candidate was evicted")
	}
}

func TestMemoCache_Evict(t *testing.T) {
	c, err := newMemoCache(10)
	if err != nil {
		t.Fatal(err)
	}
	c.put(key(1), key(100), true)
	c.evict(key(1))
	if _, ok := c.get(key(1), key(100)); ok {
		t.Error("entry survived explicit eviction")
	}
}

func TestMemoCache_TupleKeysDoNotCollide(t *testing.T) {
	c, err := newMemoCache(10)
	if err != nil {
		t.Fatal(err)
	}

	// Same UUID, different SCTID: distinct identities
	a := types.Concept{UUID: "u", SCTID: 1}.Key()
	b := types.Concept{UUID: "u", SCTID: 2}.Key()
	c.put(a, key(100), true)
	if _, ok := c.get(b, key(100)); ok {
		t.Error("concepts differing only in SCTID share a cache entry")
	}
}
