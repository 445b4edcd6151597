package filter

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/types"
)

// memoCache memoizes hierarchy answers as a two-level map: a bounded,
// access-ordered outer LRU keyed by candidate concept, each entry holding an
// inner map keyed by filter concept. Bounding only the outer map caps memory
// for the common case of a small, fixed set of filter concepts; the lock
// serializes get/put pairs so eviction decisions stay consistent.
type memoCache struct {
	mu    sync.Mutex
	outer *lru.Cache[types.ConceptKey, map[types.ConceptKey]bool]
}

func newMemoCache(size int) (*memoCache, error) {
	outer, err := lru.New[types.ConceptKey, map[types.ConceptKey]bool](size)
	if err != nil {
		return nil, errors.Wrap(err, "create filter memo cache")
	}
	return &memoCache{outer: outer}, nil
}

func (c *memoCache) get(candidate, filterConcept types.ConceptKey) (result, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inner, ok := c.outer.Get(candidate)
	if !ok {
		return false, false
	}
	result, ok = inner[filterConcept]
	return result, ok
}

func (c *memoCache) put(candidate, filterConcept types.ConceptKey, result bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inner, ok := c.outer.Get(candidate)
	if !ok {
		inner = make(map[types.ConceptKey]bool)
		c.outer.Add(candidate, inner)
	}
	inner[filterConcept] = result
}

func (c *memoCache) evict(candidate types.ConceptKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outer.Remove(candidate)
}

func (c *memoCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outer.Len()
}
