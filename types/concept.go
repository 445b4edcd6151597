// Package types defines the Lego record model: concepts, assertions,
// provenance stamps, Pncs code references, Legos, and LegoLists.
package types

import "fmt"

// Concept is the single representation for a terminology concept reference.
// Callers may know a concept by its UUID, by its legacy SCTID, or both;
// either field may be unset. Two concepts are considered the same identity
// only when both fields match.
type Concept struct {
	UUID        string `json:"uuid,omitempty"`
	SCTID       int64  `json:"sctid,omitempty"`
	Description string `json:"description,omitempty"`
}

// ConceptKey is the tuple identity of a Concept, used as a cache and
// comparison key. A composite struct key avoids the delimiter-collision
// hazard of concatenated string keys.
type ConceptKey struct {
	UUID  string
	SCTID int64
}

// Key returns the tuple identity of the concept.
func (c Concept) Key() ConceptKey {
	return ConceptKey{UUID: c.UUID, SCTID: c.SCTID}
}

// IsZero reports whether the concept carries no identity at all.
func (c Concept) IsZero() bool {
	return c.UUID == "" && c.SCTID == 0
}

// Identifier returns the preferred display identifier for the concept.
func (c Concept) Identifier() string {
	if c.UUID != "" {
		return c.UUID
	}
	if c.SCTID != 0 {
		return fmt.Sprintf("%d", c.SCTID)
	}
	return ""
}

// Same reports whether two concepts share the same tuple identity.
func (c Concept) Same(other Concept) bool {
	return c.Key() == other.Key()
}
