package types

import (
	"time"
)

// Stamp is provenance metadata for exactly one Lego version. A Stamp is
// exclusively owned: it is created when its Lego is committed and deleted
// unconditionally when that Lego version is deleted.
type Stamp struct {
	UUID   string    `json:"uuid"`
	Status string    `json:"status"`
	Author string    `json:"author"`
	Module string    `json:"module"`
	Path   string    `json:"path"`
	Time   time.Time `json:"time"`
}

// Pncs is an external code reference identified by a numeric id plus a value
// string. Pncs rows are shared: zero or more Lego versions may reference the
// same (id, value) pair, and a row is only deleted once no Lego references it.
type Pncs struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// Key returns the deterministic storage key for this Pncs row.
func (p Pncs) Key() string {
	return PncsKey(p.ID, p.Value)
}

// Relation is one edge of an assertion expression: a typed link to a
// destination concept or nested expression.
type Relation struct {
	UUID        string      `json:"uuid,omitempty"`
	Type        *Concept    `json:"type,omitempty"`
	Destination Destination `json:"destination"`
}

// Destination is the target of a Relation: either a concept or a nested
// expression (exactly one side is expected to be set).
type Destination struct {
	Concept    *Concept    `json:"concept,omitempty"`
	Expression *Expression `json:"expression,omitempty"`
}

// RelationGroup bundles relations that must be read together.
type RelationGroup struct {
	Relations []*Relation `json:"relations,omitempty"`
}

// Expression is a recursive concept expression: a focus concept, optional
// nested conjunct expressions, and relations plain or grouped.
type Expression struct {
	Concept        *Concept         `json:"concept,omitempty"`
	Expressions    []*Expression    `json:"expressions,omitempty"`
	Relations      []*Relation      `json:"relations,omitempty"`
	RelationGroups []*RelationGroup `json:"relationGroups,omitempty"`
}

// AssertionComponent is a by-UUID reference from one assertion to another,
// forming the composite/used graph across Legos.
type AssertionComponent struct {
	AssertionUUID string `json:"assertionUUID"`
	Label         string `json:"label,omitempty"`
}

// Assertion is one assertion node of a Lego: a discernible expression, a
// qualifier expression, an optional value expression, and references to
// other assertions it composes.
type Assertion struct {
	UUID        string                `json:"uuid"`
	Discernible *Expression           `json:"discernible,omitempty"`
	Qualifier   *Expression           `json:"qualifier,omitempty"`
	Value       *Expression           `json:"value,omitempty"`
	Components  []*AssertionComponent `json:"components,omitempty"`
}

// Lego is a versioned assertion document. UUID is stable across versions;
// each committed version pairs it with a distinct Stamp, and the version's
// storage key is the composite of the two (see UniqueID).
type Lego struct {
	UUID       string       `json:"uuid"`
	Stamp      *Stamp       `json:"stamp,omitempty"`
	Pncs       *Pncs        `json:"pncs,omitempty"`
	Assertions []*Assertion `json:"assertions,omitempty"`
	Comment    string       `json:"comment,omitempty"`
}

// UniqueID returns the storage key of this Lego version. It is only defined
// once the Lego carries a Stamp.
func (l *Lego) UniqueID() string {
	if l.Stamp == nil {
		return ""
	}
	return LegoUniqueID(l.UUID, l.Stamp.UUID)
}

// AssertionUUIDs returns the UUIDs of the assertions this Lego defines.
func (l *Lego) AssertionUUIDs() []string {
	out := make([]string, 0, len(l.Assertions))
	for _, a := range l.Assertions {
		if a != nil && a.UUID != "" {
			out = append(out, a.UUID)
		}
	}
	return out
}

// UsedAssertionUUIDs returns the UUIDs of assertions referenced by this
// Lego's assertion components, de-duplicated.
func (l *Lego) UsedAssertionUUIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range l.Assertions {
		if a == nil {
			continue
		}
		for _, c := range a.Components {
			if c == nil || c.AssertionUUID == "" || seen[c.AssertionUUID] {
				continue
			}
			seen[c.AssertionUUID] = true
			out = append(out, c.AssertionUUID)
		}
	}
	return out
}

// ConceptIdentifiers returns every concept identifier mentioned anywhere in
// the document, de-duplicated. This feeds the concept secondary index.
func (l *Lego) ConceptIdentifiers() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c *Concept) {
		if c == nil {
			return
		}
		id := c.Identifier()
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	var walkExpr func(e *Expression)
	walkExpr = func(e *Expression) {
		if e == nil {
			return
		}
		add(e.Concept)
		for _, nested := range e.Expressions {
			walkExpr(nested)
		}
		walkRels := func(rels []*Relation) {
			for _, r := range rels {
				if r == nil {
					continue
				}
				add(r.Type)
				add(r.Destination.Concept)
				walkExpr(r.Destination.Expression)
			}
		}
		walkRels(e.Relations)
		for _, g := range e.RelationGroups {
			if g != nil {
				walkRels(g.Relations)
			}
		}
	}
	for _, a := range l.Assertions {
		if a == nil {
			continue
		}
		walkExpr(a.Discernible)
		walkExpr(a.Qualifier)
		walkExpr(a.Value)
	}
	return out
}

// LegoList is a named, mutable collection of Lego versions. GroupName is
// unique across all lists; uniqueness is enforced at write time by the store.
type LegoList struct {
	UUID        string  `json:"uuid"`
	GroupName   string  `json:"groupName"`
	Description string  `json:"description,omitempty"`
	Comments    string  `json:"comments,omitempty"`
	Legos       []*Lego `json:"legos,omitempty"`
}
