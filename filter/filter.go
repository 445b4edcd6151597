// Package filter decides which Lego records satisfy hierarchy-aware
// criteria: "some assertion's relation type matches concept T" and/or "some
// assertion's relation destination matches concept D, exactly or as a
// descendant", optionally scoped to one assertion section. Hierarchical
// descent answers are memoized in a bounded cache because ancestor-path
// computation walks an external terminology service.
package filter

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openterm/legostore/store"
	"github.com/openterm/legostore/sym"
	"github.com/openterm/legostore/types"
)

// Section selects which assertion expression the criteria apply to.
type Section int

const (
	AnySection Section = iota
	Discernible
	Qualifier
	Value
)

// MatchKind selects how a destination criterion is evaluated.
type MatchKind int

const (
	// IS matches the destination concept exactly.
	IS MatchKind = iota
	// ChildOf matches the destination concept exactly or as a descendant
	// of the filter concept.
	ChildOf
)

// Criteria is one compound filter condition. A nil Type or Destination is
// the identity element: it matches every assertion. When both are set, one
// assertion must satisfy both.
type Criteria struct {
	Type            *types.Concept
	Destination     *types.Concept
	DestinationKind MatchKind
	Section         Section
}

// LegoRef identifies one exact Lego version.
type LegoRef struct {
	LegoUUID  string
	StampUUID string
}

// Filter evaluates criteria over Lego batches, loading payloads from the
// store and ancestor paths from the hierarchy service.
type Filter struct {
	store    *store.Store
	hier     HierarchyService
	cache    *memoCache
	limiter  *rate.Limiter
	timeout  time.Duration
	failOpen bool
	logger   *zap.SugaredLogger
}

// New constructs a Filter. The logger may be nil.
func New(st *store.Store, hier HierarchyService, cfg Config, logger *zap.SugaredLogger) (*Filter, error) {
	cfg = cfg.withDefaults()
	cache, err := newMemoCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	var limiter *rate.Limiter
	if cfg.MaxHierarchyCallsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxHierarchyCallsPerSecond), cfg.HierarchyCallBurst)
	}
	return &Filter{
		store:    st,
		hier:     hier,
		cache:    cache,
		limiter:  limiter,
		timeout:  cfg.HierarchyTimeout,
		failOpen: cfg.FailOpen,
		logger:   logger,
	}, nil
}

// FilterLegoRefs loads each referenced Lego version from the store and
// returns the subset satisfying the criteria. References to absent versions
// are skipped.
func (f *Filter) FilterLegoRefs(ctx context.Context, refs []LegoRef, c Criteria) ([]*types.Lego, error) {
	var out []*types.Lego
	for _, ref := range refs {
		lego, err := f.store.GetLego(ref.LegoUUID, ref.StampUUID)
		if err != nil {
			return nil, err
		}
		if lego == nil {
			continue
		}
		if f.Matches(ctx, lego, c) {
			out = append(out, lego)
		}
	}
	return out, nil
}

// FilterLegos returns the subset of the batch satisfying the criteria.
func (f *Filter) FilterLegos(ctx context.Context, legos []*types.Lego, c Criteria) []*types.Lego {
	var out []*types.Lego
	for _, lego := range legos {
		if lego != nil && f.Matches(ctx, lego, c) {
			out = append(out, lego)
		}
	}
	return out
}

// Matches reports whether any assertion of the Lego satisfies the criteria.
func (f *Filter) Matches(ctx context.Context, lego *types.Lego, c Criteria) bool {
	for _, a := range lego.Assertions {
		if a == nil {
			continue
		}
		if f.assertionMatches(ctx, a, c) {
			return true
		}
	}
	return false
}

func (f *Filter) assertionMatches(ctx context.Context, a *types.Assertion, c Criteria) bool {
	exprs := sectionExpressions(a, c.Section)

	if c.Type != nil {
		ok := false
		for _, e := range exprs {
			if matchesType(e, *c.Type) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if c.Destination != nil {
		ok := false
		for _, e := range exprs {
			if f.matchesDestination(ctx, e, *c.Destination, c.DestinationKind) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func sectionExpressions(a *types.Assertion, s Section) []*types.Expression {
	switch s {
	case Discernible:
		return []*types.Expression{a.Discernible}
	case Qualifier:
		return []*types.Expression{a.Qualifier}
	case Value:
		return []*types.Expression{a.Value}
	default:
		return []*types.Expression{a.Discernible, a.Qualifier, a.Value}
	}
}

// matchesType is a depth-first search over the expression tree,
// short-circuiting on the first relation whose type matches.
func matchesType(e *types.Expression, want types.Concept) bool {
	if e == nil {
		return false
	}
	check := func(rels []*types.Relation) bool {
		for _, r := range rels {
			if r == nil {
				continue
			}
			if r.Type != nil && r.Type.Same(want) {
				return true
			}
			if matchesType(r.Destination.Expression, want) {
				return true
			}
		}
		return false
	}
	if check(e.Relations) {
		return true
	}
	for _, g := range e.RelationGroups {
		if g != nil && check(g.Relations) {
			return true
		}
	}
	for _, nested := range e.Expressions {
		if matchesType(nested, want) {
			return true
		}
	}
	return false
}

// matchesDestination is the same tree search, testing each relation's
// destination concept for exact equality or hierarchical descent.
func (f *Filter) matchesDestination(ctx context.Context, e *types.Expression, want types.Concept, kind MatchKind) bool {
	if e == nil {
		return false
	}
	check := func(rels []*types.Relation) bool {
		for _, r := range rels {
			if r == nil {
				continue
			}
			if c := r.Destination.Concept; c != nil {
				if c.Same(want) {
					return true
				}
				if kind == ChildOf && f.ConceptHierarchyMatches(ctx, want, *c) {
					return true
				}
			}
			if f.matchesDestination(ctx, r.Destination.Expression, want, kind) {
				return true
			}
		}
		return false
	}
	if check(e.Relations) {
		return true
	}
	for _, g := range e.RelationGroups {
		if g != nil && check(g.Relations) {
			return true
		}
	}
	for _, nested := range e.Expressions {
		if f.matchesDestination(ctx, nested, want, kind) {
			return true
		}
	}
	return false
}

// ConceptHierarchyMatches reports whether candidate is a descendant of
// filterConcept, consulting the memo cache before the hierarchy service.
// Service failures are logged and resolved by the configured fail mode; the
// cache is an optimization only and never changes the answer.
func (f *Filter) ConceptHierarchyMatches(ctx context.Context, filterConcept, candidate types.Concept) bool {
	if filterConcept.IsZero() {
		return true
	}

	candidateKey := candidate.Key()
	filterKey := filterConcept.Key()
	if result, ok := f.cache.get(candidateKey, filterKey); ok {
		return result
	}

	result, err := f.ancestorMatch(ctx, filterConcept, candidate)
	if err != nil {
		if f.logger != nil {
			f.logger.Warnw("Hierarchy service call failed",
				"symbol", sym.Filter,
				"candidate", candidate.Identifier(),
				"filter_concept", filterConcept.Identifier(),
				"fail_open", f.failOpen,
				"error", err,
			)
		}
		// Policy answers are not cached: a transient outage must not pin a
		// wrong result.
		return f.failOpen
	}

	f.cache.put(candidateKey, filterKey, result)
	return result
}

// ancestorMatch asks the hierarchy service for the candidate's ancestor
// paths and tests each ancestor against the filter concept. A visited set
// guards against malformed cyclical paths.
func (f *Filter) ancestorMatch(ctx context.Context, filterConcept, candidate types.Concept) (bool, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return false, err
		}
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	paths, err := f.hier.AncestorPaths(ctx, candidate)
	if err != nil {
		return false, err
	}
	for _, path := range paths {
		visited := make(map[types.ConceptKey]bool, len(path))
		for _, ancestor := range path {
			key := ancestor.Key()
			if visited[key] {
				continue
			}
			visited[key] = true
			if ancestor.Same(filterConcept) {
				return true, nil
			}
		}
	}
	return false, nil
}

// EvictConcept drops the cached hierarchy answers for a candidate concept,
// forcing the next query to consult the hierarchy service again.
func (f *Filter) EvictConcept(c types.Concept) {
	f.cache.evict(c.Key())
}
