package filter

import (
	"context"
	"time"

	"github.com/openterm/legostore/types"
)

// HierarchyService is the external terminology boundary: it computes every
// ancestor path from a concept to a hierarchy root. Implementations may be
// slow; the filter wraps calls with the configured timeout and rate limit.
type HierarchyService interface {
	// AncestorPaths returns all ancestor paths of the concept, each path a
	// sequence of concepts ending at a root. The candidate itself need not
	// be included.
	AncestorPaths(ctx context.Context, c types.Concept) ([][]types.Concept, error)
}

// Config tunes the filter's cache and its hierarchy-service boundary.
type Config struct {
	// CacheSize bounds the outer LRU of the memo cache. Zero selects
	// DefaultCacheSize.
	CacheSize int

	// HierarchyTimeout caps one hierarchy-service call. Zero selects
	// DefaultHierarchyTimeout; negative disables the timeout.
	HierarchyTimeout time.Duration

	// FailOpen controls how hierarchy-service failures resolve: true treats
	// the candidate as matching, false as not matching.
	FailOpen bool

	// MaxHierarchyCallsPerSecond throttles service calls; zero means
	// unlimited.
	MaxHierarchyCallsPerSecond float64

	// HierarchyCallBurst is the limiter burst, used only when a rate limit
	// is set. Zero selects 1.
	HierarchyCallBurst int
}

const (
	DefaultCacheSize        = 1000
	DefaultHierarchyTimeout = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.HierarchyTimeout == 0 {
		c.HierarchyTimeout = DefaultHierarchyTimeout
	}
	if c.HierarchyCallBurst == 0 {
		c.HierarchyCallBurst = 1
	}
	return c
}
