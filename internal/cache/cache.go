// Package cache implements ResultsCache, a concurrent per-circuit
// store of the latest analysis output, used to serve subsequent
// plotting/measurement tool calls.
package cache

import (
	"sync"

	"github.com/spicesharp/mcp-server/internal/backend"
)

// ResultsCache maps a circuit id to its most recently computed analysis
// result. Store and Get copy the CachedAnalysisResult struct itself; the
// slices and maps inside it are not copied and stay shared with the
// caller that stored them. A single RWMutex guards brief critical
// sections only.
type ResultsCache struct {
	mu      sync.RWMutex
	entries map[string]backend.CachedAnalysisResult
}

// New creates an empty ResultsCache.
func New() *ResultsCache {
	return &ResultsCache{entries: make(map[string]backend.CachedAnalysisResult)}
}

// Store replaces any prior entry for circuitID with result.
func (c *ResultsCache) Store(circuitID string, result backend.CachedAnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[circuitID] = result
}

// Get returns the latest result for circuitID, or ok == false if there
// is none (including after Clear).
func (c *ResultsCache) Get(circuitID string) (result backend.CachedAnalysisResult, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok = c.entries[circuitID]
	return result, ok
}

// Clear removes circuitID's entry, if any. Safe to call when no entry
// exists.
func (c *ResultsCache) Clear(circuitID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, circuitID)
}

// ClearAll removes every entry.
func (c *ResultsCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]backend.CachedAnalysisResult)
}
