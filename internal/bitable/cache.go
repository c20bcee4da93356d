package bitable

import "sync"

// RecordCache holds the last full table listing for the duration of one run.
// It is an explicit object owned by the Client, invalidated after every
// mutation and force-refreshed at the start of a batch; there is no
// package-level state.
type RecordCache struct {
	mu      sync.Mutex
	records []Record
	valid   bool
}

// NewRecordCache returns an empty, invalid cache.
func NewRecordCache() *RecordCache {
	return &RecordCache{}
}

// Get returns the cached listing and whether it is valid.
func (c *RecordCache) Get() ([]Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return nil, false
	}
	return c.records, true
}

// Set replaces the cached listing.
func (c *RecordCache) Set(records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.valid = true
}

// Invalidate drops the cached listing; the next read refetches.
func (c *RecordCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.valid = false
}
