package kv

import "sync"

// Stats tracks how a TrackingBackend has been used. It exists so tests can
// assert on call shape (e.g. that a revert issues exactly one WriteBatch,
// or that a table scan touches the expected number of keys) without
// instrumenting the engine itself.
type Stats struct {
	Gets        int
	Puts        int
	WriteBatches int
	// OpsWritten is the total number of individual put/delete operations
	// across all WriteBatch calls (a single call with 5 ops counts 5).
	OpsWritten int
	PrefixIters int
	// KeysScanned is the total number of (key, value) pairs returned
	// across all PrefixIter calls.
	KeysScanned int
}

// TrackingBackend wraps a Backend and records call statistics across its
// full operation set: get, put, batch, and scan.
type TrackingBackend struct {
	inner Backend
	mu    sync.Mutex
	stats Stats
}

// NewTrackingBackend wraps inner with call tracking.
func NewTrackingBackend(inner Backend) *TrackingBackend {
	return &TrackingBackend{inner: inner}
}

// Get implements Backend.
func (t *TrackingBackend) Get(key []byte) ([]byte, bool, error) {
	t.mu.Lock()
	t.stats.Gets++
	t.mu.Unlock()
	return t.inner.Get(key)
}

// Put implements Backend.
func (t *TrackingBackend) Put(key, value []byte) error {
	t.mu.Lock()
	t.stats.Puts++
	t.mu.Unlock()
	return t.inner.Put(key, value)
}

// WriteBatch implements Backend.
func (t *TrackingBackend) WriteBatch(ops []Op) error {
	t.mu.Lock()
	t.stats.WriteBatches++
	t.stats.OpsWritten += len(ops)
	t.mu.Unlock()
	return t.inner.WriteBatch(ops)
}

// PrefixIter implements Backend.
func (t *TrackingBackend) PrefixIter(prefix []byte) ([]KVPair, error) {
	pairs, err := t.inner.PrefixIter(prefix)
	t.mu.Lock()
	t.stats.PrefixIters++
	t.stats.KeysScanned += len(pairs)
	t.mu.Unlock()
	return pairs, err
}

// Close implements Backend.
func (t *TrackingBackend) Close() error {
	return t.inner.Close()
}

// Stats returns a copy of the statistics accumulated so far.
func (t *TrackingBackend) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// ResetStats clears all tracked statistics.
func (t *TrackingBackend) ResetStats() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = Stats{}
}
