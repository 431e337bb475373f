package kv

import (
	"path/filepath"
	"testing"
)

func TestTrackingBackendCountsCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	inner, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer inner.Close()

	tracked := NewTrackingBackend(inner)

	if err := tracked.Put([]byte("users:1"), []byte("alice")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, _, err := tracked.Get([]byte("users:1")); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := tracked.WriteBatch([]Op{
		PutOp([]byte("users:2"), []byte("bob")),
		DeleteOp([]byte("users:1")),
	}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if _, err := tracked.PrefixIter([]byte("users:")); err != nil {
		t.Fatalf("PrefixIter: %v", err)
	}

	stats := tracked.Stats()
	if stats.Puts != 1 {
		t.Errorf("Puts = %d, want 1", stats.Puts)
	}
	if stats.Gets != 1 {
		t.Errorf("Gets = %d, want 1", stats.Gets)
	}
	if stats.WriteBatches != 1 {
		t.Errorf("WriteBatches = %d, want 1", stats.WriteBatches)
	}
	if stats.OpsWritten != 2 {
		t.Errorf("OpsWritten = %d, want 2", stats.OpsWritten)
	}
	if stats.PrefixIters != 1 {
		t.Errorf("PrefixIters = %d, want 1", stats.PrefixIters)
	}
	if stats.KeysScanned != 1 {
		t.Errorf("KeysScanned = %d, want 1", stats.KeysScanned)
	}
}

func TestTrackingBackendResetStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	inner, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer inner.Close()

	tracked := NewTrackingBackend(inner)
	_ = tracked.Put([]byte("a"), []byte("b"))
	tracked.ResetStats()

	stats := tracked.Stats()
	if stats != (Stats{}) {
		t.Fatalf("expected zero stats after reset, got %+v", stats)
	}
}
