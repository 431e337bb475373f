// Package store wires the KV Backend Adapter, the Serialization Envelope,
// the Table Hash Summarizer, and a CRDT engine together into the
// caller-facing commit/storage engine: the Commit Writer, History Walker,
// Diff Engine, Revert Engine, and Debug Read.
package store

import (
	"rowgit/pkg/crdt"
	"rowgit/pkg/envelope"
	"rowgit/pkg/kv"
	"rowgit/pkg/tablehash"
	"rowgit/pkg/types"

	"go.uber.org/zap"
)

// headKey is the reserved KV key holding the current tip CommitId.
var headKey = []byte("HEAD")

// EngineFactory constructs a fresh, empty CRDT engine. Repository never
// depends on a concrete engine type, only on this factory and the
// crdt.Engine interface it returns.
type EngineFactory func() crdt.Engine

// Repository is the caller-facing commit/storage engine: Open, CreateCommit,
// GetCommitByHash, GetHead, GetCommitHistory, CommitDiffs, TableDiffs,
// RevertTo, DebugCommit.
type Repository struct {
	backend    kv.Backend
	summarizer *tablehash.Summarizer
	newEngine  EngineFactory
	log        *zap.Logger
}

// Option configures a Repository at construction time.
type Option func(*Repository)

// WithLogger overrides the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Repository) { r.log = log }
}

// WithEngineFactory overrides the default crdt.New (LWWEngine) factory,
// letting callers plug in a different CRDT implementation behind the same
// Repository surface.
func WithEngineFactory(f EngineFactory) Option {
	return func(r *Repository) { r.newEngine = f }
}

// Open creates or opens a repository at path, backed by a bbolt file.
func Open(path string, opts ...Option) (*Repository, error) {
	backend, err := kv.Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, opts...), nil
}

// NewWithBackend builds a Repository over an already-open Backend, letting
// tests wrap a backend (for example in a kv.TrackingBackend) before use.
func NewWithBackend(backend kv.Backend, opts ...Option) *Repository {
	r := &Repository{
		backend:    backend,
		summarizer: tablehash.New(backend),
		newEngine:  func() crdt.Engine { return crdt.New() },
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases the underlying KV backend.
func (r *Repository) Close() error {
	return r.backend.Close()
}

// logError annotates an error with zap at its origin before it bubbles up.
// Logging is observational only; it never changes which error is returned.
func (r *Repository) logError(op string, err error) error {
	r.log.Error(op, zap.Error(err))
	return err
}

// GetHead returns the current tip CommitId and whether HEAD is set at all
// (an empty repository has no HEAD).
func (r *Repository) GetHead() (types.Hash, bool, error) {
	raw, ok, err := r.backend.Get(headKey)
	if err != nil {
		return types.Hash{}, false, err
	}
	if !ok {
		return types.Hash{}, false, nil
	}
	h, err := types.HashFromBytes(raw)
	if err != nil {
		return types.Hash{}, false, err
	}
	return h, true, nil
}

// GetCommitByHash loads and validates the commit stored under id.
func (r *Repository) GetCommitByHash(id types.Hash) (*types.Commit, error) {
	raw, ok, err := r.backend.Get(id[:])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, types.NewError(types.KindInvalidInput, "commit not found", nil)
	}
	commit, err := envelope.Open(raw)
	if err != nil {
		return nil, r.logError("commit.corrupt", err)
	}
	return commit, nil
}
