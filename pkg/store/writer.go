package store

import (
	"time"

	"rowgit/pkg/envelope"
	"rowgit/pkg/kv"
	"rowgit/pkg/types"

	"go.uber.org/zap"
)

// CreateCommit assembles a commit from the current HEAD plus changes,
// content-addresses it, persists it, and advances HEAD. Callers must apply
// changes to the live row keyspace (ApplyChanges, or an equivalent direct
// write) BEFORE calling CreateCommit: buildTree hashes each touched table's
// live contents at call time, so a commit's tree digest only reflects this
// commit's own changes if they are already live when CreateCommit runs.
//
// The two persisting puts (commit object, then HEAD) are deliberately not
// atomic with each other: a crash between them leaves a durable but
// unreachable commit object and an unmoved HEAD, which is safe because
// commits are addressed by content. CreateCommitAtomic below closes this
// window for callers that want it.
func (r *Repository) CreateCommit(message string, changes []types.Change) (types.Hash, error) {
	parent, hasParent, err := r.GetHead()
	if err != nil {
		return types.Hash{}, err
	}

	tree, err := r.buildTree(changes)
	if err != nil {
		return types.Hash{}, err
	}

	var parents []types.Hash
	if hasParent {
		parents = []types.Hash{parent}
	}

	commit := types.NewCommit(parents, message, time.Now().Unix(), changes, tree)

	bare, err := envelope.Encode(commit)
	if err != nil {
		return types.Hash{}, err
	}
	id := envelope.Digest(bare)

	// Self-test: a roundtrip decode must reproduce the message we just
	// encoded, guarding against encoder/decoder bugs before anything is
	// persisted.
	roundtripped, err := envelope.Decode(bare)
	if err != nil || roundtripped.Message != message {
		return types.Hash{}, r.logError("commit.roundtrip_failed", types.NewError(types.KindCorruptData,
			"serialization roundtrip failed", err))
	}

	wrapped := envelope.Wrap(bare)

	if err := r.backend.Put(id[:], wrapped); err != nil {
		return types.Hash{}, r.logError("commit.put_failed", err)
	}
	if err := r.backend.Put(headKey, id[:]); err != nil {
		return types.Hash{}, r.logError("commit.head_put_failed", err)
	}

	r.log.Info("commit.created",
		zap.String("commit", id.String()),
		zap.String("message", message),
		zap.Int("changes", len(changes)))

	return id, nil
}

// CreateCommitAtomic behaves like CreateCommit but upgrades the
// commit-object put and the HEAD put into a single atomic WriteBatch,
// eliminating the orphan-commit-on-crash window CreateCommit accepts by
// default. It is provided for callers whose backend can give atomicity
// cheaply; it does not change CreateCommit's own contract.
func (r *Repository) CreateCommitAtomic(message string, changes []types.Change) (types.Hash, error) {
	parent, hasParent, err := r.GetHead()
	if err != nil {
		return types.Hash{}, err
	}

	tree, err := r.buildTree(changes)
	if err != nil {
		return types.Hash{}, err
	}

	var parents []types.Hash
	if hasParent {
		parents = []types.Hash{parent}
	}

	commit := types.NewCommit(parents, message, time.Now().Unix(), changes, tree)

	bare, err := envelope.Encode(commit)
	if err != nil {
		return types.Hash{}, err
	}
	id := envelope.Digest(bare)

	roundtripped, err := envelope.Decode(bare)
	if err != nil || roundtripped.Message != message {
		return types.Hash{}, r.logError("commit.roundtrip_failed", types.NewError(types.KindCorruptData,
			"serialization roundtrip failed", err))
	}

	wrapped := envelope.Wrap(bare)

	err = r.backend.WriteBatch([]kv.Op{
		kv.PutOp(id[:], wrapped),
		kv.PutOp(headKey, id[:]),
	})
	if err != nil {
		return types.Hash{}, r.logError("commit.write_batch_failed", err)
	}

	r.log.Info("commit.created",
		zap.String("commit", id.String()),
		zap.String("message", message),
		zap.Int("changes", len(changes)),
		zap.Bool("atomic", true))

	return id, nil
}

// buildTree computes the per-table digest for every distinct table named in
// changes. Tables the commit did not touch are intentionally absent rather
// than carried forward from an earlier commit's tree.
func (r *Repository) buildTree(changes []types.Change) (map[string]types.Hash, error) {
	if err := validateChangeTables(changes); err != nil {
		return nil, r.logError("commit.invalid_table", err)
	}

	tree := make(map[string]types.Hash)
	seen := make(map[string]bool)
	for _, c := range changes {
		if seen[c.Table] {
			continue
		}
		seen[c.Table] = true

		digest, err := r.summarizer.TableDigest(c.Table)
		if err != nil {
			return nil, err
		}
		tree[c.Table] = digest
	}
	return tree, nil
}

// validateChangeTables checks every change's table name against
// types.ValidateTableName. It runs at the write path itself (buildTree,
// ApplyChanges), not only in the CLI's flag parsing, so a colliding table
// name can never reach the live keyspace or a commit's tree regardless of
// caller.
func validateChangeTables(changes []types.Change) error {
	for _, c := range changes {
		if err := types.ValidateTableName(c.Table); err != nil {
			return err
		}
	}
	return nil
}

// ApplyChanges folds changes into the live row keyspace directly (as
// opposed to via a CRDT replay of history), writing each Insert/Update as a
// put and each Delete as a delete, in one atomic batch. It lets the CLI's
// commit path keep live rows in lockstep with the commits it creates.
func (r *Repository) ApplyChanges(changes []types.Change) error {
	if err := validateChangeTables(changes); err != nil {
		return r.logError("apply_changes.invalid_table", err)
	}

	ops := make([]kv.Op, 0, len(changes))
	for _, c := range changes {
		key := types.RowKey(c.Table, c.ID)
		switch c.Op {
		case types.OpInsert, types.OpUpdate:
			ops = append(ops, kv.PutOp(key, c.Value))
		case types.OpDelete:
			ops = append(ops, kv.DeleteOp(key))
		}
	}
	if err := r.backend.WriteBatch(ops); err != nil {
		return r.logError("apply_changes.write_batch_failed", err)
	}
	return nil
}
