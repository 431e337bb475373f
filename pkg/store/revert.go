package store

import (
	"fmt"

	"rowgit/pkg/kv"
	"rowgit/pkg/types"

	"go.uber.org/zap"
)

// RevertTo rewrites the live row keyspace to the state of target and
// records the rewrite as a new commit on HEAD. The rewrite itself is
// atomic (a single WriteBatch); the trailing record commit is a separate,
// best-effort step, consistent with CreateCommit's own non-atomicity.
func (r *Repository) RevertTo(target types.Hash) (types.Hash, error) {
	targetCommit, err := r.GetCommitByHash(target)
	if err != nil {
		return types.Hash{}, err
	}

	chain, err := r.ChainFrom(target)
	if err != nil {
		return types.Hash{}, err
	}

	engine := r.newEngine()
	for i := len(chain) - 1; i >= 0; i-- {
		for _, ch := range chain[i].Changes {
			change := ch
			if err := engine.ApplyChange(&change); err != nil {
				return types.Hash{}, r.logError("revert.replay_failed",
					types.NewError(types.KindCrdtFailure, "apply change during revert replay", err))
			}
		}
	}
	materialized := engine.IntoData()

	var ops []kv.Op

	// Delete the known footprint: every table target.Tree names. Tables
	// touched elsewhere in history but absent from target.Tree are NOT
	// cleared here, so rows in those tables survive a revert.
	for table := range targetCommit.Tree {
		pairs, err := r.backend.PrefixIter(types.TablePrefix(table))
		if err != nil {
			return types.Hash{}, r.logError("revert.prefix_iter_failed", err)
		}
		for _, pair := range pairs {
			ops = append(ops, kv.DeleteOp(pair.Key))
		}
	}

	for table, rows := range materialized {
		for id, value := range rows {
			ops = append(ops, kv.PutOp(types.RowKey(table, id), value))
		}
	}

	if err := r.backend.WriteBatch(ops); err != nil {
		return types.Hash{}, r.logError("revert.write_batch_failed", err)
	}

	revertChanges := invertChanges(targetCommit.Changes)
	recordID, err := r.CreateCommit(fmt.Sprintf("Revert to %s", target.String()), revertChanges)
	if err != nil {
		return types.Hash{}, err
	}

	r.log.Info("revert.applied",
		zap.String("target", target.String()),
		zap.String("record_commit", recordID.String()))

	return recordID, nil
}

// invertChanges rewrites each Insert in changes as a Delete of the same row
// and passes Update/Delete through unchanged. The result is a
// human-readable audit marker, not a replayable record of the batch that
// was actually applied.
func invertChanges(changes []types.Change) []types.Change {
	out := make([]types.Change, len(changes))
	for i, c := range changes {
		if c.Op == types.OpInsert {
			out[i] = types.Delete(c.Table, c.ID)
			continue
		}
		out[i] = c
	}
	return out
}
