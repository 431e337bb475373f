package store

import (
	"bytes"
	"sort"

	"rowgit/pkg/types"
)

const schemaSentinelID = "!schema"

// CommitDiffs computes a change list that transforms from's table states
// into to's, using per-table tree-digest pruning: tables whose digest is
// unchanged are skipped outright, and a table that appears in to but not in
// from surfaces only as a schema sentinel rather than a full row diff. A
// table present in from but absent from to is not reported at all.
func (r *Repository) CommitDiffs(from, to types.Hash) ([]types.Change, error) {
	fromCommit, err := r.GetCommitByHash(from)
	if err != nil {
		return nil, err
	}
	toCommit, err := r.GetCommitByHash(to)
	if err != nil {
		return nil, err
	}

	var diffs []types.Change
	for _, table := range toCommit.SortedTableNames() {
		toDigest := toCommit.Tree[table]
		fromDigest, present := fromCommit.Tree[table]

		switch {
		case present && fromDigest == toDigest:
			// Tree digests match: row contents match, nothing to emit.
		case present:
			tableDiffs, err := r.TableDiffs(table, from, to)
			if err != nil {
				return nil, err
			}
			diffs = append(diffs, tableDiffs...)
		default:
			diffs = append(diffs, types.Insert(table, schemaSentinelID, nil))
		}
	}
	return diffs, nil
}

// TableDiffs reconstructs table's materialized state at from and at to by
// replaying each side's first-parent chain through a fresh CRDT engine, and
// emits Insert/Update/Delete changes describing how to transform the first
// into the second.
//
// The replay source is from.Parents[0] and to.Parents[0], NOT from and to
// themselves — so neither side's own tip changes are visible, and what this
// computes is really the diff between from's parent and to's parent.
func (r *Repository) TableDiffs(table string, from, to types.Hash) ([]types.Change, error) {
	fromCommit, err := r.GetCommitByHash(from)
	if err != nil {
		return nil, err
	}
	toCommit, err := r.GetCommitByHash(to)
	if err != nil {
		return nil, err
	}

	fromRows, err := r.replayTableFromParent(fromCommit, table)
	if err != nil {
		return nil, err
	}
	toRows, err := r.replayTableFromParent(toCommit, table)
	if err != nil {
		return nil, err
	}

	var diffs []types.Change

	toIDs := make([]string, 0, len(toRows))
	for id := range toRows {
		toIDs = append(toIDs, id)
	}
	sort.Strings(toIDs)

	for _, id := range toIDs {
		toVal := toRows[id]
		if fromVal, ok := fromRows[id]; ok {
			if !bytes.Equal(fromVal, toVal) {
				diffs = append(diffs, types.Update(table, id, toVal))
			}
			continue
		}
		diffs = append(diffs, types.Insert(table, id, toVal))
	}

	fromOnlyIDs := make([]string, 0)
	for id := range fromRows {
		if _, ok := toRows[id]; !ok {
			fromOnlyIDs = append(fromOnlyIDs, id)
		}
	}
	sort.Strings(fromOnlyIDs)
	for _, id := range fromOnlyIDs {
		diffs = append(diffs, types.Delete(table, id))
	}

	return diffs, nil
}

// replayTableFromParent replays the first-parent chain starting at commit's
// parent (oldest first), restricted to table, through a fresh CRDT engine
// and returns the resulting id -> value map; commit's own changes are not
// applied. A root commit (no parent) replays an empty chain, yielding an
// empty map.
func (r *Repository) replayTableFromParent(commit *types.Commit, table string) (map[string][]byte, error) {
	parent, ok := commit.Parent()
	if !ok {
		return map[string][]byte{}, nil
	}

	chain, err := r.ChainFrom(parent)
	if err != nil {
		return nil, err
	}

	engine := r.newEngine()
	for i := len(chain) - 1; i >= 0; i-- {
		for _, ch := range chain[i].Changes {
			if ch.Table != table {
				continue
			}
			change := ch
			if err := engine.ApplyChange(&change); err != nil {
				return nil, r.logError("diff.replay_failed",
					types.NewError(types.KindCrdtFailure, "apply change during replay", err))
			}
		}
	}

	rows := engine.IntoData()[table]
	if rows == nil {
		rows = map[string][]byte{}
	}
	return rows, nil
}
