package main

import (
	"rowgit/pkg/envelope"
	"rowgit/pkg/types"
)

// commitID re-derives a commit's content hash for display purposes. Commit
// values themselves don't carry their own hash (it is a function of their
// encoding, computed once at write time by the Commit Writer), so any
// caller that needs to print or compare it recomputes it the same way.
func commitID(commit *types.Commit) (string, error) {
	bare, err := envelope.Encode(commit)
	if err != nil {
		return "", err
	}
	return envelope.Digest(bare).String(), nil
}
