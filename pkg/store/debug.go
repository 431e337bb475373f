package store

import (
	"encoding/hex"
	"fmt"

	"rowgit/pkg/envelope"
	"rowgit/pkg/types"
)

// DebugCommit dumps the raw bytes stored under the commit identified by
// hexID and attempts to decode them, printing the result to stdout. It is
// an operator tool, not a correctness-bearing component, so it writes
// directly to stdout rather than through the structured logger: its output
// is meant to be read by a human, not parsed by a log pipeline.
func (r *Repository) DebugCommit(hexID string) error {
	raw, err := hex.DecodeString(hexID)
	if err != nil {
		return types.NewError(types.KindInvalidInput, "invalid hex commit id", err)
	}
	id, err := types.HashFromBytes(raw)
	if err != nil {
		return err
	}

	data, ok, err := r.backend.Get(id[:])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("commit not found")
		return nil
	}

	fmt.Printf("commit data (%d bytes):\n", len(data))
	fmt.Printf("hex: %s\n", hex.EncodeToString(data))

	commit, err := envelope.Open(data)
	if err != nil {
		fmt.Printf("decode failed: %v\n", err)
		return nil
	}
	fmt.Printf("valid commit: %+v\n", commit)
	return nil
}
