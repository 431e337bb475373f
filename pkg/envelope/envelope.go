// Package envelope implements the deterministic binary encoding of a Commit
// and the integrity-checked envelope it is wrapped in before being written
// to the KV backend.
package envelope

import (
	"encoding/binary"
	"fmt"

	"rowgit/pkg/types"

	"lukechampine.com/blake3"
)

const (
	// digestSize is the width of the trailing integrity digest appended to
	// the bare encoding to form an envelope.
	digestSize = types.HashSize
)

// Encode produces the deterministic bare encoding of c. It never wraps the
// encoding in an integrity digest; callers that need the envelope form call
// Wrap on the result.
//
// Layout (all integers big-endian):
//
//	u32 parentCount, parentCount * 32-byte hash
//	u32 messageLen,  message bytes
//	u64 timestamp
//	u32 changeCount, changeCount * encoded Change
//	u32 treeEntryCount, treeEntryCount * (u32 nameLen, name bytes, 32-byte hash)
//
// Tree entries are written in ascending key order (types.Commit.SortedTableNames)
// so that the encoding — and therefore the digest derived from it — does not
// depend on Go's randomized map iteration order.
func Encode(c *types.Commit) ([]byte, error) {
	buf := make([]byte, 0, 256)

	buf = appendUint32(buf, uint32(len(c.Parents)))
	for _, p := range c.Parents {
		buf = append(buf, p[:]...)
	}

	buf = appendString(buf, c.Message)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], uint64(c.Timestamp))
	buf = append(buf, tsBuf[:]...)

	buf = appendUint32(buf, uint32(len(c.Changes)))
	for _, ch := range c.Changes {
		buf = appendChange(buf, ch)
	}

	names := c.SortedTableNames()
	buf = appendUint32(buf, uint32(len(names)))
	for _, name := range names {
		buf = appendString(buf, name)
		hash := c.Tree[name]
		buf = append(buf, hash[:]...)
	}

	return buf, nil
}

// Decode parses the bare encoding produced by Encode back into a Commit.
func Decode(data []byte) (*types.Commit, error) {
	r := &reader{data: data}

	parentCount, err := r.uint32()
	if err != nil {
		return nil, corrupt("parent count", err)
	}
	// Counts come straight from untrusted input, so they are used only as
	// loop bounds, never as a preallocation hint: a corrupted count must
	// fail on the first out-of-range read inside the loop, not trigger an
	// oversized allocation before any byte of the claimed entries is read.
	var parents []types.Hash
	for i := uint32(0); i < parentCount; i++ {
		h, err := r.hash()
		if err != nil {
			return nil, corrupt("parent hash", err)
		}
		parents = append(parents, h)
	}

	message, err := r.string()
	if err != nil {
		return nil, corrupt("message", err)
	}

	tsRaw, err := r.uint64()
	if err != nil {
		return nil, corrupt("timestamp", err)
	}

	changeCount, err := r.uint32()
	if err != nil {
		return nil, corrupt("change count", err)
	}
	var changes []types.Change
	for i := uint32(0); i < changeCount; i++ {
		ch, err := r.change()
		if err != nil {
			return nil, corrupt("change", err)
		}
		changes = append(changes, ch)
	}

	treeCount, err := r.uint32()
	if err != nil {
		return nil, corrupt("tree entry count", err)
	}
	tree := make(map[string]types.Hash)
	for i := uint32(0); i < treeCount; i++ {
		name, err := r.string()
		if err != nil {
			return nil, corrupt("tree entry name", err)
		}
		hash, err := r.hash()
		if err != nil {
			return nil, corrupt("tree entry hash", err)
		}
		tree[name] = hash
	}

	if !r.atEnd() {
		return nil, types.NewError(types.KindCorruptData,
			fmt.Sprintf("trailing data after commit encoding (%d bytes)", r.remaining()), nil)
	}

	return types.NewCommit(parents, message, int64(tsRaw), changes, tree), nil
}

// Wrap appends the 32-byte BLAKE3 digest of bare to bare itself, producing
// the on-disk envelope form.
func Wrap(bare []byte) []byte {
	digest := blake3.Sum256(bare)
	out := make([]byte, 0, len(bare)+digestSize)
	out = append(out, bare...)
	out = append(out, digest[:]...)
	return out
}

// Digest returns the content hash used for a commit's CommitId: the BLAKE3
// digest of its bare (pre-envelope) encoding.
func Digest(bare []byte) types.Hash {
	return blake3.Sum256(bare)
}

// Open decodes data as either the bare encoding or the envelope form of a
// commit, accepting either on read. A trailing
// digest-shaped suffix is treated as present whenever stripping it still
// leaves a cleanly-decodable bare encoding; in that case the digest MUST
// match or the read fails with CorruptData. This is the entry point callers
// reading a persisted commit should use; Decode/Encode stay as the strict
// bare-only primitives used for the write-time roundtrip self-test.
func Open(data []byte) (*types.Commit, error) {
	if len(data) >= digestSize {
		bare := data[:len(data)-digestSize]
		suffix := data[len(data)-digestSize:]
		if commit, err := Decode(bare); err == nil {
			want := blake3.Sum256(bare)
			if !hashEqual(want, suffix) {
				return nil, types.NewError(types.KindCorruptData, "envelope digest mismatch", nil)
			}
			return commit, nil
		}
	}

	// Not a valid envelope (or too short to carry one); fall back to
	// treating the whole input as a bare encoding.
	return Decode(data)
}

func hashEqual(h types.Hash, suffix []byte) bool {
	if len(suffix) != len(h) {
		return false
	}
	for i := range h {
		if h[i] != suffix[i] {
			return false
		}
	}
	return true
}

func corrupt(field string, cause error) error {
	return types.NewError(types.KindCorruptData, fmt.Sprintf("decode %s", field), cause)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendBytes(buf []byte, b []byte) []byte {
	buf = appendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func appendChange(buf []byte, ch types.Change) []byte {
	buf = append(buf, byte(ch.Op))
	buf = appendString(buf, ch.Table)
	buf = appendString(buf, ch.ID)
	buf = appendBytes(buf, ch.Value)
	return buf
}
