package types

import "encoding/hex"

// HashSize is the width of a content digest in bytes.
const HashSize = 32

// Hash is a 32-byte content digest, used both as a CommitId and as a
// per-table tree digest. Equality is byte-equality.
type Hash [HashSize]byte

// ZeroHash is the hash value of an absent parent or an unset HEAD.
var ZeroHash = Hash{}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// String returns the hex-encoded representation of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// HashFromHex parses a hex string into a Hash, failing with InvalidInput if
// the string is not valid hex or is not exactly HashSize bytes long.
func HashFromHex(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, NewError(KindInvalidInput, "invalid hex commit id", err)
	}
	return HashFromBytes(raw)
}

// HashFromBytes copies raw into a Hash, failing with InvalidInput if raw is
// not exactly HashSize bytes long.
func HashFromBytes(raw []byte) (Hash, error) {
	if len(raw) != HashSize {
		return Hash{}, NewError(KindInvalidInput,
			"hash must be 32 bytes", nil)
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}
