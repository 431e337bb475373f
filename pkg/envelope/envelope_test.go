package envelope

import (
	"testing"

	"rowgit/pkg/types"

	"pgregory.net/rapid"
)

func sampleCommit() *types.Commit {
	var parent types.Hash
	parent[0] = 0xAB
	changes := []types.Change{
		types.Insert("users", "1", []byte("alice")),
		types.Update("users", "2", []byte("bob")),
		types.Delete("users", "3"),
	}
	tree := map[string]types.Hash{
		"users": {1, 2, 3},
	}
	return types.NewCommit([]types.Hash{parent}, "sample commit", 1700000000, changes, tree)
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	commit := sampleCommit()
	bare, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(bare)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Message != commit.Message {
		t.Errorf("Message = %q, want %q", decoded.Message, commit.Message)
	}
	if decoded.Timestamp != commit.Timestamp {
		t.Errorf("Timestamp = %d, want %d", decoded.Timestamp, commit.Timestamp)
	}
	if len(decoded.Parents) != 1 || decoded.Parents[0] != commit.Parents[0] {
		t.Errorf("Parents = %v, want %v", decoded.Parents, commit.Parents)
	}
	if len(decoded.Changes) != len(commit.Changes) {
		t.Fatalf("Changes length = %d, want %d", len(decoded.Changes), len(commit.Changes))
	}
	for i := range commit.Changes {
		if !decoded.Changes[i].Equal(commit.Changes[i]) {
			t.Errorf("Changes[%d] = %+v, want %+v", i, decoded.Changes[i], commit.Changes[i])
		}
	}
	if len(decoded.Tree) != len(commit.Tree) {
		t.Fatalf("Tree length mismatch")
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	commit := sampleCommit()
	a, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("Encode is not deterministic across calls")
	}
}

func TestWrapOpenRoundtrip(t *testing.T) {
	commit := sampleCommit()
	bare, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	wrapped := Wrap(bare)

	opened, err := Open(wrapped)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.Message != commit.Message {
		t.Fatalf("Message = %q, want %q", opened.Message, commit.Message)
	}
}

func TestOpenAcceptsBareForm(t *testing.T) {
	commit := sampleCommit()
	bare, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	opened, err := Open(bare)
	if err != nil {
		t.Fatalf("Open(bare): %v", err)
	}
	if opened.Message != commit.Message {
		t.Fatalf("Message = %q, want %q", opened.Message, commit.Message)
	}
}

func TestOpenDetectsDigestCorruption(t *testing.T) {
	commit := sampleCommit()
	bare, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	wrapped := Wrap(bare)

	// Flip a byte in the digest suffix.
	wrapped[len(wrapped)-1] ^= 0xFF

	if _, err := Open(wrapped); err == nil {
		t.Fatal("expected Open to detect digest mismatch")
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	commit := sampleCommit()
	bare, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if Digest(bare) != Digest(bare) {
		t.Fatal("Digest is not deterministic")
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	commit := sampleCommit()
	bare, err := Encode(commit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	withGarbage := append(bare, 0xFF, 0xFF, 0xFF)
	if _, err := Decode(withGarbage); err == nil {
		t.Fatal("expected Decode to reject trailing bytes")
	}
}

func TestEncodeDecodeRoundtripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		message := rapid.String().Draw(t, "message")
		timestamp := rapid.Int64().Draw(t, "timestamp")
		id := rapid.StringMatching(`[a-zA-Z0-9]{1,16}`).Draw(t, "id")
		value := rapid.SliceOf(rapid.Byte()).Draw(t, "value")

		commit := types.NewCommit(nil, message, timestamp,
			[]types.Change{types.Insert("t", id, value)}, nil)

		bare, err := Encode(commit)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		decoded, err := Decode(bare)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if decoded.Message != message {
			t.Fatalf("Message = %q, want %q", decoded.Message, message)
		}
		if decoded.Timestamp != timestamp {
			t.Fatalf("Timestamp = %d, want %d", decoded.Timestamp, timestamp)
		}
	})
}
