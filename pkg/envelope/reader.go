package envelope

import (
	"encoding/binary"
	"errors"

	"rowgit/pkg/types"
)

var errShortRead = errors.New("unexpected end of commit encoding")

// reader consumes the deterministic binary encoding sequentially, field by
// field, each field length-prefixed.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) atEnd() bool {
	return r.pos == len(r.data)
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) uint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errShortRead
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errShortRead
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) bytes(n uint32) ([]byte, error) {
	if r.pos+int(n) > len(r.data) {
		return nil, errShortRead
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

func (r *reader) string() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) hash() (types.Hash, error) {
	b, err := r.bytes(types.HashSize)
	if err != nil {
		return types.Hash{}, err
	}
	var h types.Hash
	copy(h[:], b)
	return h, nil
}

func (r *reader) change() (types.Change, error) {
	if r.pos+1 > len(r.data) {
		return types.Change{}, errShortRead
	}
	op := types.Op(r.data[r.pos])
	r.pos++

	table, err := r.string()
	if err != nil {
		return types.Change{}, err
	}
	id, err := r.string()
	if err != nil {
		return types.Change{}, err
	}
	valueLen, err := r.uint32()
	if err != nil {
		return types.Change{}, err
	}
	value, err := r.bytes(valueLen)
	if err != nil {
		return types.Change{}, err
	}
	if op == types.OpDelete {
		value = nil
	}
	return types.Change{Op: op, Table: table, ID: id, Value: value}, nil
}
