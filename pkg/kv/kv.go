// Package kv wraps an embedded ordered byte store and exposes the single
// logical keyspace the commit/storage engine shares between object storage,
// the HEAD pointer, and live table rows.
package kv

import (
	"bytes"

	"rowgit/pkg/types"

	bolt "go.etcd.io/bbolt"
)

// bucketName is the single bucket holding the entire logical keyspace.
// bbolt orders keys lexicographically within a bucket, which is exactly the
// ordering guarantee PrefixIter promises its callers.
var bucketName = []byte("kv")

// Op is one write in a WriteBatch: a Put when Value is non-nil, a Delete
// when it is nil.
type Op struct {
	Key   []byte
	Value []byte
}

// PutOp builds a put operation.
func PutOp(key, value []byte) Op {
	return Op{Key: key, Value: value}
}

// DeleteOp builds a delete operation.
func DeleteOp(key []byte) Op {
	return Op{Key: key, Value: nil}
}

// KVPair is a single (key, value) result from PrefixIter.
type KVPair struct {
	Key   []byte
	Value []byte
}

// Backend is the embedded ordered KV store the commit/storage engine is
// built on: point get/put, an atomic batch of puts/deletes, and prefix
// iteration in lexicographic byte order.
type Backend interface {
	// Get returns the value for key, or (nil, false) if it is absent.
	Get(key []byte) ([]byte, bool, error)
	// Put stores value under key, creating or overwriting it.
	Put(key, value []byte) error
	// WriteBatch applies ops atomically: either all of them land, or none
	// do, even across a crash.
	WriteBatch(ops []Op) error
	// PrefixIter returns every (key, value) pair whose key starts with
	// prefix, in ascending lexicographic key order.
	PrefixIter(prefix []byte) ([]KVPair, error)
	// Close releases the underlying file handle.
	Close() error
}

// BoltBackend implements Backend on top of a single bbolt database file.
type BoltBackend struct {
	db *bolt.DB
}

// Open creates or opens a bbolt-backed store at path, auto-creating the
// file and its single bucket if they do not already exist.
func Open(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, types.NewError(types.KindBackendFailure, "open kv backend", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, types.NewError(types.KindBackendFailure, "create kv bucket", err)
	}

	return &BoltBackend{db: db}, nil
}

// Get implements Backend.
func (b *BoltBackend) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	found := false
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get(key)
		if v != nil {
			value = append([]byte{}, v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, types.NewError(types.KindBackendFailure, "get", err)
	}
	return value, found, nil
}

// Put implements Backend.
func (b *BoltBackend) Put(key, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
	if err != nil {
		return types.NewError(types.KindBackendFailure, "put", err)
	}
	return nil
}

// WriteBatch implements Backend. bbolt's Update already gives us a single
// atomic transaction, so the batch is just every op applied inside one.
func (b *BoltBackend) WriteBatch(ops []Op) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		for _, op := range ops {
			if op.Value == nil {
				if err := bucket.Delete(op.Key); err != nil {
					return err
				}
				continue
			}
			if err := bucket.Put(op.Key, op.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return types.NewError(types.KindBackendFailure, "write batch", err)
	}
	return nil
}

// PrefixIter implements Backend using a bbolt cursor seeked to prefix and
// walked forward while the key still has that prefix.
func (b *BoltBackend) PrefixIter(prefix []byte) ([]KVPair, error) {
	var pairs []KVPair
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			pairs = append(pairs, KVPair{
				Key:   append([]byte(nil), k...),
				Value: append([]byte(nil), v...),
			})
		}
		return nil
	})
	if err != nil {
		return nil, types.NewError(types.KindBackendFailure, "prefix iter", err)
	}
	return pairs, nil
}

// Close implements Backend.
func (b *BoltBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return types.NewError(types.KindBackendFailure, "close kv backend", err)
	}
	return nil
}
