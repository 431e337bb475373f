package types

import "strings"

// headKey is the literal reserved key under which HEAD is stored; a table
// name colliding with it would let row keys shadow the HEAD pointer.
const headKey = "HEAD"

// tableSeparator is the byte that joins a table name to a row id in the live
// keyspace ("{table}:{id}"). A table name containing it could let one
// table's rows be misread as another's.
const tableSeparator = ":"

// ValidateTableName enforces the keyspace invariants a table name must
// satisfy so that commit objects, the HEAD pointer, and live rows never
// collide in the shared KV keyspace:
//   - must be non-empty
//   - must not contain the ':' row separator
//   - must not equal the reserved "HEAD" key
func ValidateTableName(name string) error {
	if name == "" {
		return NewError(KindInvalidInput, "table name cannot be empty", nil)
	}
	if name == headKey {
		return NewError(KindInvalidInput, "table name cannot be the reserved name HEAD", nil)
	}
	if strings.Contains(name, tableSeparator) {
		return NewError(KindInvalidInput, "table name cannot contain ':'", nil)
	}
	return nil
}

// RowKey builds the live-row key "{table}:{id}" for a table and row id.
func RowKey(table, id string) []byte {
	return []byte(table + tableSeparator + id)
}

// TablePrefix builds the scan prefix "{table}:" used by the Table Hash
// Summarizer and the Revert Engine's prefix deletes.
func TablePrefix(table string) []byte {
	return []byte(table + tableSeparator)
}
