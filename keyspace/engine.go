// Package keyspace implements CachewDB's ordered keyspace (spec.md
// §4.4): a key-sorted map supporting point and range reads/writes in
// O(log n + k), guarded by a single read/write lock (spec.md §5).
package keyspace

import (
	"sync"

	"github.com/tidwall/btree"

	"github.com/theopfr/cachew-db/cachewerrors"
	"github.com/theopfr/cachew-db/value"
)

// Entry is one stored key/value pair, used for bulk operations (SET
// MANY's input, GET RANGE's output).
type Entry struct {
	Key   value.Key
	Value value.Value
}

type record struct {
	key value.Key
	val value.Value
}

func recordLess(a, b record) bool { return a.key < b.key }

// Engine is the in-memory ordered keyspace. The zero value is not
// usable; construct with New. All instances are bound to the
// DeclaredType their CachewDB process started with, enforced upstream
// by the protocol layer — Engine itself is type-agnostic.
type Engine struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[record]
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{tree: btree.NewBTreeG(recordLess)}
}

// Set creates or overwrites the entry at key.
func (e *Engine) Set(key value.Key, v value.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree.Set(record{key: key, val: v})
}

// SetMany applies every entry, in order, under a single write lock.
// Later entries in the slice win over earlier ones sharing a key, the
// same as repeated calls to Set would.
func (e *Engine) SetMany(entries []Entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ent := range entries {
		e.tree.Set(record{key: ent.Key, val: ent.Value})
	}
}

// Get returns the value stored at key, or a keyNotFound error.
func (e *Engine) Get(key value.Key) (value.Value, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.tree.Get(record{key: key})
	if !ok {
		return value.Value{}, cachewerrors.KeyNotFound(key)
	}
	return r.val, nil
}

// GetMany looks up every key in order, failing with keyNotFound on
// the first missing key rather than partially succeeding. Duplicate
// keys in the input are each looked up independently and do not
// affect one another since lookups never mutate the keyspace.
func (e *Engine) GetMany(keys []value.Key) ([]value.Value, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		r, ok := e.tree.Get(record{key: k})
		if !ok {
			return nil, cachewerrors.KeyNotFound(k)
		}
		out[i] = r.val
	}
	return out, nil
}

// GetRange returns every entry with lower <= key <= upper in
// ascending key order. Callers are responsible for ensuring
// lower <= upper; an inverted range simply yields no entries.
func (e *Engine) GetRange(lower, upper value.Key) []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Entry
	e.tree.Ascend(record{key: lower}, func(r record) bool {
		if r.key > upper {
			return false
		}
		out = append(out, Entry{Key: r.key, Value: r.val})
		return true
	})
	return out
}

// Del removes key, failing with keyNotFound if it is absent.
func (e *Engine) Del(key value.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tree.Delete(record{key: key}); !ok {
		return cachewerrors.KeyNotFound(key)
	}
	return nil
}

// DelMany deletes every key in order, stopping and reporting
// keyNotFound at the first one that isn't present. Keys already
// deleted earlier in the same call (duplicates in the input) are
// "not present" by the time their second occurrence is reached, which
// is exactly the keyNotFound behavior a lone duplicate should produce
// — there is no separate duplicate-key rule.
func (e *Engine) DelMany(keys []value.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range keys {
		if _, ok := e.tree.Delete(record{key: k}); !ok {
			return cachewerrors.KeyNotFound(k)
		}
	}
	return nil
}

// DelRange removes every entry with lower <= key <= upper and reports
// how many entries were removed.
func (e *Engine) DelRange(lower, upper value.Key) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	var keys []value.Key
	e.tree.Ascend(record{key: lower}, func(r record) bool {
		if r.key > upper {
			return false
		}
		keys = append(keys, r.key)
		return true
	})
	for _, k := range keys {
		e.tree.Delete(record{key: k})
	}
	return len(keys)
}

// Clear removes every entry.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree = btree.NewBTreeG(recordLess)
}

// Len reports the number of stored entries.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Len()
}

// Exists reports whether key is currently stored.
func (e *Engine) Exists(key value.Key) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.tree.Get(record{key: key})
	return ok
}
