package key

import (
	"bytes"
	"sort"

	"github.com/keydbkit/keydb/kerr"
	"github.com/keydbkit/keydb/name"
)

// KeySet is an ordered, unescaped-name-sorted collection of reference
// counted Keys. The zero value is not valid; construct with NewKeySet.
type KeySet struct {
	keys   []*Key
	cursor int // -1 means "before first"
}

// NewKeySet returns an empty set with capacity reserved for sizeHint keys.
func NewKeySet(sizeHint int) *KeySet {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &KeySet{keys: make([]*Key, 0, sizeHint), cursor: -1}
}

// Size returns the number of keys held.
func (ks *KeySet) Size() int { return len(ks.keys) }

// search returns the index a key with name nm occupies, or, if absent, the
// negative encoding -(insertion point)-1, matching the C API's ksSearch.
func (ks *KeySet) search(unescaped []byte) int {
	lo, hi := 0, len(ks.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		c := compareBytes(ks.keys[mid].UnescapedName(), unescaped)
		switch {
		case c == 0:
			return mid
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -(lo + 1)
}

// Search returns the index of the key named fullName, or a negative
// insertion-point encoding (-(pos)-1) if it is absent.
func (ks *KeySet) Search(fullName string) (int, error) {
	n, err := name.Canonicalise(fullName)
	if err != nil {
		return 0, err
	}
	return ks.search(n.Unescaped), nil
}

// AppendKey inserts k in sorted order, or replaces the existing key of the
// same name. On replace, the superseded key's reference count is
// decremented and the new key's is incremented; on fresh insert only the
// new key's is incremented. Returns the set's new size.
func (ks *KeySet) AppendKey(k *Key) (int, error) {
	if k == nil {
		return 0, kerr.New(kerr.KindInvalidArgument, "cannot append nil key")
	}
	idx := ks.search(k.UnescapedName())
	if idx >= 0 {
		old := ks.keys[idx]
		if old == k {
			return len(ks.keys), nil
		}
		if _, err := old.DecRef(); err != nil {
			return 0, err
		}
		if _, err := k.IncRef(); err != nil {
			return 0, err
		}
		ks.keys[idx] = k
		return len(ks.keys), nil
	}

	pos := -(idx + 1)
	if _, err := k.IncRef(); err != nil {
		return 0, err
	}
	ks.keys = append(ks.keys, nil)
	copy(ks.keys[pos+1:], ks.keys[pos:])
	ks.keys[pos] = k
	ks.cursor = -1
	return len(ks.keys), nil
}

// AppendSet inserts every key of src into ks (AppendKey semantics per key).
// Returns the set's new size.
func (ks *KeySet) AppendSet(src *KeySet) (int, error) {
	if src == nil {
		return len(ks.keys), nil
	}
	for _, k := range src.keys {
		if _, err := ks.AppendKey(k); err != nil {
			return 0, err
		}
	}
	return len(ks.keys), nil
}

// At returns the key at position i, or nil if i is out of range.
func (ks *KeySet) At(i int) *Key {
	if i < 0 || i >= len(ks.keys) {
		return nil
	}
	return ks.keys[i]
}

// Head returns the first key, or nil if the set is empty.
func (ks *KeySet) Head() *Key { return ks.At(0) }

// Tail returns the last key, or nil if the set is empty.
func (ks *KeySet) Tail() *Key { return ks.At(len(ks.keys) - 1) }

// Rewind resets the cursor to "before first".
func (ks *KeySet) Rewind() { ks.cursor = -1 }

// Next advances the cursor and returns the key now under it, or nil once
// exhausted.
func (ks *KeySet) Next() *Key {
	if ks.cursor+1 >= len(ks.keys) {
		ks.cursor = len(ks.keys)
		return nil
	}
	ks.cursor++
	return ks.keys[ks.cursor]
}

// Current returns the key under the cursor, or nil if the cursor is before
// the first element or past the last.
func (ks *KeySet) Current() *Key {
	if ks.cursor < 0 || ks.cursor >= len(ks.keys) {
		return nil
	}
	return ks.keys[ks.cursor]
}

// SetCursor moves the cursor to position i. It fails with
// kerr.ErrInvalidArgument if i is out of [0, Size()).
func (ks *KeySet) SetCursor(i int) error {
	if i < 0 || i >= len(ks.keys) {
		return kerr.New(kerr.KindInvalidArgument, "cursor position out of range")
	}
	ks.cursor = i
	return nil
}

// Pop removes and returns the last key in the set, decrementing its
// reference count. It returns nil if the set is empty.
func (ks *KeySet) Pop() *Key {
	n := len(ks.keys)
	if n == 0 {
		return nil
	}
	k := ks.keys[n-1]
	ks.keys = ks.keys[:n-1]
	if ks.cursor >= len(ks.keys) {
		ks.cursor = len(ks.keys) - 1
	}
	_, _ = k.DecRef()
	return k
}

// Remove removes and returns the key at index i (preserving order),
// decrementing its reference count. It returns nil if i is out of range.
func (ks *KeySet) Remove(i int) *Key {
	if i < 0 || i >= len(ks.keys) {
		return nil
	}
	k := ks.keys[i]
	ks.keys = append(ks.keys[:i], ks.keys[i+1:]...)
	if ks.cursor >= len(ks.keys) {
		ks.cursor = len(ks.keys) - 1
	}
	_, _ = k.DecRef()
	return k
}

// Cut extracts every key at or below root (by unescaped-name containment)
// into a new set, removing them from ks. Keys outside the subtree are left
// untouched and keep their position. Custody transfers without touching
// reference counts: each extracted key is still held by exactly one set.
func (ks *KeySet) Cut(root *Key) *KeySet {
	out := NewKeySet(0)
	kept := ks.keys[:0:0]
	for _, k := range ks.keys {
		if sameOrBelow(root, k) {
			out.keys = append(out.keys, k)
		} else {
			kept = append(kept, k)
		}
	}
	ks.keys = kept
	ks.cursor = -1
	return out
}

func sameOrBelow(root, k *Key) bool {
	rn, kn := root.UnescapedName(), k.UnescapedName()
	if len(kn) < len(rn) {
		return false
	}
	if compareBytes(kn[:len(rn)], rn) != 0 {
		return false
	}
	// rn is NUL-terminated, so a matching byte prefix already ends on a
	// segment boundary of kn.
	return len(kn) == len(rn) || (len(rn) > 0 && rn[len(rn)-1] == 0)
}

// Clone returns a new set referencing the same Key pointers as ks, each
// with its reference count bumped — the "copy(dest, src)" reference-sharing
// semantics of §4.3, used internally wherever meta attachment is meant to
// cheaply share one payload across many keys rather than duplicate it.
func (ks *KeySet) Clone() *KeySet {
	out := NewKeySet(len(ks.keys))
	for _, k := range ks.keys {
		_, _ = k.IncRef()
		out.keys = append(out.keys, k)
	}
	return out
}

// Duplicate returns a new, fully independent set: every key is deep
// copied (name, value and meta), so mutating the result never affects ks
// or vice versa. This is the set-level counterpart to Key.Duplicate, used
// where true isolation is required (e.g. a storage plugin staging a
// snapshot of a caller-owned set).
func (ks *KeySet) Duplicate() *KeySet {
	out := NewKeySet(len(ks.keys))
	for _, k := range ks.keys {
		_, _ = out.AppendKey(k.Duplicate(CopyAll))
	}
	return out
}

// ForEach calls fn for every key in order. Iteration stops early if fn
// returns false.
func (ks *KeySet) ForEach(fn func(*Key) bool) {
	for _, k := range ks.keys {
		if !fn(k) {
			return
		}
	}
}

// Filter returns a read-only view restricted to one namespace: a new set
// holding every key of ks classified into ns, preserving order and bumping
// reference counts. Storage plugins that only care about their own mounted
// namespace's slice of a committed set use this instead of walking the
// whole set and checking prefixes by hand.
func (ks *KeySet) Filter(ns name.Namespace) *KeySet {
	out := NewKeySet(0)
	for _, k := range ks.keys {
		if k.Namespace() == ns {
			_, _ = out.AppendKey(k)
		}
	}
	return out
}

// Diff compares ks against other, both assumed sorted by unescaped name (the
// invariant every KeySet maintains), and buckets the difference into three
// new sets: added holds keys present in ks but not other, removed holds keys
// present in other but not ks, and changed holds keys present in both whose
// value differs. Names alone decide added vs. removed vs. present in both;
// value equality then decides whether a key present in both is changed.
// kdb.Set uses this to skip calling a plugin chain when a
// commit would be a no-op.
func (ks *KeySet) Diff(other *KeySet) (added, changed, removed *KeySet) {
	added, changed, removed = NewKeySet(0), NewKeySet(0), NewKeySet(0)
	if other == nil {
		other = NewKeySet(0)
	}
	i, j := 0, 0
	for i < len(ks.keys) && j < len(other.keys) {
		a, b := ks.keys[i], other.keys[j]
		switch c := Compare(a, b); {
		case c < 0:
			_, _ = added.AppendKey(a)
			i++
		case c > 0:
			_, _ = removed.AppendKey(b)
			j++
		default:
			if !sameValue(a, b) {
				_, _ = changed.AppendKey(a)
			}
			i++
			j++
		}
	}
	for ; i < len(ks.keys); i++ {
		_, _ = added.AppendKey(ks.keys[i])
	}
	for ; j < len(other.keys); j++ {
		_, _ = removed.AppendKey(other.keys[j])
	}
	return added, changed, removed
}

func sameValue(a, b *Key) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == ValueBinary {
		return bytes.Equal(a.bin, b.bin)
	}
	return a.str == b.str
}

// sortedNames is a test/debug helper returning the set's escaped names
// sorted as plain strings. That is not always cursor order: the set is
// ordered by unescaped name, so "user/a/b" precedes "user/a-b" in the set
// but follows it here.
func (ks *KeySet) sortedNames() []string {
	names := make([]string, len(ks.keys))
	for i, k := range ks.keys {
		names[i] = k.Name()
	}
	sort.Strings(names)
	return names
}
