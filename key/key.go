// Package key implements the Key and Key-set primitives: the owned
// (name, unescaped-name, value, meta, lock-flags, refcount) tuple and the
// ordered, unescaped-name-sorted collection that holds it. The two live in
// one package because a Key-set holds reference-counted handles to Keys and
// a Key's meta is itself a Key-set — putting them in separate packages
// would force an import cycle that the design explicitly rules out (keys
// never hold references back to the sets that contain them; the cycle
// would only exist at the package-dependency level, not the data level).
package key

import (
	"math"

	"github.com/keydbkit/keydb/kerr"
	"github.com/keydbkit/keydb/name"
)

// LockFlags is a bitset of the facets that cannot be mutated once locked.
type LockFlags uint8

const (
	LockName LockFlags = 1 << iota
	LockValue
	LockMeta
)

// ValueKind tags a Key's value as string (UTF-8, NUL-terminated semantics)
// or binary (opaque, length-prefixed semantics); the two are mutually
// exclusive.
type ValueKind uint8

const (
	ValueString ValueKind = iota
	ValueBinary
)

// Key is a named, typed, metadata-carrying entry in the configuration tree.
// The zero Key is not valid; construct with New.
type Key struct {
	nm name.Name

	kind   ValueKind
	str    string
	bin    []byte
	fn     any // opaque callable stored by WithFunc; marks the key binary
	hasFn  bool

	meta  *KeySet
	locks LockFlags

	refcount int
	dirty    bool // sync flag: set on every mutation, cleared by storage
	sizeHint int  // reserved hint from WithSize; stored, not acted on
}

// New builds a key with a canonical name and the value/meta/lock state
// described by opts, applied in order. It fails with kerr.ErrInvalidName on
// a malformed name, or kerr.ErrInvalidArgument if opts set both a string
// and a binary value.
func New(fullName string, opts ...Attr) (*Key, error) {
	nm, err := name.Canonicalise(fullName)
	if err != nil {
		return nil, kerr.Wrap(kerr.KindInvalidName, "invalid key name", err)
	}

	st := &attrState{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.hasString && st.hasBinary {
		return nil, kerr.New(kerr.KindInvalidArgument, "value set as both string and binary")
	}

	k := &Key{nm: nm, dirty: true, sizeHint: st.sizeHint}

	switch {
	case st.hasFunc:
		k.kind = ValueBinary
		k.fn = st.fn
		k.hasFn = true
	case st.hasBinary:
		k.kind = ValueBinary
		k.bin = append([]byte(nil), st.binVal...)
	default:
		k.kind = ValueString
		k.str = st.strVal
	}

	if len(st.metaPairs) > 0 {
		k.meta = NewKeySet(len(st.metaPairs))
		for _, p := range st.metaPairs {
			mk, err := New(p[0], WithString(p[1]))
			if err != nil {
				return nil, err
			}
			if _, err := k.meta.AppendKey(mk); err != nil {
				return nil, err
			}
		}
	}

	k.locks = st.flags
	if st.lockName {
		k.locks |= LockName
	}
	if st.lockValue {
		k.locks |= LockValue
	}
	if st.lockMeta {
		k.locks |= LockMeta
	}

	return k, nil
}

// Name returns the escaped canonical name. The returned string is a
// borrowed view of the key's current name; it is invalidated by the next
// name mutation.
func (k *Key) Name() string { return k.nm.Escaped }

// UnescapedName returns the NUL-segment sort-key form of the name.
func (k *Key) UnescapedName() []byte { return k.nm.Unescaped }

// Namespace returns the key's namespace, classified from its name.
func (k *Key) Namespace() name.Namespace { return k.nm.NS }

// NameSize mirrors the C API's size-including-terminator convention: it is
// len(Name())+1, so the empty key reports size 1 ("lone NUL").
func (k *Key) NameSize() int { return len(k.nm.Escaped) + 1 }

// UnescapedNameSize returns the length of the wire-form unescaped name.
func (k *Key) UnescapedNameSize() int { return len(k.nm.Unescaped) }

// IsLocked reports whether every facet in want is locked.
func (k *Key) IsLocked(want LockFlags) bool { return k.locks&want == want }

// Lock sets the given lock facets; locking is monotone (never unlocks).
func (k *Key) Lock(facets LockFlags) { k.locks |= facets }

// NeedSync reports the sync flag: true if the key has been mutated since
// storage last round-tripped it.
func (k *Key) NeedSync() bool { return k.dirty }

// markSynced clears the sync flag; called by storage plugins after a
// successful round trip.
func (k *Key) markSynced() { k.dirty = false }

// MarkSynced clears the sync flag, called by storage plugins after a
// successful round trip.
func (k *Key) MarkSynced() { k.markSynced() }

// IncRef increments the reference count, saturating at the point an
// overflow is detected rather than wrapping.
func (k *Key) IncRef() (int, error) {
	if k.refcount == math.MaxInt {
		return k.refcount, kerr.ErrRefcountOverflow
	}
	k.refcount++
	return k.refcount, nil
}

// DecRef decrements the reference count. Calling DecRef when it is already
// zero is a no-op error return, never a negative count.
func (k *Key) DecRef() (int, error) {
	if k.refcount == 0 {
		return 0, kerr.New(kerr.KindInvalidArgument, "decRef on key with refcount already zero")
	}
	k.refcount--
	return k.refcount, nil
}

// RefCount returns the current reference count.
func (k *Key) RefCount() int { return k.refcount }

// Compare returns a total order consistent with unescaped-name byte order;
// zero iff the two keys have the same name.
func Compare(a, b *Key) int {
	return compareBytes(a.UnescapedName(), b.UnescapedName())
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
