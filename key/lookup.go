package key

import "github.com/keydbkit/keydb/name"

// LookupFlags controls the side effects of a Lookup call.
type LookupFlags uint8

const (
	// LookupNone performs a plain lookup with no side effects.
	LookupNone LookupFlags = 0
	// LookupPop removes the found key from the set (reference count
	// decremented) and returns it to the caller, who now owns the only
	// reference.
	LookupPop LookupFlags = 1 << iota
	// LookupDelete removes and discards the found key; unlike LookupPop
	// the key is not returned.
	LookupDelete
)

// Lookup finds the key named fullName directly: no cascading, no namespace
// substitution. It returns nil if absent.
func (ks *KeySet) Lookup(fullName string, flags LookupFlags) (*Key, error) {
	idx, err := ks.Search(fullName)
	if err != nil {
		return nil, err
	}
	return ks.lookupAt(idx, flags), nil
}

func (ks *KeySet) lookupAt(idx int, flags LookupFlags) *Key {
	if idx < 0 {
		return nil
	}
	k := ks.keys[idx]
	switch {
	case flags&LookupDelete != 0:
		ks.Remove(idx)
		return nil
	case flags&LookupPop != 0:
		return ks.Remove(idx)
	default:
		return k
	}
}

// LookupCascading resolves a cascading name ("/owner/path", leading slash,
// no namespace token) by trying each namespace in name.CascadingOrder in
// turn and returning the first hit. If relPath is not a well-formed name it
// returns name.Canonicalise's error (kerr.ErrInvalidUTF8 for an embedded
// NUL or ill-formed UTF-8, kerr.ErrInvalidName for an over-deep "..").
func (ks *KeySet) LookupCascading(relPath string, flags LookupFlags) (*Key, error) {
	base, err := name.Canonicalise(relPath)
	if err != nil {
		return nil, err
	}
	if base.NS != name.Cascading {
		// already namespace-qualified or meta/empty: fall back to a direct
		// lookup under the name as given.
		return ks.Lookup(relPath, flags)
	}

	for _, ns := range name.CascadingOrder {
		qualified, err := name.Join(ns, "", base.Segments()...)
		if err != nil {
			return nil, err
		}
		idx := ks.search(qualified.Unescaped)
		if idx >= 0 {
			return ks.lookupAt(idx, flags), nil
		}
	}
	return nil, nil
}
