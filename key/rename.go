package key

import (
	"github.com/keydbkit/keydb/kerr"
	"github.com/keydbkit/keydb/name"
)

// SetName replaces k's name outright. If the name facet is locked, or k is
// held by a key-set (refcount > 0, "membership frozen"), the operation
// fails without side effect. If newName is simply malformed, SetName
// matches the documented compatibility quirk of leaving the name empty
// rather than unchanged.
func (k *Key) SetName(newName string) error {
	if err := k.checkNameMutable(); err != nil {
		return err
	}
	nm, err := name.Canonicalise(newName)
	if err != nil {
		k.nm = name.Name{}
		k.dirty = true
		return kerr.Wrap(kerr.KindInvalidName, "invalid key name", err)
	}
	k.nm = nm
	k.dirty = true
	return nil
}

// AddName resolves suffix against k's current name (honoring "."/".."
// navigation; a ".." past the root is elided once, and a second one in a row
// fails with an invalid-name error) and sets the result as k's new name. It
// cannot change k's namespace. Unlike SetName, a failure here never
// touches k's existing name.
func (k *Key) AddName(suffix string) error {
	if err := k.checkNameMutable(); err != nil {
		return err
	}
	nm, err := name.Extend(k.nm, suffix)
	if err != nil {
		return kerr.Wrap(kerr.KindInvalidName, "invalid name suffix", err)
	}
	k.nm = nm
	k.dirty = true
	return nil
}

// SetBaseName replaces the last segment of k's name with baseName, which is
// escaped literally (any "/" or "." in it becomes a real character within
// the segment, not navigation).
func (k *Key) SetBaseName(baseName string) error {
	if err := k.checkNameMutable(); err != nil {
		return err
	}
	segs := k.nm.Segments()
	if len(segs) == 0 {
		return kerr.New(kerr.KindInvalidArgument, "cannot set base name on a root-only name")
	}
	segs = segs[:len(segs)-1]
	nm, err := name.Join(k.nm.NS, k.nm.Owner(), append(segs, baseName)...)
	if err != nil {
		return kerr.Wrap(kerr.KindInvalidName, "invalid base name", err)
	}
	k.nm = nm
	k.dirty = true
	return nil
}

// AddBaseName appends baseName as one new literal segment under k's
// current name.
func (k *Key) AddBaseName(baseName string) error {
	if err := k.checkNameMutable(); err != nil {
		return err
	}
	segs := append(append([]string(nil), k.nm.Segments()...), baseName)
	nm, err := name.Join(k.nm.NS, k.nm.Owner(), segs...)
	if err != nil {
		return kerr.Wrap(kerr.KindInvalidName, "invalid base name", err)
	}
	k.nm = nm
	k.dirty = true
	return nil
}

func (k *Key) checkNameMutable() error {
	if k.IsLocked(LockName) {
		return kerr.ErrLocked
	}
	if k.refcount > 0 {
		return kerr.ErrMembershipFrozen
	}
	return nil
}
