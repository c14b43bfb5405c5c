package key

import (
	"github.com/keydbkit/keydb/kerr"
	"github.com/keydbkit/keydb/name"
)

// CopyFlags selects which facets Copy/Duplicate transfer.
type CopyFlags uint8

const (
	CopyName CopyFlags = 1 << iota
	CopyValue
	CopyMeta
	CopyAll = CopyName | CopyValue | CopyMeta
)

// Duplicate returns a new, independent Key with the facets selected by what
// copied from k. Locks and reference count are never copied: the result is
// always unlocked with refcount zero, mirroring construction via New.
func (k *Key) Duplicate(what CopyFlags) *Key {
	d := &Key{dirty: true}
	if what&CopyName != 0 {
		d.nm = k.nm
	}
	if what&CopyValue != 0 {
		d.kind = k.kind
		d.str = k.str
		d.bin = append([]byte(nil), k.bin...)
		d.fn = k.fn
		d.hasFn = k.hasFn
	}
	if what&CopyMeta != 0 && k.meta != nil {
		d.meta = k.meta.Clone()
	}
	return d
}

// Copy overwrites k's selected facets with src's, in place. It fails with
// kerr.ErrLocked if any selected facet on k is currently locked.
func (k *Key) Copy(src *Key, what CopyFlags) error {
	if what&CopyName != 0 && k.IsLocked(LockName) {
		return kerr.ErrLocked
	}
	if what&CopyValue != 0 && k.IsLocked(LockValue) {
		return kerr.ErrLocked
	}
	if what&CopyMeta != 0 && k.IsLocked(LockMeta) {
		return kerr.ErrLocked
	}

	if what&CopyName != 0 {
		k.nm = src.nm
	}
	if what&CopyValue != 0 {
		k.kind = src.kind
		k.str = src.str
		k.bin = append([]byte(nil), src.bin...)
		k.fn = src.fn
		k.hasFn = src.hasFn
	}
	if what&CopyMeta != 0 {
		if src.meta != nil {
			k.meta = src.meta.Clone()
		} else {
			k.meta = nil
		}
	}
	k.dirty = true
	return nil
}

// Clear resets k's name, value and meta to their construction-time empty
// state. Locks are never touched: locking is monotone (key.go:143), so a
// locked facet blocks the reset entirely rather than being silently
// unlocked. The reset is atomic — if any locked facet would need to change,
// Clear fails with kerr.ErrLocked and leaves k untouched.
func (k *Key) Clear() error {
	if k.IsLocked(LockName) && k.nm.Escaped != "" {
		return kerr.ErrLocked
	}
	if k.IsLocked(LockValue) && (k.kind != ValueString || k.str != "" || k.hasFn || len(k.bin) != 0) {
		return kerr.ErrLocked
	}
	if k.IsLocked(LockMeta) && k.meta != nil {
		return kerr.ErrLocked
	}

	k.nm = name.Name{}
	k.kind = ValueString
	k.str = ""
	k.bin = nil
	k.fn = nil
	k.hasFn = false
	k.meta = nil
	k.dirty = true
	return nil
}
