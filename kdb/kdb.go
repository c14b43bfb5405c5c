// Package kdb is the database facade: it resolves a key-set's keys against
// an ordered table of mounted storage plugins and reports whether the
// round trip changed anything. No package-level mutable state exists;
// every call threads through an explicit *Context.
package kdb

import (
	"sort"

	"github.com/keydbkit/keydb/key"
	"github.com/keydbkit/keydb/kerr"
)

// Status is the tri-state result of a plugin round trip.
type Status int

const (
	// StatusNoChange indicates the call completed and nothing changed.
	StatusNoChange Status = iota
	// StatusUpdated indicates the call completed and the key-set changed.
	StatusUpdated
	// StatusError indicates the call failed; see the returned error.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNoChange:
		return "no-change"
	case StatusUpdated:
		return "updated"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Context carries the ambient state a plugin may need (current user,
// default owner, environment lookup), replacing the package-level globals
// a C-style API would otherwise reach for.
type Context struct {
	CurrentUser  string
	OwnerDefault string
	Getenv       func(string) string
}

// Plugin is the storage contract a mount point's chain is built from.
type Plugin interface {
	Name() string
	Open(ctx *Context) error
	Get(set *key.KeySet, parent *key.Key) (Status, error)
	Set(set *key.KeySet, parent *key.Key) (Status, error)
	Close() error
}

// MountPoint binds an ordered plugin chain to a name prefix.
type MountPoint struct {
	Prefix  string
	Plugins []Plugin
}

// Contract describes the mount table a Handle is opened with.
type Contract struct {
	Mounts []MountPoint
}

// Handle is the live, opened facade returned by Open. It satisfies
// io.Closer.
type Handle struct {
	ctx    *Context
	mounts []MountPoint

	// lastSeen holds, per parent name, a deep-copied snapshot of the set a
	// prior Get returned, so Set can diff against it and skip the plugin
	// chain entirely when the caller's set is unchanged.
	lastSeen map[string]*key.KeySet
}

// Open opens every plugin in contract's mount table in order, rolling back
// (closing) any already-opened plugin if a later one fails.
func Open(contract Contract, ctx *Context) (*Handle, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	h := &Handle{
		ctx:      ctx,
		mounts:   append([]MountPoint(nil), contract.Mounts...),
		lastSeen: map[string]*key.KeySet{},
	}

	// Longest-prefix-first match order, computed once at open time.
	sort.SliceStable(h.mounts, func(i, j int) bool {
		return len(h.mounts[i].Prefix) > len(h.mounts[j].Prefix)
	})

	opened := 0
	for _, mp := range h.mounts {
		for _, p := range mp.Plugins {
			if err := p.Open(ctx); err != nil {
				closeOpened(h.mounts, opened)
				return nil, kerr.Wrap(kerr.KindStorageError, "plugin open failed: "+p.Name(), err)
			}
			opened++
		}
	}
	return h, nil
}

func closeOpened(mounts []MountPoint, n int) {
	i := 0
	for _, mp := range mounts {
		for _, p := range mp.Plugins {
			if i >= n {
				return
			}
			_ = p.Close()
			i++
		}
	}
}

// Close closes every mounted plugin in reverse-open order, returning the
// first error encountered (if any) after attempting every close.
func (h *Handle) Close() error {
	var first error
	for i := len(h.mounts) - 1; i >= 0; i-- {
		mp := h.mounts[i]
		for j := len(mp.Plugins) - 1; j >= 0; j-- {
			if err := mp.Plugins[j].Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Mounts returns the mount table in longest-prefix-first match order, for
// callers (e.g. the CLI's "mount" subcommand) that need to inspect what is
// mounted where without reaching into Handle's internals.
func (h *Handle) Mounts() []MountPoint {
	return append([]MountPoint(nil), h.mounts...)
}

func (h *Handle) mountFor(name string) *MountPoint {
	for i := range h.mounts {
		if hasPrefix(name, h.mounts[i].Prefix) {
			return &h.mounts[i]
		}
	}
	return nil
}

func hasPrefix(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	if len(name) < len(prefix) {
		return false
	}
	if name[:len(prefix)] != prefix {
		return false
	}
	return len(name) == len(prefix) || name[len(prefix)] == '/'
}

// Get resolves set against the plugin chain mounted for parent's name,
// attaching any warnings/error meta to parent (see warnings.go).
func (h *Handle) Get(set *key.KeySet, parent *key.Key) (Status, error) {
	mp := h.mountFor(parent.Name())
	if mp == nil {
		return StatusError, kerr.New(kerr.KindStorageError, "no plugin mounted for "+parent.Name())
	}
	overall := StatusNoChange
	for i, p := range mp.Plugins {
		st, err := p.Get(set, parent)
		if err != nil {
			recordError(parent, i, p.Name(), err)
			return StatusError, err
		}
		if st == StatusUpdated {
			overall = StatusUpdated
		}
	}
	parent.MarkSynced()
	h.lastSeen[parent.Name()] = set.Duplicate()
	return overall, nil
}

// Set pushes set through the plugin chain mounted for parent's name. It
// fails with kerr.ErrNeedsGet if parent was never synced by a prior Get. If
// set is unchanged from the snapshot the matching Get returned (per
// key.KeySet.Diff), the plugin chain is never called and Set reports
// StatusNoChange.
func (h *Handle) Set(set *key.KeySet, parent *key.Key) (Status, error) {
	if parent.NeedSync() {
		return StatusError, kerr.ErrNeedsGet
	}
	if baseline, ok := h.lastSeen[parent.Name()]; ok {
		added, changed, removed := set.Diff(baseline)
		if added.Size() == 0 && changed.Size() == 0 && removed.Size() == 0 {
			return StatusNoChange, nil
		}
	}
	mp := h.mountFor(parent.Name())
	if mp == nil {
		return StatusError, kerr.New(kerr.KindStorageError, "no plugin mounted for "+parent.Name())
	}
	overall := StatusNoChange
	for i, p := range mp.Plugins {
		st, err := p.Set(set, parent)
		if err != nil {
			recordError(parent, i, p.Name(), err)
			return StatusError, err
		}
		if st == StatusUpdated {
			overall = StatusUpdated
		}
	}
	h.lastSeen[parent.Name()] = set.Duplicate()
	return overall, nil
}
