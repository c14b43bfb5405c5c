// Package memstore is an in-process, no-I/O storage plugin backing the
// proc namespace in kdbctl (and useful directly in tests): it stages
// key-sets in memory exactly as the teacher's hive/merge.Session stages a
// plan before it is ever written to a backing hive.
package memstore

import (
	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

// Store is a memstore plugin instance; each mounted copy holds its own
// independent staged key-set.
type Store struct {
	name   string
	staged *key.KeySet
}

// New returns a memstore plugin seeded with an (optional) initial key-set.
// A nil seed starts empty.
func New(name string, seed *key.KeySet) *Store {
	st := seed
	if st == nil {
		st = key.NewKeySet(0)
	}
	return &Store{name: name, staged: st}
}

func (s *Store) Name() string { return s.name }

func (s *Store) Open(ctx *kdb.Context) error { return nil }

// Get copies every staged key into set, reporting StatusUpdated if set grew.
func (s *Store) Get(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	before := set.Size()
	if _, err := set.AppendSet(s.staged); err != nil {
		return kdb.StatusError, err
	}
	if set.Size() != before {
		return kdb.StatusUpdated, nil
	}
	return kdb.StatusNoChange, nil
}

// Set replaces the staged key-set with a duplicate of set.
func (s *Store) Set(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	s.staged = set.Duplicate()
	return kdb.StatusUpdated, nil
}

func (s *Store) Close() error { return nil }
