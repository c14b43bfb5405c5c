package memstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

func mustKey(t *testing.T, name, value string) *key.Key {
	t.Helper()
	k, err := key.New(name, key.WithString(value))
	require.NoError(t, err)
	return k
}

func TestGetOnEmptyStoreIsNoChange(t *testing.T) {
	s := New("proc", nil)
	set := key.NewKeySet(0)
	parent, err := key.New("proc")
	require.NoError(t, err)

	st, err := s.Get(set, parent)
	require.NoError(t, err)
	require.Equal(t, kdb.StatusNoChange, st)
	require.Equal(t, 0, set.Size())
}

func TestSetStagesThenGetReturnsIt(t *testing.T) {
	s := New("proc", nil)
	parent, err := key.New("proc")
	require.NoError(t, err)

	staged := key.NewKeySet(0)
	_, err = staged.AppendKey(mustKey(t, "proc/app/color", "blue"))
	require.NoError(t, err)

	st, err := s.Set(staged, parent)
	require.NoError(t, err)
	require.Equal(t, kdb.StatusUpdated, st)

	fetched := key.NewKeySet(0)
	st, err = s.Get(fetched, parent)
	require.NoError(t, err)
	require.Equal(t, kdb.StatusUpdated, st)

	found, err := fetched.Lookup("proc/app/color", key.LookupNone)
	require.NoError(t, err)
	require.NotNil(t, found)
	v, err := found.String()
	require.NoError(t, err)
	require.Equal(t, "blue", v)
}

func TestSetIsolatesFromCallerMutation(t *testing.T) {
	s := New("proc", nil)
	parent, err := key.New("proc")
	require.NoError(t, err)

	k := mustKey(t, "proc/app/color", "blue")
	staged := key.NewKeySet(0)
	_, err = staged.AppendKey(k)
	require.NoError(t, err)

	_, err = s.Set(staged, parent)
	require.NoError(t, err)

	// Mutating the caller's key after Set must not leak into the plugin's
	// staged snapshot: Set takes ownership of an independent duplicate.
	require.NoError(t, k.SetString("red"))

	fetched := key.NewKeySet(0)
	_, err = s.Get(fetched, parent)
	require.NoError(t, err)
	found, err := fetched.Lookup("proc/app/color", key.LookupNone)
	require.NoError(t, err)
	require.NotNil(t, found)
	v, err := found.String()
	require.NoError(t, err)
	require.Equal(t, "blue", v)
}
