package legacystore

import (
	"path/filepath"
	"testing"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.cfg")
	store := New(path)

	parent, _ := key.New("dir/app")
	set := key.NewKeySet(0)
	k, _ := key.New("dir/app/color", key.WithString("café"))
	set.AppendKey(k)

	if _, err := store.Set(set, parent); err != nil {
		t.Fatalf("Set: %v", err)
	}

	readBack := key.NewKeySet(0)
	st, err := store.Get(readBack, parent)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st != kdb.StatusUpdated {
		t.Errorf("status = %v, want updated", st)
	}

	found, err := readBack.Lookup("dir/app/color", key.LookupNone)
	if err != nil || found == nil {
		t.Fatalf("lookup: %v", err)
	}
	v, _ := found.String()
	if v != "café" {
		t.Errorf("value = %q, want café", v)
	}
}
