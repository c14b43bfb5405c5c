package kdb_test

import (
	"testing"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
	"github.com/keydbkit/keydb/storage/memstore"
)

func TestOpenGetSetRoundTrip(t *testing.T) {
	seed := key.NewKeySet(1)
	seeded, err := key.New("user/sw/app/color", key.WithString("blue"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := seed.AppendKey(seeded); err != nil {
		t.Fatal(err)
	}
	store := memstore.New("mem", seed)

	h, err := kdb.Open(kdb.Contract{
		Mounts: []kdb.MountPoint{{Prefix: "user/sw/app", Plugins: []kdb.Plugin{store}}},
	}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	parent, err := key.New("user/sw/app")
	if err != nil {
		t.Fatal(err)
	}
	set := key.NewKeySet(0)

	st, err := h.Get(set, parent)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st != kdb.StatusUpdated {
		t.Errorf("Get status = %v, want updated", st)
	}
	if set.Size() != 1 {
		t.Fatalf("set.Size() = %d, want 1", set.Size())
	}

	// set is unchanged from the snapshot Get just returned, so Diff finds no
	// added/changed/removed keys and Set short-circuits without calling the
	// plugin chain.
	st, err = h.Set(set, parent)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if st != kdb.StatusNoChange {
		t.Errorf("Set status = %v, want no-change for an unmodified commit", st)
	}

	changed, err := key.New("user/sw/app/color", key.WithString("red"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.AppendKey(changed); err != nil {
		t.Fatal(err)
	}
	st, err = h.Set(set, parent)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if st != kdb.StatusUpdated {
		t.Errorf("Set status = %v, want updated after a real value change", st)
	}
}

func TestSetWithoutGetFailsNeedsGet(t *testing.T) {
	store := memstore.New("mem", nil)
	h, err := kdb.Open(kdb.Contract{
		Mounts: []kdb.MountPoint{{Prefix: "user/sw/app", Plugins: []kdb.Plugin{store}}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	parent, _ := key.New("user/sw/app")
	set := key.NewKeySet(0)
	if _, err := h.Set(set, parent); err == nil {
		t.Fatal("expected needs-get error")
	}
}

func TestNoMountReportsStorageError(t *testing.T) {
	h, err := kdb.Open(kdb.Contract{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	parent, _ := key.New("user/unmounted")
	set := key.NewKeySet(0)
	if _, err := h.Get(set, parent); err == nil {
		t.Fatal("expected error for unmounted name")
	}
}
