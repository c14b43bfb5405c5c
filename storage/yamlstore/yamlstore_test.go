package yamlstore

import (
	"path/filepath"
	"testing"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	store := New(path)

	parent, _ := key.New("user/app")
	set := key.NewKeySet(0)
	strKey, _ := key.New("user/app/color", key.WithString("red"))
	binKey, _ := key.New("user/app/payload", key.WithBinary([]byte{9, 8, 7}))
	set.AppendKey(strKey)
	set.AppendKey(binKey)

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
	if readBack.Size() != 2 {
		t.Fatalf("readBack.Size() = %d, want 2", readBack.Size())
	}

	colorKey, err := readBack.Lookup("user/app/color", key.LookupNone)
	if err != nil || colorKey == nil {
		t.Fatalf("lookup color: %v", err)
	}
	if v, _ := colorKey.String(); v != "red" {
		t.Errorf("color = %q, want red", v)
	}

	payloadKey, err := readBack.Lookup("user/app/payload", key.LookupNone)
	if err != nil || payloadKey == nil {
		t.Fatalf("lookup payload: %v", err)
	}
	b, err := payloadKey.Bytes()
	if err != nil || len(b) != 3 || b[0] != 9 {
		t.Errorf("payload bytes = %v, %v", b, err)
	}
}
