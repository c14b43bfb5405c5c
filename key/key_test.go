package key

import "testing"

func TestNewKeyBasics(t *testing.T) {
	k, err := New("user/sw/app", WithString("hello"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if k.Name() != "user/sw/app" {
		t.Errorf("Name() = %q", k.Name())
	}
	v, err := k.String()
	if err != nil || v != "hello" {
		t.Errorf("String() = %q, %v", v, err)
	}
	if k.NameSize() != len("user/sw/app")+1 {
		t.Errorf("NameSize() = %d", k.NameSize())
	}
}

func TestNewKeyRejectsStringAndBinary(t *testing.T) {
	_, err := New("user/x", WithString("a"), WithBinary([]byte("b")))
	if err == nil {
		t.Fatal("expected error for both string and binary")
	}
}

func TestNewKeyWithMeta(t *testing.T) {
	k, err := New("user/x", WithMeta("comment", "a note"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := k.Comment(); got != "a note" {
		t.Errorf("Comment() = %q, want %q", got, "a note")
	}
}

func TestValueTypeMismatch(t *testing.T) {
	k, _ := New("user/x", WithBinary([]byte{1, 2, 3}))
	if _, err := k.String(); err == nil {
		t.Error("expected type mismatch reading string from binary key")
	}
	b, err := k.Bytes()
	if err != nil || len(b) != 3 {
		t.Errorf("Bytes() = %v, %v", b, err)
	}
}

func TestLockedValueRejectsSet(t *testing.T) {
	k, _ := New("user/x", WithString("a"), LockValueAttr())
	if err := k.SetString("b"); err == nil {
		t.Fatal("expected locked error")
	}
	v, _ := k.String()
	if v != "a" {
		t.Errorf("value changed despite lock: %q", v)
	}
}

func TestRefCounting(t *testing.T) {
	k, _ := New("user/x")
	if n, err := k.IncRef(); err != nil || n != 1 {
		t.Fatalf("IncRef: %d, %v", n, err)
	}
	if n, err := k.DecRef(); err != nil || n != 0 {
		t.Fatalf("DecRef: %d, %v", n, err)
	}
	if _, err := k.DecRef(); err == nil {
		t.Fatal("expected error decrementing below zero")
	}
}

func TestMembershipFrozenBlocksRename(t *testing.T) {
	k, _ := New("user/x")
	ks := NewKeySet(1)
	if _, err := ks.AppendKey(k); err != nil {
		t.Fatalf("AppendKey: %v", err)
	}
	if err := k.SetName("user/y"); err == nil {
		t.Fatal("expected membership-frozen error")
	}
	if k.Name() != "user/x" {
		t.Errorf("name mutated despite frozen membership: %q", k.Name())
	}
}

func TestSetNameInvalidClearsName(t *testing.T) {
	k, _ := New("user/x")
	err := k.SetName("bad\x00name")
	if err == nil {
		t.Fatal("expected invalid-name error")
	}
	if k.Name() != "" {
		t.Errorf("expected name cleared on invalid SetName, got %q", k.Name())
	}
}

func TestAddBaseNameEscapesDot(t *testing.T) {
	k, _ := New("user/sw/app")
	if err := k.AddBaseName("my.key"); err != nil {
		t.Fatalf("AddBaseName: %v", err)
	}
	if k.Name() != "user/sw/app/my\\.key" {
		t.Errorf("Name() = %q", k.Name())
	}
}

func TestClearResetsNameValueAndMeta(t *testing.T) {
	k, _ := New("user/x", WithString("a"), WithMeta("comment", "note"))
	if err := k.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if k.Name() != "" {
		t.Errorf("Name() after Clear = %q, want empty", k.Name())
	}
	v, err := k.String()
	if err != nil || v != "" {
		t.Errorf("String() after Clear = %q, %v", v, err)
	}
	if k.MetaSize() != 0 {
		t.Errorf("MetaSize() after Clear = %d, want 0", k.MetaSize())
	}
}

func TestClearBlockedByLockIsAtomic(t *testing.T) {
	k, _ := New("user/x", WithString("a"), LockValueAttr())
	if err := k.Clear(); err == nil {
		t.Fatal("expected locked error")
	}
	if k.Name() != "user/x" {
		t.Errorf("name changed despite blocked Clear: %q", k.Name())
	}
	v, _ := k.String()
	if v != "a" {
		t.Errorf("value changed despite blocked Clear: %q", v)
	}
}

func TestClearNeverUnlocks(t *testing.T) {
	// A locked, non-empty name facet blocks Clear outright; the lock itself
	// must never be cleared as a side effect of the attempt.
	k, _ := New("user/x", LockNameAttr())
	if err := k.Clear(); err == nil {
		t.Fatal("expected locked error resetting a locked, non-empty name")
	}
	if !k.IsLocked(LockName) {
		t.Error("Clear must never unlock a locked facet")
	}
	if k.Name() != "user/x" {
		t.Errorf("name mutated despite blocked Clear: %q", k.Name())
	}
}

func TestSetBaseNameFailsOnRootOnlyName(t *testing.T) {
	k, _ := New("user")
	if err := k.SetBaseName("x"); err == nil {
		t.Fatal("expected error setting base name on a root-only name")
	}
	if k.Name() != "user" {
		t.Errorf("name mutated despite rejected SetBaseName: %q", k.Name())
	}
}

func TestSetBaseNameReplacesLastSegment(t *testing.T) {
	k, _ := New("user/sw/app")
	if err := k.SetBaseName("svc"); err != nil {
		t.Fatalf("SetBaseName: %v", err)
	}
	if k.Name() != "user/sw/svc" {
		t.Errorf("Name() = %q, want user/sw/svc", k.Name())
	}
}

func TestAddWarningAndWarningsRoundTrip(t *testing.T) {
	k, _ := New("user/x")
	if err := k.AddWarning(Warning{
		Number:      3,
		Description: "bad value",
		Module:      "tomlstore",
		File:        "tomlstore.go",
		Line:        42,
		Reason:      "unexpected type",
	}); err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	ws := k.Warnings()
	if len(ws) != 1 {
		t.Fatalf("Warnings() len = %d, want 1", len(ws))
	}
	w := ws[0]
	if w.Number != 3 || w.Description != "bad value" || w.Module != "tomlstore" ||
		w.File != "tomlstore.go" || w.Line != 42 || w.Reason != "unexpected type" {
		t.Errorf("Warnings()[0] = %+v", w)
	}
}

func TestErrorMetaNilWhenAbsent(t *testing.T) {
	k, _ := New("user/x")
	if k.ErrorMeta() != nil {
		t.Error("expected nil ErrorMeta on a key with no recorded error")
	}
}

func TestDuplicateIsIndependent(t *testing.T) {
	k, _ := New("user/x", WithString("a"), WithMeta("comment", "c"))
	d := k.Duplicate(CopyAll)
	if err := d.SetString("b"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	orig, _ := k.String()
	dup, _ := d.String()
	if orig != "a" || dup != "b" {
		t.Errorf("duplicate shares state: orig=%q dup=%q", orig, dup)
	}
	if d.RefCount() != 0 {
		t.Errorf("duplicate should start with refcount 0, got %d", d.RefCount())
	}
}
