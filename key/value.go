package key

import "github.com/keydbkit/keydb/kerr"

// IsString reports whether the key holds a string value.
func (k *Key) IsString() bool { return k.kind == ValueString }

// IsBinary reports whether the key holds a binary value.
func (k *Key) IsBinary() bool { return k.kind == ValueBinary }

// String returns the string value. It fails with kerr.ErrTypeMismatch if
// the key is binary.
func (k *Key) String() (string, error) {
	if k.kind != ValueString {
		return "", kerr.ErrTypeMismatch
	}
	return k.str, nil
}

// Bytes returns the binary value. It fails with kerr.ErrTypeMismatch if the
// key is a string (the opaque-func binary form returns a nil buffer, not an
// error, since it legitimately carries no byte payload).
func (k *Key) Bytes() ([]byte, error) {
	if k.kind != ValueBinary {
		return nil, kerr.ErrTypeMismatch
	}
	return k.bin, nil
}

// Func returns the opaque callable stored by WithFunc, if any.
func (k *Key) Func() (any, bool) { return k.fn, k.hasFn }

// ValueSize returns the logical size of the current value (string length
// including its NUL terminator, or binary length).
func (k *Key) ValueSize() int {
	if k.kind == ValueString {
		return len(k.str) + 1
	}
	return len(k.bin)
}

// SetString replaces the value with a string, marking the key string-typed.
// It fails with kerr.ErrLocked if the value facet is locked.
func (k *Key) SetString(v string) error {
	if k.IsLocked(LockValue) {
		return kerr.ErrLocked
	}
	k.kind = ValueString
	k.str = v
	k.bin = nil
	k.fn = nil
	k.hasFn = false
	k.dirty = true
	return nil
}

// SetBinary replaces the value with a binary buffer, marking the key
// binary-typed. It fails with kerr.ErrLocked if the value facet is locked.
func (k *Key) SetBinary(buf []byte) error {
	if k.IsLocked(LockValue) {
		return kerr.ErrLocked
	}
	k.kind = ValueBinary
	k.bin = append([]byte(nil), buf...)
	k.str = ""
	k.fn = nil
	k.hasFn = false
	k.dirty = true
	return nil
}
