package key

import "github.com/keydbkit/keydb/kerr"

// attrState accumulates the effect of an Attr stream before New finalizes a
// Key. It is the Go realization of the C-style variadic attribute stream of
// §6.3: there is no "end" terminator attribute, because the end of the
// variadic opts slice already plays that role.
type attrState struct {
	hasString bool
	strVal    string

	hasBinary bool
	binVal    []byte

	hasFunc bool
	fn      any

	flags LockFlags

	metaPairs [][2]string

	sizeHint int

	lockName, lockValue, lockMeta bool
}

// Attr configures a Key under construction. Attrs are applied in the order
// passed to New.
type Attr func(*attrState) error

// WithString sets the key's value as a string.
func WithString(v string) Attr {
	return func(s *attrState) error {
		s.hasString = true
		s.strVal = v
		return nil
	}
}

// WithBinary sets the key's value as binary, exclusive with WithString.
func WithBinary(buf []byte) Attr {
	return func(s *attrState) error {
		s.hasBinary = true
		s.binVal = buf
		return nil
	}
}

// WithFlags bitwise-ORs f into the key's lock flags.
func WithFlags(f LockFlags) Attr {
	return func(s *attrState) error {
		s.flags |= f
		return nil
	}
}

// WithMeta sets one meta entry; repeatable.
func WithMeta(name, value string) Attr {
	return func(s *attrState) error {
		if name == "" {
			return kerr.New(kerr.KindInvalidArgument, "meta name must not be empty")
		}
		s.metaPairs = append(s.metaPairs, [2]string{name, value})
		return nil
	}
}

// WithSize records a reserved capacity hint; stored, not acted on.
func WithSize(hint int) Attr {
	return func(s *attrState) error {
		s.sizeHint = hint
		return nil
	}
}

// WithFunc stores an opaque callable and marks the key binary, mirroring
// the C API's func attribute used for dynamically computed values.
func WithFunc(fn any) Attr {
	return func(s *attrState) error {
		s.hasFunc = true
		s.fn = fn
		return nil
	}
}

// LockNameAttr locks the name facet at construction time.
func LockNameAttr() Attr {
	return func(s *attrState) error { s.lockName = true; return nil }
}

// LockValueAttr locks the value facet at construction time.
func LockValueAttr() Attr {
	return func(s *attrState) error { s.lockValue = true; return nil }
}

// LockMetaAttr locks the meta facet at construction time.
func LockMetaAttr() Attr {
	return func(s *attrState) error { s.lockMeta = true; return nil }
}
