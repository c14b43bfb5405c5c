package name

import (
	"strings"
	"unicode/utf8"

	"github.com/keydbkit/keydb/internal/wire"
	"github.com/keydbkit/keydb/kerr"
)

// Name is the dual representation every key is built from: the escaped
// canonical form (unique key identity) and the unescaped wire form used as
// the sort key by every key-set. Re-canonicalising an already-canonical
// Name's Escaped string is always a no-op (I2).
type Name struct {
	Escaped   string
	Unescaped []byte
	NS        Namespace

	// nsToken is the literal first wire segment (e.g. "user:joe", "meta",
	// "/"), kept so operations that extend a name (AddName, AddBaseName)
	// can rebuild one without re-deriving the owner suffix.
	nsToken string
}

// Owner returns the "owner" suffix of a user/system-style name
// ("user:owner/..."), or "" if none was present.
func (n Name) Owner() string {
	_, owner := SplitNamespace(n.nsToken)
	return owner
}

// Segments returns the decoded content segments following the namespace
// token itself.
func (n Name) Segments() []string {
	segs := decodeWireSegments(n.Unescaped)
	if len(segs) == 0 {
		return nil
	}
	return segs[1:]
}

// Validate reports whether raw could possibly be canonicalised: it rejects
// embedded NUL bytes and ill-formed UTF-8. It does not by itself guarantee
// Canonicalise will succeed (an over-deep ".." can still fail there).
func Validate(raw string) bool {
	if strings.IndexByte(raw, 0) >= 0 {
		return false
	}
	return utf8.ValidString(raw)
}

// Canonicalise parses raw into its canonical dual representation. It joins
// one-level tokens, applies "."/".." semantics, collapses runs of unescaped
// "/", and trims a trailing "/" except for the lone cascading root.
func Canonicalise(raw string) (Name, error) {
	if raw == "" {
		return Name{Escaped: "", Unescaped: nil, NS: Empty}, nil
	}
	if !Validate(raw) {
		return Name{}, kerr.ErrInvalidUTF8
	}

	ns := Classify(raw)

	rawParts := splitEscapedParts(raw)

	var nsToken string
	rest := rawParts
	switch ns {
	case Cascading:
		nsToken = "/"
		// splitEscapedParts("/x/y") == ["", "x", "y"]: drop the leading
		// empty part produced by the root separator itself.
		if len(rest) > 0 && rest[0] == "" {
			rest = rest[1:]
		}
	case Meta:
		nsToken = "meta"
		// no namespace text consumed; every raw part is content
	default:
		nsToken = rawParts[0]
		rest = rawParts[1:]
	}

	segs, err := foldDots(rest, nil)
	if err != nil {
		return Name{}, err
	}

	return rebuild(ns, nsToken, segs), nil
}

// rebuild assembles a Name from a namespace, its literal first-segment text
// (used verbatim for rooted namespaces to preserve an owner suffix), and
// the already-decoded content segments that follow it.
func rebuild(ns Namespace, nsToken string, segs []string) Name {
	escapedParts := make([]string, len(segs))
	for i, s := range segs {
		escapedParts[i] = EscapePart(s)
	}

	var escaped string
	switch {
	case ns == Cascading && len(escapedParts) == 0:
		escaped = "/"
	case ns == Cascading:
		escaped = "/" + strings.Join(escapedParts, "/")
	case ns == Meta:
		escaped = strings.Join(escapedParts, "/")
	default:
		if len(escapedParts) == 0 {
			escaped = nsToken
		} else {
			escaped = nsToken + "/" + strings.Join(escapedParts, "/")
		}
	}

	wireSegs := make([]string, 0, len(segs)+1)
	wireSegs = append(wireSegs, nsTokenForWire(ns, nsToken))
	wireSegs = append(wireSegs, segs...)

	return Name{
		Escaped:   escaped,
		Unescaped: wire.Encode(wireSegs),
		NS:        ns,
		nsToken:   nsToken,
	}
}

// decodeWireSegments splits a wire-form buffer into its decoded segments.
func decodeWireSegments(buf []byte) []string {
	return wire.Decode(buf)
}

// nsTokenForWire returns the literal first wire segment. For Meta and
// Cascading the text has no namespace prefix in the escaped form, so the
// wire token is synthesized from the namespace itself rather than parsed
// out of nsToken; for the rooted namespaces nsToken already carries the
// exact "namespace[:owner]" text to preserve.
func nsTokenForWire(ns Namespace, nsToken string) string {
	switch ns {
	case Cascading:
		return "/"
	case Meta:
		return "meta"
	default:
		return nsToken
	}
}

// foldDots applies "."/".." elision over a sequence of still-escaped raw
// parts, starting from seed (the already-resolved segments a name is being
// extended from, or nil when canonicalising from scratch), and returns the
// decoded content segments that survive. A run of unescaped "/" yields
// empty raw parts, which collapse (are skipped) exactly like "." does.
// One ".." beyond an empty stack is tolerated (it is elided, representing
// "stay at root"); a second one before any new segment is pushed is
// reported as invalid, matching "system/../.." being rejected while
// "system/.." canonicalises to "system". Pushing a segment resets the
// tolerance, so "system/../a/../.." is accepted.
func foldDots(rawParts []string, seed []string) ([]string, error) {
	stack := append([]string(nil), seed...)
	poppedAtRoot := false
	for _, raw := range rawParts {
		switch raw {
		case "":
			continue
		case ".":
			continue
		case "..":
			if len(stack) == 0 {
				if poppedAtRoot {
					return nil, kerr.ErrInvalidName
				}
				poppedAtRoot = true
				continue
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, decodePart(raw))
			poppedAtRoot = false
		}
	}
	return stack, nil
}

// Extend resolves suffix against base's existing content segments, seeding
// the "."/".." fold with them instead of starting at an empty stack. The
// namespace and owner are carried over from base unchanged: extending a
// name can never cross into a different namespace. This realizes
// key.AddName (key.AddBaseName goes through Join instead).
func Extend(base Name, suffix string) (Name, error) {
	if !Validate(suffix) {
		return Name{}, kerr.ErrInvalidUTF8
	}

	rawParts := splitEscapedParts(suffix)
	segs, err := foldDots(rawParts, base.Segments())
	if err != nil {
		return Name{}, err
	}

	nsToken := base.nsToken
	if nsToken == "" {
		nsToken = nsTokenForWire(base.NS, base.nsToken)
	}
	return rebuild(base.NS, nsToken, segs), nil
}

// Join builds a canonical escaped name from already-decoded (unescaped)
// path segments under a namespace, used when assembling a name
// programmatically instead of parsing one (e.g. key.AddBaseName, or a
// storage plugin importing a foreign hierarchy such as a TOML table path).
func Join(ns Namespace, owner string, segs ...string) (Name, error) {
	nsToken := ns.wireToken()
	if ns != Cascading && ns != Meta {
		if owner != "" {
			nsToken = nsToken + ":" + owner
		}
	}

	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = EscapePart(s)
	}

	var escaped string
	switch {
	case ns == Cascading && len(parts) == 0:
		escaped = "/"
	case ns == Cascading:
		escaped = "/" + strings.Join(parts, "/")
	case ns == Meta:
		escaped = strings.Join(parts, "/")
	default:
		if len(parts) == 0 {
			escaped = nsToken
		} else {
			escaped = nsToken + "/" + strings.Join(parts, "/")
		}
	}
	return Canonicalise(escaped)
}

// OneLevel is a cursor over an escaped name's one-level tokens, respecting
// escape runs exactly as splitEscapedParts does; it lets callers walk a
// name's parts without allocating the full split upfront.
type OneLevel struct {
	parts []string
	idx   int
}

// NewOneLevel builds a cursor over the escaped parts of raw (including the
// namespace token as its first part for rooted names, or an empty leading
// part for the cascading root; a meta name has no namespace text, so its
// first part is already content).
func NewOneLevel(raw string) OneLevel {
	return OneLevel{parts: splitEscapedParts(raw)}
}

// Next returns the next raw escaped part and true, or ("", false) once the
// cursor is exhausted.
func (c *OneLevel) Next() (string, bool) {
	if c.idx >= len(c.parts) {
		return "", false
	}
	p := c.parts[c.idx]
	c.idx++
	return p, true
}

// IsBelow reports whether a's unescaped name is a strict, segment-aligned
// prefix of b's.
func IsBelow(a, b Name) bool {
	if len(a.Unescaped) >= len(b.Unescaped) {
		return false
	}
	return wire.HasPrefixSegments(a.Unescaped, b.Unescaped)
}

// IsBelowOrSame reports IsBelow(a, b) || a.Unescaped == b.Unescaped,
// byte-compared.
func IsBelowOrSame(a, b Name) bool {
	return wire.HasPrefixSegments(a.Unescaped, b.Unescaped)
}

// IsDirectlyBelow reports whether b is exactly one segment deeper than a.
func IsDirectlyBelow(a, b Name) bool {
	if !IsBelow(a, b) {
		return false
	}
	rest := b.Unescaped[len(a.Unescaped):]
	// rest is one or more NUL-terminated segments; exactly one iff there is
	// a single NUL and it is the last byte.
	for i := 0; i < len(rest)-1; i++ {
		if rest[i] == 0 {
			return false
		}
	}
	return len(rest) > 0 && rest[len(rest)-1] == 0
}
