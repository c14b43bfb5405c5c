// Package name implements the key-name codec: validation, escaping,
// canonicalisation, namespace classification, one-level tokenisation and
// hierarchical containment. It is the hard core every other package in this
// module is built on — the dual representation (escaped canonical name,
// unescaped sort-key name) produced here is what key.Key stores and what
// keyset.KeySet orders by.
package name

import "strings"

// Namespace is the top-level partition of the key tree, determined purely
// by the first segment of a name.
type Namespace int

const (
	// Empty is the namespace of the empty name; it is not one of the eight
	// "real" namespaces and never appears as a wire segment.
	Empty Namespace = iota
	// Cascading names begin with "/" and resolve across namespaces in the
	// fixed order given by CascadingOrder.
	Cascading
	// Meta is the fallback namespace for names with no recognized prefix:
	// the namespace meta keys live in.
	Meta
	Spec
	Proc
	Dir
	User
	System
	Default
)

func (ns Namespace) String() string {
	switch ns {
	case Empty:
		return "empty"
	case Cascading:
		return "cascading"
	case Meta:
		return "meta"
	case Spec:
		return "spec"
	case Proc:
		return "proc"
	case Dir:
		return "dir"
	case User:
		return "user"
	case System:
		return "system"
	case Default:
		return "default"
	default:
		return "unknown"
	}
}

// CascadingOrder is the fixed traversal order a cascading lookup tries,
// first hit wins. It is a read-only package constant, not mutable global
// state, per the facade-owned-context design note.
var CascadingOrder = []Namespace{Spec, Proc, Dir, User, System, Default}

// wireToken returns the literal first wire segment for a namespace ("/" for
// Cascading, "meta" for Meta, which has no prefix text of its own), or ""
// for Empty, which has no wire segment.
func (ns Namespace) wireToken() string {
	switch ns {
	case Cascading:
		return "/"
	case Meta:
		return "meta"
	case Spec:
		return "spec"
	case Proc:
		return "proc"
	case Dir:
		return "dir"
	case User:
		return "user"
	case System:
		return "system"
	case Default:
		return "default"
	default:
		return ""
	}
}

// namespaceKeywords maps the recognized rooted-name prefixes to their
// Namespace value.
var namespaceKeywords = map[string]Namespace{
	"spec":    Spec,
	"proc":    Proc,
	"dir":     Dir,
	"user":    User,
	"system":  System,
	"default": Default,
}

// Classify determines the namespace of a name from its first segment,
// without validating the rest of the name.
func Classify(raw string) Namespace {
	if raw == "" {
		return Empty
	}
	if raw == "/" || strings.HasPrefix(raw, "/") {
		return Cascading
	}
	head := raw
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		head = raw[:i]
	}
	token, _ := SplitNamespace(head)
	if ns, ok := namespaceKeywords[token]; ok {
		return ns
	}
	return Meta
}

// SplitNamespace splits a "namespace[:owner]" first-segment token into its
// bare namespace keyword and optional owner suffix.
func SplitNamespace(head string) (token, owner string) {
	if i := strings.IndexByte(head, ':'); i >= 0 {
		return head[:i], head[i+1:]
	}
	return head, ""
}
