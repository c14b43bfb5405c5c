package key

import "github.com/keydbkit/keydb/kerr"

// Conventional meta names used across the core packages and storage
// plugins.
const (
	MetaOwner           = "owner"
	MetaComment         = "comment"
	MetaCheckValidation = "check/validation"
	MetaBinary          = "binary"
)

// GetMeta returns the string value of the meta key named metaName, and
// whether it was present.
func (k *Key) GetMeta(metaName string) (string, bool) {
	if k.meta == nil {
		return "", false
	}
	mk, err := k.meta.Lookup(metaName, LookupNone)
	if err != nil || mk == nil {
		return "", false
	}
	v, err := mk.String()
	if err != nil {
		return "", false
	}
	return v, true
}

// SetMeta sets the meta key named metaName to value, creating it if
// absent. It fails with kerr.ErrLocked if the meta facet is locked.
func (k *Key) SetMeta(metaName, value string) error {
	if k.IsLocked(LockMeta) {
		return kerr.ErrLocked
	}
	if k.meta == nil {
		k.meta = NewKeySet(1)
	}
	mk, err := New(metaName, WithString(value))
	if err != nil {
		return err
	}
	if _, err := k.meta.AppendKey(mk); err != nil {
		return err
	}
	k.dirty = true
	return nil
}

// RemoveMeta deletes the meta key named metaName, if present. It fails with
// kerr.ErrLocked if the meta facet is locked.
func (k *Key) RemoveMeta(metaName string) error {
	if k.IsLocked(LockMeta) {
		return kerr.ErrLocked
	}
	if k.meta == nil {
		return nil
	}
	if _, err := k.meta.Lookup(metaName, LookupDelete); err != nil {
		return err
	}
	k.dirty = true
	return nil
}

// MetaSize returns the number of meta entries attached to k.
func (k *Key) MetaSize() int {
	if k.meta == nil {
		return 0
	}
	return k.meta.Size()
}

// CopyMeta copies a single meta entry named metaName from src onto k,
// removing it from k if absent on src. It fails with kerr.ErrLocked if k's
// meta facet is locked.
func (k *Key) CopyMeta(src *Key, metaName string) error {
	if k.IsLocked(LockMeta) {
		return kerr.ErrLocked
	}
	v, ok := src.GetMeta(metaName)
	if !ok {
		return k.RemoveMeta(metaName)
	}
	return k.SetMeta(metaName, v)
}

// CopyAllMeta replaces k's entire meta set with a new set that shares src's
// meta keys by reference (KeySet.Clone); the meta keys themselves are not
// duplicated. It fails with kerr.ErrLocked if k's meta facet is locked.
func (k *Key) CopyAllMeta(src *Key) error {
	if k.IsLocked(LockMeta) {
		return kerr.ErrLocked
	}
	if src.meta == nil {
		k.meta = nil
	} else {
		k.meta = src.meta.Clone()
	}
	k.dirty = true
	return nil
}

// Comment returns the "comment" meta value, the empty string if absent.
func (k *Key) Comment() string {
	v, _ := k.GetMeta(MetaComment)
	return v
}

// Owner returns the "owner" meta value, the empty string if absent. This is
// distinct from name.Name.Owner, which is the user:owner name suffix
// rather than a meta annotation.
func (k *Key) Owner() string {
	v, _ := k.GetMeta(MetaOwner)
	return v
}

// Warning is one structured entry of a key's indexed warning trail (§7):
// besides the human-readable reason, it carries a number, description and
// the module/file/line that raised it.
type Warning struct {
	Number      int
	Description string
	Module      string
	File        string
	Line        int
	Reason      string
}

// ErrorMeta is the single "at most one error" facade diagnostic (§7):
// the reason the operation failed and which plugin reported it.
type ErrorMeta struct {
	Reason string
	Plugin string
}

// AddWarning appends w as the next indexed warning entry
// ("warnings/#NN/number", ".../description", ".../module", ".../file",
// ".../line", ".../reason"). It fails with kerr.ErrLocked if the meta facet
// is locked.
func (k *Key) AddWarning(w Warning) error {
	if k.IsLocked(LockMeta) {
		return kerr.ErrLocked
	}
	base := warningIndexBase(len(k.Warnings()))
	fields := [...][2]string{
		{"number", itoa(w.Number)},
		{"description", w.Description},
		{"module", w.Module},
		{"file", w.File},
		{"line", itoa(w.Line)},
		{"reason", w.Reason},
	}
	for _, f := range fields {
		if err := k.SetMeta(base+"/"+f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

// Warnings returns k's indexed warning trail, parsed back into structured
// entries, in index order.
func (k *Key) Warnings() []Warning {
	if k.meta == nil {
		return nil
	}
	var out []Warning
	for i := 0; ; i++ {
		base := warningIndexBase(i)
		reason, ok := k.GetMeta(base + "/reason")
		if !ok {
			break
		}
		numStr, _ := k.GetMeta(base + "/number")
		lineStr, _ := k.GetMeta(base + "/line")
		desc, _ := k.GetMeta(base + "/description")
		module, _ := k.GetMeta(base + "/module")
		file, _ := k.GetMeta(base + "/file")
		out = append(out, Warning{
			Number:      atoi(numStr),
			Description: desc,
			Module:      module,
			File:        file,
			Line:        atoi(lineStr),
			Reason:      reason,
		})
	}
	return out
}

// ErrorMeta returns k's at-most-one facade error, or nil if none was
// recorded.
func (k *Key) ErrorMeta() *ErrorMeta {
	reason, ok := k.GetMeta("error/reason")
	if !ok {
		return nil
	}
	plugin, _ := k.GetMeta("error/plugin")
	return &ErrorMeta{Reason: reason, Plugin: plugin}
}

// warningIndexBase returns the "warnings/#NN" meta prefix for index i,
// zero-padded to two digits as in the spec's own "warnings/#03/reason"
// example; indices beyond 99 fall back to their plain decimal form.
func warningIndexBase(i int) string {
	if i < 10 {
		return "warnings/#0" + itoa(i)
	}
	return "warnings/#" + itoa(i)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
