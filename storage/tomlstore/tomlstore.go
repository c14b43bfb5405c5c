// Package tomlstore persists a key-set subtree as a single TOML document,
// one file per mount prefix: each namespace segment below the mount
// point's root becomes a nested TOML table, and each key's value becomes a
// scalar in the table named after its own base segment. Binary values are
// base64-encoded and recorded in a "__binary__" table alongside the data
// tables so a round trip can tell them apart from an ordinary base64-shaped
// string.
package tomlstore

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

const binaryManifestKey = "__binary__"

// Store is a file-backed TOML plugin instance.
type Store struct {
	path string
}

// New returns a tomlstore plugin that reads/writes path.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Name() string { return "tomlstore:" + s.path }

func (s *Store) Open(ctx *kdb.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Get parses the TOML file at s.path and appends every leaf as a key
// rooted at parent.
func (s *Store) Get(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return kdb.StatusNoChange, nil
	}
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "tomlstore: read")
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return kdb.StatusError, errors.Wrap(err, "tomlstore: decode")
	}

	binary := map[string]bool{}
	if m, ok := doc[binaryManifestKey].(map[string]any); ok {
		for k, v := range m {
			if b, ok := v.(bool); ok && b {
				binary[k] = true
			}
		}
	}
	delete(doc, binaryManifestKey)

	before := set.Size()
	if err := walkTable(doc, nil, parent, binary, set); err != nil {
		return kdb.StatusError, err
	}
	if set.Size() != before {
		return kdb.StatusUpdated, nil
	}
	return kdb.StatusNoChange, nil
}

func walkTable(table map[string]any, prefix []string, parent *key.Key, binary map[string]bool, set *key.KeySet) error {
	for name, v := range table {
		segs := append(append([]string(nil), prefix...), name)
		if sub, ok := v.(map[string]any); ok {
			if err := walkTable(sub, segs, parent, binary, set); err != nil {
				return err
			}
			continue
		}
		k, err := leafKey(parent, segs, v, binary[joinDotted(segs)])
		if err != nil {
			return err
		}
		if _, err := set.AppendKey(k); err != nil {
			return err
		}
	}
	return nil
}

func joinDotted(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func leafKey(parent *key.Key, segs []string, v any, isBinary bool) (*key.Key, error) {
	k, err := key.New(parent.Name())
	if err != nil {
		return nil, err
	}
	for _, seg := range segs {
		if err := k.AddBaseName(seg); err != nil {
			return nil, err
		}
	}

	s, _ := v.(string)
	if isBinary {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(err, "tomlstore: decode binary leaf")
		}
		if err := k.SetBinary(decoded); err != nil {
			return nil, err
		}
		return k, nil
	}
	if err := k.SetString(s); err != nil {
		return nil, err
	}
	return k, nil
}

// Set serializes set's keys below parent's name into a nested TOML table
// document and writes it to s.path.
func (s *Store) Set(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	doc := map[string]any{}
	binary := map[string]any{}
	parentName := parent.Name()

	// Restrict to this mount's own namespace slice of the committed set
	// before walking it; a caller's set may span several mounted namespaces.
	set = set.Filter(parent.Namespace())

	prefix := strings.TrimSuffix(parentName, "/") + "/"
	set.ForEach(func(k *key.Key) bool {
		if !strings.HasPrefix(k.Name(), prefix) {
			return true
		}
		segs := splitRelative(k.Name()[len(parentName):])
		if len(segs) == 0 {
			return true
		}
		insertLeaf(doc, segs, leafValue(k))
		if k.IsBinary() {
			binary[joinDotted(segs)] = true
		}
		return true
	})
	if len(binary) > 0 {
		doc[binaryManifestKey] = binary
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "tomlstore: encode")
	}
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return kdb.StatusError, errors.Wrap(err, "tomlstore: write")
	}
	return kdb.StatusUpdated, nil
}

func leafValue(k *key.Key) any {
	if k.IsBinary() {
		b, _ := k.Bytes()
		return base64.StdEncoding.EncodeToString(b)
	}
	v, _ := k.String()
	return v
}

func splitRelative(rel string) []string {
	var segs []string
	cur := make([]byte, 0, len(rel))
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' {
			if len(cur) > 0 {
				segs = append(segs, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, rel[i])
	}
	if len(cur) > 0 {
		segs = append(segs, string(cur))
	}
	return segs
}

func insertLeaf(doc map[string]any, segs []string, v any) {
	cur := doc
	for i, seg := range segs {
		if i == len(segs)-1 {
			cur[seg] = v
			return
		}
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
}
