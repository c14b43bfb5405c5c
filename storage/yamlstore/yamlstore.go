// Package yamlstore is the default storage plugin for the user and system
// namespaces, persisting a key-set subtree as a single YAML mapping
// document. Unlike tomlstore it walks a yaml.Node tree directly rather than
// an interface{} map, the same technique awsqed-config-formatter uses to
// reformat Compose YAML while preserving node identity.
package yamlstore

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

const binaryTag = "!!binary"

// Store is a file-backed YAML plugin instance.
type Store struct {
	path string
}

// New returns a yamlstore plugin that reads/writes path.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Name() string { return "yamlstore:" + s.path }

func (s *Store) Open(ctx *kdb.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Get decodes the YAML mapping at s.path into a *yaml.Node tree and walks
// it into keys rooted at parent.
func (s *Store) Get(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return kdb.StatusNoChange, nil
	}
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "yamlstore: read")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return kdb.StatusError, errors.Wrap(err, "yamlstore: decode")
	}
	if len(doc.Content) == 0 {
		return kdb.StatusNoChange, nil
	}

	before := set.Size()
	if err := walkMapping(doc.Content[0], nil, parent, set); err != nil {
		return kdb.StatusError, err
	}
	if set.Size() != before {
		return kdb.StatusUpdated, nil
	}
	return kdb.StatusNoChange, nil
}

func walkMapping(node *yaml.Node, prefix []string, parent *key.Key, set *key.KeySet) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		val := node.Content[i+1]
		segs := append(append([]string(nil), prefix...), name)

		if val.Kind == yaml.MappingNode {
			if err := walkMapping(val, segs, parent, set); err != nil {
				return err
			}
			continue
		}

		k, err := leafKey(parent, segs, val)
		if err != nil {
			return err
		}
		if _, err := set.AppendKey(k); err != nil {
			return err
		}
	}
	return nil
}

func leafKey(parent *key.Key, segs []string, val *yaml.Node) (*key.Key, error) {
	k, err := key.New(parent.Name())
	if err != nil {
		return nil, err
	}
	for _, seg := range segs {
		if err := k.AddBaseName(seg); err != nil {
			return nil, err
		}
	}

	if val.Tag == binaryTag {
		var b []byte
		if err := val.Decode(&b); err != nil {
			return nil, errors.Wrap(err, "yamlstore: decode binary leaf")
		}
		if err := k.SetBinary(b); err != nil {
			return nil, err
		}
		return k, nil
	}
	if err := k.SetString(val.Value); err != nil {
		return nil, err
	}
	return k, nil
}

// Set builds a yaml.Node mapping from set's keys below parent's name and
// writes it to s.path.
func (s *Store) Set(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	parentName := parent.Name()

	// Restrict to this mount's own namespace slice of the committed set
	// before walking it; a caller's set may span several mounted namespaces.
	set = set.Filter(parent.Namespace())

	var walkErr error
	prefix := strings.TrimSuffix(parentName, "/") + "/"
	set.ForEach(func(k *key.Key) bool {
		if !strings.HasPrefix(k.Name(), prefix) {
			return true
		}
		segs := splitRelative(k.Name()[len(parentName):])
		if len(segs) == 0 {
			return true
		}
		if err := insertLeaf(root, segs, k); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return kdb.StatusError, walkErr
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "yamlstore: encode")
	}
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return kdb.StatusError, errors.Wrap(err, "yamlstore: write")
	}
	return kdb.StatusUpdated, nil
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

func insertLeaf(root *yaml.Node, segs []string, k *key.Key) error {
	cur := root
	for i, seg := range segs {
		if i == len(segs)-1 {
			valNode := &yaml.Node{}
			if k.IsBinary() {
				b, _ := k.Bytes()
				if err := valNode.Encode(b); err != nil {
					return err
				}
			} else {
				v, _ := k.String()
				valNode.SetString(v)
			}
			cur.Content = append(cur.Content, strNode(seg), valNode)
			return nil
		}
		cur = descend(cur, seg)
	}
	return nil
}

func descend(m *yaml.Node, seg string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == seg {
			return m.Content[i+1]
		}
	}
	sub := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, strNode(seg), sub)
	return sub
}

func strNode(s string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(s)
	return n
}
