// Package legacystore is the dir-namespace backend for flat "name=value"
// configuration files predating UTF-8, decoded from Windows-1252 exactly
// as the teacher decodes legacy VK record text in internal/reader/value.go.
// One line is one key, relative to the mount's parent name. Writes take an
// advisory exclusive file lock (lock_unix.go/lock_other.go).
package legacystore

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
)

// Store is a file-backed legacy flat-file plugin instance.
type Store struct {
	path string
}

// New returns a legacystore plugin that reads/writes path.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Name() string { return "legacystore:" + s.path }

func (s *Store) Open(ctx *kdb.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Get reads s.path as Windows-1252 (falling back to UTF-16LE if a byte
// order mark is present) and appends one key per "name=value" line.
func (s *Store) Get(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return kdb.StatusNoChange, nil
	}
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "legacystore: read")
	}

	text, err := decodeLegacy(raw)
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "legacystore: decode")
	}

	before := set.Size()
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		name, value := line[:eq], line[eq+1:]

		k, err := key.New(parent.Name())
		if err != nil {
			return kdb.StatusError, err
		}
		if err := k.AddBaseName(name); err != nil {
			return kdb.StatusError, err
		}
		if err := k.SetString(value); err != nil {
			return kdb.StatusError, err
		}
		if _, err := set.AppendKey(k); err != nil {
			return kdb.StatusError, err
		}
	}
	if err := scanner.Err(); err != nil {
		return kdb.StatusError, errors.Wrap(err, "legacystore: scan")
	}

	if set.Size() != before {
		return kdb.StatusUpdated, nil
	}
	return kdb.StatusNoChange, nil
}

func decodeLegacy(raw []byte) (string, error) {
	if len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE {
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// Set serializes set's keys below parent's name to s.path as
// Windows-1252-encoded "name=value" lines.
func (s *Store) Set(set *key.KeySet, parent *key.Key) (kdb.Status, error) {
	var buf bytes.Buffer
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
		rel := k.Name()[len(prefix):]
		if strings.Contains(rel, "/") {
			// legacystore is flat: nested keys are not representable
			return true
		}
		v, err := k.String()
		if err != nil {
			walkErr = err
			return false
		}
		buf.WriteString(rel)
		buf.WriteByte('=')
		buf.WriteString(v)
		buf.WriteByte('\n')
		return true
	})
	if walkErr != nil {
		return kdb.StatusError, walkErr
	}

	encoded, err := charmap.Windows1252.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return kdb.StatusError, errors.Wrap(err, "legacystore: encode")
	}
	if err := writeLocked(s.path, encoded); err != nil {
		return kdb.StatusError, errors.Wrap(err, "legacystore: write")
	}
	return kdb.StatusUpdated, nil
}

// writeLocked opens path for writing, holds an advisory exclusive lock for
// the duration of the write, then truncates and writes encoded.
func writeLocked(path string, encoded []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	unlock, _ := lockExclusive(f)
	defer unlock()

	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt(encoded, 0); err != nil {
		return err
	}
	return nil
}
