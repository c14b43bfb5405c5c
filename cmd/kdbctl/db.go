package main

import (
	"path/filepath"
	"strings"

	"github.com/keydbkit/keydb/kdb"
	"github.com/keydbkit/keydb/key"
	"github.com/keydbkit/keydb/storage/legacystore"
	"github.com/keydbkit/keydb/storage/memstore"
	"github.com/keydbkit/keydb/storage/tomlstore"
	"github.com/keydbkit/keydb/storage/yamlstore"
)

// openHandle mounts one storage plugin per namespace under mountDir: YAML
// for user/system, TOML for spec, an in-memory store for proc, and a flat
// legacy file for dir. No other namespace is mounted.
func openHandle() (*kdb.Handle, error) {
	contract := kdb.Contract{
		Mounts: []kdb.MountPoint{
			{Prefix: "user", Plugins: []kdb.Plugin{yamlstore.New(filepath.Join(mountDir, "user.yaml"))}},
			{Prefix: "system", Plugins: []kdb.Plugin{yamlstore.New(filepath.Join(mountDir, "system.yaml"))}},
			{Prefix: "spec", Plugins: []kdb.Plugin{tomlstore.New(filepath.Join(mountDir, "spec.toml"))}},
			{Prefix: "proc", Plugins: []kdb.Plugin{memstore.New("proc", nil)}},
			{Prefix: "dir", Plugins: []kdb.Plugin{legacystore.New(filepath.Join(mountDir, "dir.cfg"))}},
		},
	}
	return kdb.Open(contract, &kdb.Context{})
}

// mountRoot returns the namespace-prefix key a file-backed plugin treats as
// its subtree root, e.g. "user" for "user/sw/app/color".
func mountRoot(name string) (*key.Key, error) {
	ns := name
	if i := strings.IndexByte(name, '/'); i >= 0 {
		ns = name[:i]
	}
	return key.New(ns)
}
