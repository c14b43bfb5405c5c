package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/keydbkit/keydb/key"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load name=value lines (as produced by export) into their mounted namespaces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0])
		},
	}
}

// runImport reads name=value lines and commits each namespace it touches
// with a single Get-then-Set round trip, the inverse of runExport's format
// for string values. Every imported value is stored as a string, so a
// binary key that runExport printed as hex comes back as a hex string.
func runImport(path string) error {
	h, err := openHandle()
	if err != nil {
		return err
	}
	defer h.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	parents := map[string]*key.Key{}
	sets := map[string]*key.KeySet{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		name, value := line[:eq], line[eq+1:]

		parent, err := mountRoot(name)
		if err != nil {
			return err
		}
		ns := parent.Name()
		if _, ok := parents[ns]; !ok {
			set := key.NewKeySet(0)
			if _, err := h.Get(set, parent); err != nil {
				return err
			}
			parents[ns] = parent
			sets[ns] = set
		}

		k, err := key.New(name, key.WithString(value))
		if err != nil {
			return err
		}
		if _, err := sets[ns].AppendKey(k); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for ns, set := range sets {
		if _, err := h.Set(set, parents[ns]); err != nil {
			return err
		}
	}
	return nil
}
