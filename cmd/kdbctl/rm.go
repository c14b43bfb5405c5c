package main

import (
	"github.com/keydbkit/keydb/key"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRmCmd())
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a single key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(args[0])
		},
	}
}

func runRm(name string) error {
	h, err := openHandle()
	if err != nil {
		return err
	}
	defer h.Close()

	parent, err := mountRoot(name)
	if err != nil {
		return err
	}
	set := key.NewKeySet(0)
	if _, err := h.Get(set, parent); err != nil {
		return err
	}

	if _, err := set.Lookup(name, key.LookupDelete); err != nil {
		return err
	}

	_, err = h.Set(set, parent)
	return err
}
