package main

import (
	"github.com/keydbkit/keydb/key"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a single key's value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1])
		},
	}
}

func runSet(name, value string) error {
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

	k, err := key.New(name, key.WithString(value))
	if err != nil {
		return err
	}
	if _, err := set.AppendKey(k); err != nil {
		return err
	}

	_, err = h.Set(set, parent)
	return err
}
