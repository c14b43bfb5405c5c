package main

import (
	"fmt"

	"github.com/keydbkit/keydb/key"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLsCmd())
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <namespace>",
		Short: "List every key mounted under a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(args[0])
		},
	}
}

func runLs(namespace string) error {
	h, err := openHandle()
	if err != nil {
		return err
	}
	defer h.Close()

	parent, err := mountRoot(namespace)
	if err != nil {
		return err
	}
	set := key.NewKeySet(0)
	if _, err := h.Get(set, parent); err != nil {
		return err
	}

	set.ForEach(func(k *key.Key) bool {
		fmt.Println(k.Name())
		return true
	})
	return nil
}
