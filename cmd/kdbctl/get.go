package main

import (
	"fmt"

	"github.com/keydbkit/keydb/key"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Get a single key's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args[0])
		},
	}
}

func runGet(name string) error {
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

	found, err := set.Lookup(name, key.LookupNone)
	if err != nil {
		return err
	}
	if found == nil {
		printError("key not found: %s\n", name)
		return nil
	}
	if found.IsBinary() {
		b, _ := found.Bytes()
		fmt.Printf("%x\n", b)
		return nil
	}
	v, _ := found.String()
	fmt.Println(v)
	return nil
}
