package main

import (
	"fmt"

	"github.com/keydbkit/keydb/key"
	"github.com/spf13/cobra"
)

var exportNamespaces = []string{"spec", "proc", "dir", "user", "system"}

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump every mounted key as name=value lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport()
		},
	}
}

func runExport() error {
	h, err := openHandle()
	if err != nil {
		return err
	}
	defer h.Close()

	for _, ns := range exportNamespaces {
		parent, err := key.New(ns)
		if err != nil {
			return err
		}
		set := key.NewKeySet(0)
		if _, err := h.Get(set, parent); err != nil {
			printError("%s: %v\n", ns, err)
			continue
		}
		set.ForEach(func(k *key.Key) bool {
			if k.IsBinary() {
				b, _ := k.Bytes()
				fmt.Printf("%s=%x\n", k.Name(), b)
				return true
			}
			v, _ := k.String()
			fmt.Printf("%s=%s\n", k.Name(), v)
			return true
		})
	}
	return nil
}
