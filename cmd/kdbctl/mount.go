package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newMountCmd())
}

func newMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount",
		Short: "List the mounted namespace prefixes and their backing plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount()
		},
	}
}

func runMount() error {
	h, err := openHandle()
	if err != nil {
		return err
	}
	defer h.Close()

	for _, mp := range h.Mounts() {
		for _, p := range mp.Plugins {
			fmt.Printf("%s\t%s\n", mp.Prefix, p.Name())
		}
	}
	return nil
}
