package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	jsonOut  bool
	mountDir string
)

var rootCmd = &cobra.Command{
	Use:   "kdbctl",
	Short: "Inspect and manipulate a keydb configuration database",
	Long: `kdbctl is a command line front end over the keydb key/key-set
library. It mounts a directory of TOML/YAML/legacy-flat files as a
database and lets you get, set, list and remove keys against it.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (accepted; no subcommand prints extra output for it)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON output (accepted; no subcommand reads it, output is always plain text)")
	rootCmd.PersistentFlags().StringVar(&mountDir, "mount-dir", ".", "directory backing the mounted namespaces")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}
