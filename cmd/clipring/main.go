// clipring: multi-slot clipboard for editor hosts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipring",
		Short: "Multi-slot clipboard for editor hosts",
		Long: `clipring keeps a bounded history of multi-cursor copies for one editor
session. The editor host starts "clipring serve" and talks to it over
newline-delimited JSON on stdin/stdout; logs go to stderr.

Config file search order (first found wins):
  /etc/clipring/clipring.toml
  $HOME/.config/clipring/clipring.toml
  path supplied via --config

All settings can be set via CLIPRING_<KEY> env vars or config-file keys.
A running session reloads the config file when it changes.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newSettingsCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clipring %s\n", Version)
		},
	}
}
