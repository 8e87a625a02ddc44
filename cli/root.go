// Package cli wires the tinted-terminal commands.
package cli

import (
	"io/fs"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. staticFS holds the web client.
func NewRootCommand(staticFS fs.FS) *cobra.Command {
	var cfgFile string

	serve := newServeCommand(staticFS, &cfgFile)
	root := &cobra.Command{
		Use:          "tinted-terminal",
		Short:        "Browser terminals themed from a fixed color palette",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json, or toml)")

	root.AddCommand(serve)
	root.AddCommand(newPaletteCommand())
	root.AddCommand(newCheckCommand())
	return root
}

// Execute runs the root command with os.Args.
func Execute(staticFS fs.FS) error {
	return NewRootCommand(staticFS).Execute()
}
