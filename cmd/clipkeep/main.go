// clipkeep: clipboard history service with a local HTTP API.
package main

import (
	"fmt"
	"os"

	"clipkeep/internal/di"
	"clipkeep/internal/structures"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipkeep",
		Short: "Clipboard history manager",
		Long: `clipkeep watches the system clipboard, keeps a capped history of text
and images in a single JSON document and serves it to a UI over a local
HTTP API.

Settings come from the YAML file given with --config. Every key has a
default, and CLIPKEEP_* environment variables override the file.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	flags := &structures.CliFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Watch the clipboard and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config/clipkeep.yaml", "path to the YAML config file")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "debug logging to the console")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipkeep %s\n", Version)
		},
	}
}
