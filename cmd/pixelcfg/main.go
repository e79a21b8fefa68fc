// Pixelcfg configures pixel controllers over the network.
//
// It finds controllers with mDNS, shows and changes their configuration
// through the controller's own configuration page, and offers an
// interactive editor.
//
// Usage:
//
//	pixelcfg [command] [flags]
//
// Running without arguments launches the editor.
// See 'pixelcfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelcfg",
	Short: "Pixel controller configuration utility",
	Long: `A utility for configuring pixel controllers.

Provides discovery, an interactive editor, and direct configuration
commands. Logging is silent unless PIXELCFG_LOG_LEVEL is set.

If no command is specified, the editor will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pixelcfg %s\n", version.Full())
	},
}
