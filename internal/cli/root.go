// Package cli provides the command-line interface for the journal service.
package cli

import (
	"github.com/spf13/cobra"

	"trading-journal/internal/logging"
)

// Version information
const Version = "0.1.0"

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trading-journal",
		Short: "AI trading journal backend",
		Long: `Trading Journal is the backend API for an AI-assisted trading journal.

It stores trade records in SQLite and enriches them with coaching commentary
generated by an OpenAI-compatible chat-completion API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trading-journal)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
