package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "GitHub organization activity triage",
		Long: `A CLI tool that scans every repository in a GitHub organization and
reports stale pull requests, unreviewed work, and inactive issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add scan flags to root command so `pulse` and `pulse scan` work identically
	addScanFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdScan(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
