package cmd

import (
	"fmt"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/spiffcs/pulse/config"
	"github.com/spiffcs/pulse/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus())
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long:  `Display the current GitHub API rate limit status for the core, search and GraphQL APIs.`,
		RunE:  runRateLimitStatus,
	}
}

func runRateLimitStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rest, err := ghclient.NewRESTTransport(cmd.Context(), cfg.GetGitHubToken())
	if err != nil {
		return err
	}

	limits, err := rest.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("GitHub API Rate Limits:")
	fmt.Println()
	printRate("Core API:  ", limits.Core)
	printRate("Search API:", limits.Search)
	printRate("GraphQL:   ", limits.GraphQL)
	return nil
}

func printRate(label string, r *gh.Rate) {
	if r == nil {
		return
	}
	resetIn := time.Until(r.Reset.Time).Round(time.Second)
	if resetIn < 0 {
		resetIn = 0
	}
	fmt.Printf("%s %d/%d remaining (resets in %s)\n", label, r.Remaining, r.Limit, resetIn)
}
