package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/pulse/config"
	"github.com/spiffcs/pulse/internal/constants"
	"github.com/spiffcs/pulse/internal/ghclient"
	"github.com/spiffcs/pulse/internal/log"
	"github.com/spiffcs/pulse/internal/model"
	"github.com/spiffcs/pulse/internal/output"
	"github.com/spiffcs/pulse/internal/triage"
	"github.com/spiffcs/pulse/internal/tui"
)

// ErrAllClear is returned when a scan completes with nothing actionable.
// main maps it to exit status 2.
var ErrAllClear = errors.New("all clear")

var _ triage.Source = (*ghclient.Source)(nil)

// NewCmdScan creates the scan command.
func NewCmdScan(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan an organization for items needing attention (same as root pulse)",
		Long: `Lists every repository in the organization, fetches open pull requests,
their reviews, and open issues, then reports stale and unreviewed work.

Exit status is 0 when something is actionable, 2 when all clear, and 1 on error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	addScanFlags(cmd, opts)
	return cmd
}

// addScanFlags adds the scan-specific flags to a command.
func addScanFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (digest, table, json)")
	cmd.Flags().StringVar(&opts.Org, "org", "", "Organization to scan (env PULSE_ORG)")
	cmd.Flags().StringVar(&opts.User, "user", "", "Your GitHub handle (env PULSE_USER, default: authenticated user)")
	cmd.Flags().IntVar(&opts.StaleDays, "stale-days", 0, "Days without activity before an item is stale (default 3)")
	cmd.Flags().StringSliceVar(&opts.Bots, "bot", nil, "Known bot account (repeatable, replaces configured list)")
	cmd.Flags().StringVar(&opts.Transport, "transport", "", "GitHub access: auto, gh (gh CLI) or api (GITHUB_TOKEN)")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "Timeout for each API call (e.g., 30s, 2m)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Where json output is written, - for stdout (default /tmp/pulse.json)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

func runScan(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cmd.Flags().Changed("stale-days") && opts.StaleDays < 1 {
		return fmt.Errorf("invalid --stale-days %d: must be a positive integer", opts.StaleDays)
	}

	profiler := NewProfiler(opts.CPUProfile, opts.MemProfile, opts.Trace)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	useTUI := shouldUseTUI(opts)

	// Suppress logs during TUI to avoid interleaving with display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOptions(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := resolveFormat(opts.Format, cfg.DefaultFormat)
	if err != nil {
		return err
	}

	transport, rest, err := newTransport(ctx, cfg)
	if err != nil {
		return err
	}
	src := ghclient.NewSource(ghclient.NewClient(transport, ghclient.WithTimeout(cfg.CallTimeout())))

	var events chan tui.Event
	if useTUI {
		events = make(chan tui.Event, 100)
	}

	var summary *model.ScanSummary
	g, gctx := errgroup.WithContext(ctx)
	if useTUI {
		g.Go(func() error {
			return tui.Run(events)
		})
	}
	g.Go(func() error {
		if events != nil {
			defer close(events)
		}
		s, err := scan(gctx, src, cfg, rest, events)
		summary = s
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := render(summary, format, outPath(opts, cfg), os.Stdout); err != nil {
		return err
	}

	if !summary.Actionable() {
		return ErrAllClear
	}
	return nil
}

// applyOptions layers explicitly set flags over the loaded configuration.
func applyOptions(cfg *config.Config, opts *Options) {
	if opts.Org != "" {
		cfg.Org = opts.Org
	}
	if opts.User != "" {
		cfg.User = opts.User
	}
	if opts.StaleDays != 0 {
		cfg.StaleDays = opts.StaleDays
	}
	if len(opts.Bots) > 0 {
		cfg.KnownBots = opts.Bots
	}
	if opts.Transport != "" {
		cfg.Transport = opts.Transport
	}
	if opts.Timeout != "" {
		cfg.Timeout = opts.Timeout
	}
}

// resolveFormat picks the flag value, falling back to the configured default.
func resolveFormat(flag, configured string) (output.Format, error) {
	if flag != "" {
		return output.ParseFormat(flag)
	}
	if configured != "" {
		return output.ParseFormat(configured)
	}
	return output.FormatDigest, nil
}

// resolveTransport maps "auto" to api when a token is available, else gh.
func resolveTransport(name, token string) string {
	if name != constants.TransportAuto {
		return name
	}
	if token != "" {
		return constants.TransportAPI
	}
	return constants.TransportGH
}

// newTransport builds the configured transport. The REST transport is also
// returned on its own so its rate limit state can be reported.
func newTransport(ctx context.Context, cfg *config.Config) (ghclient.Transport, *ghclient.RESTTransport, error) {
	token := cfg.GetGitHubToken()

	switch name := resolveTransport(cfg.Transport, token); name {
	case constants.TransportAPI:
		rest, err := ghclient.NewRESTTransport(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using REST transport")
		return rest, rest, nil
	case constants.TransportGH:
		log.Debug("using gh CLI transport")
		return ghclient.NewCLITransport(), nil, nil
	default:
		return nil, nil, fmt.Errorf("invalid transport %q (must be auto, gh or api)", name)
	}
}

// scan resolves the identity, runs the engine, and reports progress.
func scan(ctx context.Context, src *ghclient.Source, cfg *config.Config, rest *ghclient.RESTTransport, events chan tui.Event) (*model.ScanSummary, error) {
	identity := resolveIdentity(ctx, src, cfg, events)
	progress := newScanProgress(events, rest)

	settings := triage.Settings{
		Org:          cfg.Org,
		Identity:     identity,
		KnownBots:    cfg.KnownBots,
		StaleDays:    cfg.StaleDays,
		ExcludeRepos: cfg.ExcludeRepos,
	}
	engine := triage.NewEngine(src, settings,
		triage.WithRepositoriesListed(progress.listed),
		triage.WithProgress(progress.scanned),
	)

	sendTaskEvent(events, tui.TaskRepos, tui.StatusRunning)
	summary, err := engine.Scan(ctx)
	if err != nil {
		log.ProgressClear()
		sendTaskEvent(events, tui.TaskRepos, tui.StatusError, tui.WithError(err))
		return nil, err
	}
	progress.finish(summary)

	log.Info("scan complete",
		"repos", summary.ReposScanned,
		"prs", summary.TotalOpenPRs,
		"issues", summary.TotalOpenIssues,
		"scan_errors", len(summary.ScanErrors))
	return summary, nil
}

// resolveIdentity returns the configured user, or asks GitHub who is
// authenticated. Failing to resolve only disables the "mine" buckets.
func resolveIdentity(ctx context.Context, src *ghclient.Source, cfg *config.Config, events chan tui.Event) string {
	sendTaskEvent(events, tui.TaskIdentity, tui.StatusRunning)

	identity := cfg.User
	if identity == "" {
		login, err := src.CurrentUser(ctx)
		if err != nil {
			log.Warn("could not resolve your GitHub user, no PRs will count as yours", "error", err)
		}
		identity = login
	}

	target := cfg.Org
	if identity != "" {
		target = fmt.Sprintf("%s as %s", cfg.Org, identity)
	}
	sendTaskEvent(events, tui.TaskIdentity, tui.StatusComplete, tui.WithMessage(target))
	log.Info("scanning", "org", cfg.Org, "user", identity, "stale_days", cfg.StaleDays)
	return identity
}

// scanProgress forwards engine callbacks to the TUI, or to progress log
// lines when the TUI is off.
type scanProgress struct {
	events      chan tui.Event
	rest        *ghclient.RESTTransport
	lastUpdate  time.Time
	rateLimited bool
}

func newScanProgress(events chan tui.Event, rest *ghclient.RESTTransport) *scanProgress {
	return &scanProgress{events: events, rest: rest}
}

func (p *scanProgress) listed(count int) {
	sendTaskEvent(p.events, tui.TaskRepos, tui.StatusComplete, tui.WithCount(count))
	sendTaskEvent(p.events, tui.TaskScan, tui.StatusRunning, tui.WithMessage(fmt.Sprintf("0/%d", count)))
}

func (p *scanProgress) scanned(done, total int, repo string) {
	p.checkRateLimit()

	if p.events == nil {
		if log.IsInfo() {
			log.Progress("Scanning repositories: %d/%d (%s)...", done, total, repo)
		}
		return
	}

	// Throttle TUI updates for smooth progress without overhead
	now := time.Now()
	if now.Sub(p.lastUpdate) < constants.TUIUpdateInterval && done != total {
		return
	}
	p.lastUpdate = now
	sendTaskEvent(p.events, tui.TaskScan, tui.StatusRunning,
		tui.WithProgress(float64(done)/float64(total)),
		tui.WithMessage(fmt.Sprintf("%d/%d", done, total)))
}

// checkRateLimit reports the first time the REST transport hits its limit.
func (p *scanProgress) checkRateLimit() {
	if p.rest == nil || p.rateLimited {
		return
	}
	_, _, resetAt, limited := p.rest.RateLimitState().Status()
	if !limited {
		return
	}
	p.rateLimited = true
	log.Warn("GitHub rate limit exhausted", "resets_at", resetAt.Format(time.RFC3339))
	tui.SendEvent(p.events, tui.RateLimitEvent{Limited: true, ResetAt: resetAt})
}

func (p *scanProgress) finish(summary *model.ScanSummary) {
	if p.events == nil {
		log.ProgressDone()
	}

	msg := fmt.Sprintf("%d/%d", summary.ReposScanned, summary.ReposScanned)
	if n := len(summary.ScanErrors); n > 0 {
		msg = fmt.Sprintf("%s (%d endpoints failed)", msg, n)
	}
	sendTaskEvent(p.events, tui.TaskScan, tui.StatusComplete, tui.WithMessage(msg))

	sendTaskEvent(p.events, tui.TaskSummarize, tui.StatusRunning)
	flagged := len(summary.NeedsAttention) + len(summary.StaleBotPRs) + len(summary.StaleIssues) + len(summary.ReviewNeeded)
	sendTaskEvent(p.events, tui.TaskSummarize, tui.StatusComplete, tui.WithCount(flagged))
}

// outPath returns where json output goes: the flag, then config.
func outPath(opts *Options, cfg *config.Config) string {
	if opts.Out != "" {
		return opts.Out
	}
	if cfg.OutputPath != "" {
		return cfg.OutputPath
	}
	return constants.DefaultOutputPath
}

// render writes the summary. In json mode the record goes to path (or w
// when path is "-") and w receives a short recap.
func render(summary *model.ScanSummary, format output.Format, path string, w io.Writer) error {
	if format != output.FormatJSON {
		return output.NewFormatter(format).Format(summary, w)
	}

	if path == "-" {
		return output.NewFormatter(output.FormatJSON).Format(summary, w)
	}

	if err := output.WriteFile(summary, path); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d repos scanned, %d open PRs, %d open issues\n",
		summary.ReposScanned, summary.TotalOpenPRs, summary.TotalOpenIssues)
	fmt.Fprintf(w, "%d of my PRs are stale (>=%d days inactive)\n", len(summary.MyStalePRs), summary.StaleDaysThreshold)
	fmt.Fprintf(w, "%d PRs from others need review\n", len(summary.ReviewNeeded))
	fmt.Fprintf(w, "%d PRs need attention (stale + changes requested)\n", len(summary.NeedsAttention))
	if n := len(summary.ScanErrors); n > 0 {
		fmt.Fprintf(w, "%d endpoints failed\n", n)
	}
	fmt.Fprintf(w, "Written to %s\n", path)
	return nil
}

// sendTaskEvent sends a task event to the TUI channel if it exists.
func sendTaskEvent(events chan tui.Event, task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if events == nil {
		return
	}
	tui.SendTaskEvent(events, task, status, opts...)
}
