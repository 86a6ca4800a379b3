package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spiffcs/pulse/internal/log"
	"github.com/spiffcs/pulse/internal/model"
)

// ErrNoRepositories is returned when the repository list is unavailable or
// empty. No partial triage is possible without it.
var ErrNoRepositories = errors.New("no repositories found")

// ProgressFunc is called after each repository is scanned.
type ProgressFunc func(done, total int, repo string)

// Engine scans an organization and assembles a ScanSummary.
type Engine struct {
	source     Source
	settings   Settings
	now        func() time.Time
	onProgress ProgressFunc
	onListed   func(count int)
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithProgress registers a per-repository progress callback.
func WithProgress(fn ProgressFunc) EngineOption {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// WithRepositoriesListed registers a callback invoked once the repository
// list is known, before any repository is scanned.
func WithRepositoriesListed(fn func(count int)) EngineOption {
	return func(e *Engine) {
		e.onListed = fn
	}
}

// NewEngine creates an Engine reading from src with the given settings.
func NewEngine(src Source, settings Settings, opts ...EngineOption) *Engine {
	e := &Engine{
		source:   src,
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scan lists the organization's repositories and aggregates them.
func (e *Engine) Scan(ctx context.Context) (*model.ScanSummary, error) {
	repos, err := e.source.ListRepositories(ctx, e.settings.Org)
	if err != nil {
		return nil, fmt.Errorf("%w: listing repositories for %s: %w", ErrNoRepositories, e.settings.Org, err)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRepositories, e.settings.Org)
	}

	repos = e.filterExcluded(repos)
	log.Info("repositories listed", "org", e.settings.Org, "count", len(repos))
	if e.onListed != nil {
		e.onListed(len(repos))
	}

	return e.Aggregate(ctx, repos), nil
}

// filterExcluded drops repositories named in Settings.ExcludeRepos. Entries
// may be a bare name or "org/name".
func (e *Engine) filterExcluded(repos []string) []string {
	if len(e.settings.ExcludeRepos) == 0 {
		return repos
	}

	excluded := make(map[string]bool, len(e.settings.ExcludeRepos))
	for _, r := range e.settings.ExcludeRepos {
		excluded[r] = true
	}

	kept := make([]string, 0, len(repos))
	for _, r := range repos {
		if excluded[r] || excluded[e.settings.Org+"/"+r] {
			log.Debug("skipping excluded repository", "repo", r)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// repoScan is the immutable result of scanning one repository.
type repoScan struct {
	repo   string
	prs    []model.PullRequest
	issues []model.Issue
	errs   []model.ScanError
}

// Aggregate scans each repository in order and folds the per-repository
// results into a summary. A failed listing is recorded as a scan error and
// never aborts the scan.
func (e *Engine) Aggregate(ctx context.Context, repos []string) *model.ScanSummary {
	now := e.now()

	scans := make([]repoScan, 0, len(repos))
	for i, repo := range repos {
		scans = append(scans, e.scanRepository(ctx, repo, now))
		if e.onProgress != nil {
			e.onProgress(i+1, len(repos), repo)
		}
	}

	return e.summarize(scans, now)
}

func (e *Engine) scanRepository(ctx context.Context, repo string, now time.Time) repoScan {
	result := repoScan{repo: repo}

	records, err := e.source.ListOpenPullRequests(ctx, e.settings.Org, repo)
	if err != nil {
		result.errs = append(result.errs, model.ScanError{Repo: repo, Endpoint: model.EndpointPulls})
	} else {
		for _, rec := range records {
			pr := ClassifyPullRequest(rec, e.reviewVerdict(ctx, repo, rec.Number), now, e.settings)
			pr.Repo = repo
			result.prs = append(result.prs, pr)
		}
	}

	issues, err := e.source.ListOpenIssues(ctx, e.settings.Org, repo)
	if err != nil {
		result.errs = append(result.errs, model.ScanError{Repo: repo, Endpoint: model.EndpointIssues})
	} else {
		for _, rec := range issues {
			issue := ClassifyIssue(rec, now, e.settings)
			issue.Repo = repo
			result.issues = append(result.issues, issue)
		}
	}

	log.Debug("repository scanned", "repo", repo, "prs", len(result.prs), "issues", len(result.issues), "errors", len(result.errs))
	return result
}

// reviewVerdict fetches and reconciles reviews. A failed fetch is treated
// as no reviews at all.
func (e *Engine) reviewVerdict(ctx context.Context, repo string, number int) model.ReviewState {
	events, err := e.source.ListReviews(ctx, e.settings.Org, repo, number)
	if err != nil {
		log.Warn("reviews unavailable, treating as pending", "repo", repo, "number", number, "error", err)
		return model.ReviewPending
	}
	return Reconcile(events)
}

func (e *Engine) summarize(scans []repoScan, now time.Time) *model.ScanSummary {
	prs := []model.PullRequest{}
	issues := []model.Issue{}
	errs := []model.ScanError{}
	for _, s := range scans {
		prs = append(prs, s.prs...)
		issues = append(issues, s.issues...)
		errs = append(errs, s.errs...)
	}

	b := Bucketize(prs, issues)

	return &model.ScanSummary{
		Timestamp:          now,
		Org:                e.settings.Org,
		MyUser:             e.settings.Identity,
		StaleDaysThreshold: e.settings.StaleDays,
		ReposScanned:       len(scans),
		TotalOpenPRs:       len(prs),
		TotalOpenIssues:    len(issues),
		ScanErrors:         errs,
		AllPRs:             prs,
		AllIssues:          issues,
		MyOpenPRs:          b.MyOpenPRs,
		MyStalePRs:         b.MyStalePRs,
		ReviewNeeded:       b.ReviewNeeded,
		NeedsAttention:     b.NeedsAttention,
		StaleBotPRs:        b.StaleBotPRs,
		StaleIssues:        b.StaleIssues,
	}
}
