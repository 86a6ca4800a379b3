package triage

import (
	"math"
	"time"

	"github.com/spiffcs/pulse/internal/model"
)

// Settings carries the run configuration the classifier and aggregator need.
type Settings struct {
	Org       string
	Identity  string
	KnownBots []string
	StaleDays int
	// ExcludeRepos lists repositories skipped entirely.
	ExcludeRepos []string
}

func (s Settings) isBot(author string) bool {
	for _, b := range s.KnownBots {
		if b == author {
			return true
		}
	}
	return false
}

func (s Settings) isStale(days int) bool {
	return days >= s.StaleDays
}

// wholeDays returns the number of complete days between from and now.
// Timestamps in the future count as zero days.
func wholeDays(from, now time.Time) int {
	d := now.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / 24))
}

// ClassifyPullRequest derives age, staleness and ownership for a pull request.
// The repository is left for the caller to set.
func ClassifyPullRequest(rec model.PullRequestRecord, verdict model.ReviewState, now time.Time, s Settings) model.PullRequest {
	inactive := wholeDays(rec.UpdatedAt, now)

	reviewers := rec.RequestedReviewers
	if reviewers == nil {
		reviewers = []string{}
	}

	return model.PullRequest{
		Number:             rec.Number,
		Title:              rec.Title,
		Author:             rec.Author,
		URL:                rec.URL,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
		AgeDays:            wholeDays(rec.CreatedAt, now),
		DaysSinceActivity:  inactive,
		Stale:              s.isStale(inactive),
		Mine:               s.Identity != "" && rec.Author == s.Identity,
		IsBot:              s.isBot(rec.Author),
		Draft:              rec.Draft,
		ReviewState:        verdict,
		RequestedReviewers: reviewers,
	}
}

// ClassifyIssue derives staleness and ownership for an issue.
// The repository is left for the caller to set.
func ClassifyIssue(rec model.IssueRecord, now time.Time, s Settings) model.Issue {
	inactive := wholeDays(rec.UpdatedAt, now)

	labels := rec.Labels
	if labels == nil {
		labels = []string{}
	}

	return model.Issue{
		Number:            rec.Number,
		Title:             rec.Title,
		Author:            rec.Author,
		URL:               rec.URL,
		Labels:            labels,
		UpdatedAt:         rec.UpdatedAt,
		DaysSinceActivity: inactive,
		Stale:             s.isStale(inactive),
		Mine:              s.Identity != "" && rec.Author == s.Identity,
		IsBot:             s.isBot(rec.Author),
	}
}
