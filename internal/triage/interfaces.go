// Package triage reconciles, classifies and buckets organization activity
// into a scan summary.
package triage

import (
	"context"

	"github.com/spiffcs/pulse/internal/model"
)

// Source lists organization activity. Every method returns a non-nil error
// when the data could not be fetched; an empty result with a nil error means
// the endpoint confirmed there is nothing.
type Source interface {
	ListRepositories(ctx context.Context, org string) ([]string, error)
	ListOpenPullRequests(ctx context.Context, org, repo string) ([]model.PullRequestRecord, error)
	ListReviews(ctx context.Context, org, repo string, number int) ([]model.ReviewEvent, error)
	ListOpenIssues(ctx context.Context, org, repo string) ([]model.IssueRecord, error)
}
