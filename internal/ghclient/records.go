package ghclient

import (
	"encoding/json"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/pulse/internal/log"
	"github.com/spiffcs/pulse/internal/model"
)

// errPullRequestIssue marks issue payloads that are really pull requests.
var errPullRequestIssue = errors.New("issue is a pull request")

// repositoryName converts a repository payload into its name.
func repositoryName(raw json.RawMessage) (string, error) {
	var repo gh.Repository
	if err := json.Unmarshal(raw, &repo); err != nil {
		return "", fmt.Errorf("decoding repository: %w", err)
	}
	if repo.GetName() == "" {
		return "", errors.New("repository has no name")
	}
	return repo.GetName(), nil
}

// pullRequestRecord converts a pull request payload into a validated record.
func pullRequestRecord(raw json.RawMessage) (model.PullRequestRecord, error) {
	var pr gh.PullRequest
	if err := json.Unmarshal(raw, &pr); err != nil {
		return model.PullRequestRecord{}, fmt.Errorf("decoding pull request: %w", err)
	}
	if pr.GetNumber() <= 0 {
		return model.PullRequestRecord{}, errors.New("pull request has no number")
	}
	if pr.GetUser().GetLogin() == "" {
		return model.PullRequestRecord{}, fmt.Errorf("pull request #%d has no author", pr.GetNumber())
	}
	if pr.CreatedAt == nil || pr.UpdatedAt == nil {
		return model.PullRequestRecord{}, fmt.Errorf("pull request #%d is missing timestamps", pr.GetNumber())
	}

	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, u := range pr.RequestedReviewers {
		if login := u.GetLogin(); login != "" {
			reviewers = append(reviewers, login)
		}
	}

	return model.PullRequestRecord{
		Number:             pr.GetNumber(),
		Title:              pr.GetTitle(),
		Author:             pr.GetUser().GetLogin(),
		URL:                pr.GetHTMLURL(),
		CreatedAt:          pr.GetCreatedAt().Time,
		UpdatedAt:          pr.GetUpdatedAt().Time,
		RequestedReviewers: reviewers,
		Draft:              pr.GetDraft(),
	}, nil
}

// issueRecord converts an issue payload into a validated record. Payloads
// carrying a pull_request marker are rejected with errPullRequestIssue.
func issueRecord(raw json.RawMessage) (model.IssueRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.IssueRecord{}, fmt.Errorf("decoding issue: %w", err)
	}
	if _, ok := fields["pull_request"]; ok {
		return model.IssueRecord{}, errPullRequestIssue
	}

	var issue gh.Issue
	if err := json.Unmarshal(raw, &issue); err != nil {
		return model.IssueRecord{}, fmt.Errorf("decoding issue: %w", err)
	}
	if issue.GetNumber() <= 0 {
		return model.IssueRecord{}, errors.New("issue has no number")
	}
	if issue.UpdatedAt == nil {
		return model.IssueRecord{}, fmt.Errorf("issue #%d is missing updated_at", issue.GetNumber())
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	return model.IssueRecord{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Author:    issue.GetUser().GetLogin(),
		URL:       issue.GetHTMLURL(),
		Labels:    labels,
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}, nil
}

// reviewEvent converts a review payload into a review event.
func reviewEvent(raw json.RawMessage) (model.ReviewEvent, error) {
	var review gh.PullRequestReview
	if err := json.Unmarshal(raw, &review); err != nil {
		return model.ReviewEvent{}, fmt.Errorf("decoding review: %w", err)
	}
	if review.GetUser().GetLogin() == "" {
		return model.ReviewEvent{}, errors.New("review has no reviewer")
	}
	return model.ReviewEvent{
		Reviewer: review.GetUser().GetLogin(),
		State:    review.GetState(),
	}, nil
}

// convertAll applies convert to each record, skipping those it rejects.
func convertAll[T any](kind, endpoint string, raws []json.RawMessage, convert func(json.RawMessage) (T, error)) []T {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		v, err := convert(raw)
		if errors.Is(err, errPullRequestIssue) {
			continue
		}
		if err != nil {
			log.Warn("skipping malformed record", "kind", kind, "endpoint", endpoint, "index", i, "error", err)
			if log.IsTrace() {
				log.Trace("malformed record payload", "endpoint", endpoint, "index", i, "raw", string(raw))
			}
			continue
		}
		out = append(out, v)
	}
	return out
}
