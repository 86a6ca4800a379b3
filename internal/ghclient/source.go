package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/pulse/internal/constants"
	"github.com/spiffcs/pulse/internal/model"
)

// Source lists organization activity as validated model records.
type Source struct {
	client *Client
}

// NewSource creates a Source that fetches through client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// ListRepositories returns the names of every repository in org.
func (s *Source) ListRepositories(ctx context.Context, org string) ([]string, error) {
	endpoint := fmt.Sprintf("/orgs/%s/repos?per_page=%d&type=all",
		url.PathEscape(org), constants.RepoPageSize)

	raws, err := s.client.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return convertAll("repository", endpoint, raws, repositoryName), nil
}

// ListOpenPullRequests returns the open pull requests of org/repo.
func (s *Source) ListOpenPullRequests(ctx context.Context, org, repo string) ([]model.PullRequestRecord, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/pulls?state=open&per_page=%d",
		url.PathEscape(org), url.PathEscape(repo), constants.ItemPageSize)

	raws, err := s.client.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return convertAll("pull request", endpoint, raws, pullRequestRecord), nil
}

// ListReviews returns the reviews submitted on pull request number, in order.
func (s *Source) ListReviews(ctx context.Context, org, repo string, number int) ([]model.ReviewEvent, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews",
		url.PathEscape(org), url.PathEscape(repo), number)

	raws, err := s.client.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return convertAll("review", endpoint, raws, reviewEvent), nil
}

// ListOpenIssues returns the open issues of org/repo, excluding pull requests.
func (s *Source) ListOpenIssues(ctx context.Context, org, repo string) ([]model.IssueRecord, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/issues?state=open&per_page=%d",
		url.PathEscape(org), url.PathEscape(repo), constants.ItemPageSize)

	raws, err := s.client.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return convertAll("issue", endpoint, raws, issueRecord), nil
}

// ErrNoIdentity is returned when the authenticated user cannot be determined.
var ErrNoIdentity = errors.New("could not determine the authenticated GitHub user")

// CurrentUser returns the login of the authenticated user.
func (s *Source) CurrentUser(ctx context.Context) (string, error) {
	raws, err := s.client.Fetch(ctx, "/user")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoIdentity, err)
	}
	for _, raw := range raws {
		var u gh.User
		if err := json.Unmarshal(raw, &u); err == nil && u.GetLogin() != "" {
			return u.GetLogin(), nil
		}
	}
	return "", ErrNoIdentity
}
