package model

import "time"

// PullRequestRecord is a validated open pull request as listed by the API.
type PullRequestRecord struct {
	Number             int
	Title              string
	Author             string
	URL                string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	RequestedReviewers []string
	Draft              bool
}

// IssueRecord is a validated open issue as listed by the API.
// Pull requests surfaced by the issues endpoint never become an IssueRecord.
type IssueRecord struct {
	Number    int
	Title     string
	Author    string
	URL       string
	Labels    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
