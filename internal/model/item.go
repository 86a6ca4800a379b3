package model

import "time"

// PullRequest is a classified open pull request.
type PullRequest struct {
	Repo               string      `json:"repo"`
	Number             int         `json:"number"`
	Title              string      `json:"title"`
	Author             string      `json:"author"`
	URL                string      `json:"url"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	AgeDays            int         `json:"age_days"`
	DaysSinceActivity  int         `json:"days_since_activity"`
	Stale              bool        `json:"stale"`
	Mine               bool        `json:"mine"`
	IsBot              bool        `json:"is_bot"`
	Draft              bool        `json:"draft,omitempty"`
	ReviewState        ReviewState `json:"review_state"`
	RequestedReviewers []string    `json:"reviews"`
}

// Issue is a classified open issue.
type Issue struct {
	Repo              string    `json:"repo"`
	Number            int       `json:"number"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	URL               string    `json:"url"`
	Labels            []string  `json:"labels"`
	UpdatedAt         time.Time `json:"updated_at"`
	DaysSinceActivity int       `json:"days_since_activity"`
	Stale             bool      `json:"stale"`
	Mine              bool      `json:"mine"`
	IsBot             bool      `json:"is_bot"`
}
