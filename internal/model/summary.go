package model

import (
	"encoding/json"
	"time"
)

// Endpoint kinds that can fail during a scan without aborting it.
const (
	EndpointPulls  = "pulls"
	EndpointIssues = "issues"
)

// ScanError records one repository endpoint that could not be read.
type ScanError struct {
	Repo     string
	Endpoint string
}

// String renders the error as "repo/endpoint".
func (e ScanError) String() string {
	return e.Repo + "/" + e.Endpoint
}

// MarshalJSON renders the error in its string form.
func (e ScanError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// ScanSummary is the complete result of one scan run.
// The bucket fields are views over AllPRs and AllIssues.
type ScanSummary struct {
	Timestamp          time.Time     `json:"timestamp"`
	Org                string        `json:"org"`
	MyUser             string        `json:"my_user"`
	StaleDaysThreshold int           `json:"stale_days_threshold"`
	ReposScanned       int           `json:"repos_scanned"`
	TotalOpenPRs       int           `json:"total_open_prs"`
	TotalOpenIssues    int           `json:"total_open_issues"`
	ScanErrors         []ScanError   `json:"scan_errors"`
	AllPRs             []PullRequest `json:"all_prs"`
	AllIssues          []Issue       `json:"all_issues"`
	MyOpenPRs          []PullRequest `json:"my_open_prs"`
	MyStalePRs         []PullRequest `json:"my_stale_prs"`
	ReviewNeeded       []PullRequest `json:"review_needed"`
	NeedsAttention     []PullRequest `json:"needs_attention"`
	StaleBotPRs        []PullRequest `json:"stale_bot_prs"`
	StaleIssues        []Issue       `json:"stale_issues"`
}

// Actionable reports whether the summary warrants waking a decision-maker.
// Any open issue counts, as does any PR bucket other than plain "mine".
func (s *ScanSummary) Actionable() bool {
	return len(s.MyStalePRs) > 0 ||
		len(s.ReviewNeeded) > 0 ||
		len(s.AllIssues) > 0 ||
		len(s.NeedsAttention) > 0
}

// HasAttentionItems reports whether any "needs attention" entry exists.
func (s *ScanSummary) HasAttentionItems() bool {
	return len(s.NeedsAttention) > 0 || len(s.StaleBotPRs) > 0 || len(s.StaleIssues) > 0
}

// AllClear reports whether the digest should render its all-clear sentinel.
func (s *ScanSummary) AllClear() bool {
	return !s.HasAttentionItems() && len(s.ReviewNeeded) == 0
}
