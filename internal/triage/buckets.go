package triage

import "github.com/spiffcs/pulse/internal/model"

// Buckets are the ranked views derived from the full item lists.
type Buckets struct {
	NeedsAttention []model.PullRequest
	StaleBotPRs    []model.PullRequest
	StaleIssues    []model.Issue
	ReviewNeeded   []model.PullRequest
	MyOpenPRs      []model.PullRequest
	MyStalePRs     []model.PullRequest
}

// needsAttention is a stale pull request blocked on requested changes.
func needsAttention(pr model.PullRequest) bool {
	return pr.Stale && pr.ReviewState == model.ReviewChangesRequested
}

// Bucketize assigns items to buckets. Source order is preserved within each
// bucket and a pull request in NeedsAttention never appears in ReviewNeeded
// or StaleBotPRs.
func Bucketize(prs []model.PullRequest, issues []model.Issue) Buckets {
	b := Buckets{
		NeedsAttention: []model.PullRequest{},
		StaleBotPRs:    []model.PullRequest{},
		StaleIssues:    []model.Issue{},
		ReviewNeeded:   []model.PullRequest{},
		MyOpenPRs:      []model.PullRequest{},
		MyStalePRs:     []model.PullRequest{},
	}

	for _, pr := range prs {
		if pr.Mine {
			b.MyOpenPRs = append(b.MyOpenPRs, pr)
			if pr.Stale {
				b.MyStalePRs = append(b.MyStalePRs, pr)
			}
		}

		if needsAttention(pr) {
			b.NeedsAttention = append(b.NeedsAttention, pr)
			continue
		}
		if pr.Stale && pr.IsBot {
			b.StaleBotPRs = append(b.StaleBotPRs, pr)
		}
		if !pr.Mine && pr.ReviewState != model.ReviewApproved {
			b.ReviewNeeded = append(b.ReviewNeeded, pr)
		}
	}

	for _, issue := range issues {
		if issue.Stale {
			b.StaleIssues = append(b.StaleIssues, issue)
		}
	}

	return b
}
