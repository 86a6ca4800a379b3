package triage

import (
	"testing"

	"github.com/spiffcs/pulse/internal/model"
)

func pr(n int, stale, mine, bot bool, state model.ReviewState) model.PullRequest {
	return model.PullRequest{Repo: "r", Number: n, Stale: stale, Mine: mine, IsBot: bot, ReviewState: state}
}

func numbers(prs []model.PullRequest) []int {
	out := []int{}
	for _, p := range prs {
		out = append(out, p.Number)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBucketize(t *testing.T) {
	prs := []model.PullRequest{
		pr(1, true, false, true, model.ReviewChangesRequested), // stale bot, changes requested
		pr(2, false, true, false, model.ReviewPending),         // fresh, mine
		pr(3, true, true, false, model.ReviewApproved),         // stale, mine, approved
		pr(4, false, false, false, model.ReviewPending),        // someone else's, waiting
		pr(5, false, false, false, model.ReviewApproved),       // approved, not mine
		pr(6, true, false, true, model.ReviewPending),          // stale bot, pending
		pr(7, false, false, false, model.ReviewChangesRequested),
		pr(8, true, true, false, model.ReviewChangesRequested), // mine, stale, changes requested
	}
	issues := []model.Issue{
		{Repo: "r", Number: 10, Stale: true},
		{Repo: "r", Number: 11, Stale: false},
	}

	b := Bucketize(prs, issues)

	tests := []struct {
		name string
		got  []int
		want []int
	}{
		{"needs attention", numbers(b.NeedsAttention), []int{1, 8}},
		{"stale bot prs", numbers(b.StaleBotPRs), []int{6}},
		{"review needed", numbers(b.ReviewNeeded), []int{4, 6, 7}},
		{"my open prs", numbers(b.MyOpenPRs), []int{2, 3, 8}},
		{"my stale prs", numbers(b.MyStalePRs), []int{3, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !equalInts(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if len(b.StaleIssues) != 1 || b.StaleIssues[0].Number != 10 {
		t.Errorf("StaleIssues = %v, want [#10]", b.StaleIssues)
	}
}

func TestBucketizeAttentionAndReviewDisjoint(t *testing.T) {
	states := []model.ReviewState{model.ReviewApproved, model.ReviewChangesRequested, model.ReviewPending}
	var prs []model.PullRequest
	n := 0
	for _, stale := range []bool{true, false} {
		for _, mine := range []bool{true, false} {
			for _, bot := range []bool{true, false} {
				for _, st := range states {
					n++
					prs = append(prs, pr(n, stale, mine, bot, st))
				}
			}
		}
	}

	b := Bucketize(prs, nil)

	attention := make(map[int]bool)
	for _, p := range b.NeedsAttention {
		attention[p.Number] = true
	}
	for _, p := range b.ReviewNeeded {
		if attention[p.Number] {
			t.Errorf("PR #%d is in both needs_attention and review_needed", p.Number)
		}
	}
	for _, p := range b.StaleBotPRs {
		if attention[p.Number] {
			t.Errorf("PR #%d is in both needs_attention and the stale bot bucket", p.Number)
		}
	}
}

func TestBucketizeEmpty(t *testing.T) {
	b := Bucketize(nil, nil)
	if b.NeedsAttention == nil || b.ReviewNeeded == nil || b.StaleIssues == nil {
		t.Error("buckets should be empty slices so they serialize as []")
	}
}
