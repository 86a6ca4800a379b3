package output

import (
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/pulse/internal/model"
)

var digestTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func baseSummary() *model.ScanSummary {
	return &model.ScanSummary{
		Timestamp:          digestTime,
		Org:                "acme",
		MyUser:             "me",
		StaleDaysThreshold: 3,
		ReposScanned:       2,
		ScanErrors:         []model.ScanError{},
		AllPRs:             []model.PullRequest{},
		AllIssues:          []model.Issue{},
		MyOpenPRs:          []model.PullRequest{},
		MyStalePRs:         []model.PullRequest{},
		ReviewNeeded:       []model.PullRequest{},
		NeedsAttention:     []model.PullRequest{},
		StaleBotPRs:        []model.PullRequest{},
		StaleIssues:        []model.Issue{},
	}
}

func TestDigestAllClear(t *testing.T) {
	got := Digest(baseSummary())

	want := "📊 **acme pulse** · 2024-06-15\n" +
		"Scanned 2 repos | 0 open PRs | 0 open issues\n" +
		"\n✅ **All Clear**\n"
	if got != want {
		t.Errorf("Digest() =\n%s\nwant\n%s", got, want)
	}
}

func TestDigestSections(t *testing.T) {
	s := baseSummary()
	s.TotalOpenPRs = 4
	s.TotalOpenIssues = 1
	s.NeedsAttention = []model.PullRequest{
		{Repo: "repoA", Number: 1, Title: "bump deps", Author: "bot1", IsBot: true, DaysSinceActivity: 5, Stale: true, ReviewState: model.ReviewChangesRequested},
	}
	s.StaleBotPRs = []model.PullRequest{
		{Repo: "repoA", Number: 9, Title: "nightly", Author: "bot2", IsBot: true, DaysSinceActivity: 4, Stale: true, ReviewState: model.ReviewPending},
	}
	s.StaleIssues = []model.Issue{
		{Repo: "repoB", Number: 3, Title: "crash", Author: "carol", DaysSinceActivity: 8, Stale: true},
	}
	s.ReviewNeeded = []model.PullRequest{
		{Repo: "repoB", Number: 5, Title: "feature", Author: "alice", AgeDays: 4, ReviewState: model.ReviewPending},
		{Repo: "repoB", Number: 6, Title: "fix", Author: "bob", AgeDays: 1, ReviewState: model.ReviewChangesRequested},
	}

	got := Digest(s)

	wantLines := []string{
		"🔴 **Needs Attention:**",
		"  - [repoA] PR #1: bump deps (bot1, 5d inactive, changes requested)",
		"  - [repoA] PR #9: nightly (bot2 🤖, 4d inactive)",
		"  - [repoB] Issue #3: crash (carol, 8d inactive)",
		"👀 **Review Needed:**",
		"  - [repoB] PR #5: feature (alice, 4d old)",
		"  - [repoB] PR #6: fix (bob, 1d old, changes requested)",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("digest missing line %q\n%s", line, got)
		}
	}

	if strings.Contains(got, "All Clear") {
		t.Error("all-clear sentinel must not render when buckets are non-empty")
	}
	if strings.Contains(got, "Scan errors") {
		t.Error("scan error footer must be omitted when there are no errors")
	}

	attention := strings.Index(got, "Needs Attention")
	review := strings.Index(got, "Review Needed")
	if attention < 0 || review < 0 || attention > review {
		t.Error("needs attention must precede review needed")
	}
}

func TestDigestOmitsEmptySections(t *testing.T) {
	s := baseSummary()
	s.ReviewNeeded = []model.PullRequest{{Repo: "r", Number: 1, Title: "t", Author: "a", ReviewState: model.ReviewPending}}

	got := Digest(s)
	if strings.Contains(got, "Needs Attention") {
		t.Error("empty needs attention section should be omitted")
	}
	if !strings.Contains(got, "Review Needed") {
		t.Error("expected review needed section")
	}
}

func TestDigestScanErrorFooter(t *testing.T) {
	s := baseSummary()
	for _, repo := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		s.ScanErrors = append(s.ScanErrors, model.ScanError{Repo: repo, Endpoint: model.EndpointPulls})
	}

	got := Digest(s)

	if !strings.Contains(got, "✅ **All Clear**") {
		t.Error("digest should still render the all-clear sentinel alongside errors")
	}
	want := "⚠️ **Scan errors** (7 endpoints failed): a/pulls, b/pulls, c/pulls, d/pulls, e/pulls (+2 more)\n"
	if !strings.HasSuffix(got, want) {
		t.Errorf("footer mismatch:\n%s\nwant suffix\n%s", got, want)
	}
}
