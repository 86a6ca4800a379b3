package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/spiffcs/pulse/internal/model"
)

func TestTableFormatter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	off := false
	s := baseSummary()
	s.NeedsAttention = []model.PullRequest{
		{Repo: "repoA", Number: 1, Title: "bump deps", Author: "bot1", IsBot: true, DaysSinceActivity: 5, ReviewState: model.ReviewChangesRequested, URL: "https://github.com/acme/repoA/pull/1"},
	}
	s.ReviewNeeded = []model.PullRequest{
		{Repo: "repoB", Number: 5, Title: strings.Repeat("very long title ", 10), Author: "alice", DaysSinceActivity: 0, ReviewState: model.ReviewPending},
	}
	s.ScanErrors = []model.ScanError{{Repo: "repoC", Endpoint: model.EndpointIssues}}

	var buf bytes.Buffer
	if err := (&TableFormatter{Hyperlinks: &off}).Format(s, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Needs attention (1)",
		"Review needed (1)",
		"bot1 🤖",
		"△ changes",
		"○ pending",
		"5d",
		"today",
		"...",
		"1 endpoints failed: repoC/issues",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q\n%s", want, out)
		}
	}

	if strings.Contains(out, "\033]8;;") {
		t.Error("hyperlinks should be disabled")
	}
	if strings.Contains(out, "Stale issues") {
		t.Error("empty sections should be omitted")
	}
}

func TestTableFormatterAllClear(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	if err := NewFormatter(FormatTable).Format(baseSummary(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "All clear") {
		t.Errorf("expected all clear marker, got\n%s", buf.String())
	}
}

func TestTableHyperlink(t *testing.T) {
	on := true
	f := &TableFormatter{Hyperlinks: &on}
	got := f.hyperlink("title", "https://example.com")
	want := "\033]8;;https://example.com\033\\title\033]8;;\033\\"
	if got != want {
		t.Errorf("hyperlink() = %q, want %q", got, want)
	}
}
