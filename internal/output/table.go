package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/pulse/internal/format"
	"github.com/spiffcs/pulse/internal/model"
)

// Column widths
const (
	colRepo     = 22
	colNumber   = 6
	colTitle    = 44
	colAuthor   = 18
	colState    = 12
	colInactive = 8
)

// TableFormatter formats the attention and review buckets as terminal tables.
type TableFormatter struct {
	// Hyperlinks forces OSC 8 links on or off; nil detects a terminal on stdout.
	Hyperlinks *bool
}

// row is one rendered table line before padding.
type row struct {
	repo     string
	number   int
	title    string
	url      string
	author   string
	state    string
	stateRaw string
	inactive int
}

// Format outputs the summary as a set of tables.
func (f *TableFormatter) Format(s *model.ScanSummary, w io.Writer) error {
	fmt.Fprintf(w, "%s  %d repos scanned  %d open PRs  %d open issues\n",
		color.New(color.Bold).Sprint(s.Org), s.ReposScanned, s.TotalOpenPRs, s.TotalOpenIssues)

	sections := []struct {
		title string
		c     *color.Color
		rows  []row
	}{
		{"Needs attention", color.New(color.FgRed, color.Bold), prRows(s.NeedsAttention)},
		{"Stale bot PRs", color.New(color.FgYellow, color.Bold), prRows(s.StaleBotPRs)},
		{"Stale issues", color.New(color.FgYellow, color.Bold), issueRows(s.StaleIssues)},
		{"Review needed", color.New(color.FgCyan, color.Bold), prRows(s.ReviewNeeded)},
		{"My stale PRs", color.New(color.FgMagenta, color.Bold), prRows(s.MyStalePRs)},
	}

	printed := false
	for _, sec := range sections {
		if len(sec.rows) == 0 {
			continue
		}
		printed = true
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%d)\n", sec.c.Sprint(sec.title), len(sec.rows))
		f.printRows(sec.rows, w)
	}

	if !printed {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.GreenString("✓ All clear"))
	}

	printFooter(s, w)
	return nil
}

func prRows(prs []model.PullRequest) []row {
	rows := make([]row, 0, len(prs))
	for _, pr := range prs {
		rows = append(rows, row{
			repo:     pr.Repo,
			number:   pr.Number,
			title:    pr.Title,
			url:      pr.URL,
			author:   authorLabel(pr.Author, pr.IsBot),
			state:    colorReviewState(pr.ReviewState),
			stateRaw: reviewStateLabel(pr.ReviewState),
			inactive: pr.DaysSinceActivity,
		})
	}
	return rows
}

func issueRows(issues []model.Issue) []row {
	rows := make([]row, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, row{
			repo:     issue.Repo,
			number:   issue.Number,
			title:    issue.Title,
			url:      issue.URL,
			author:   authorLabel(issue.Author, issue.IsBot),
			state:    "issue",
			stateRaw: "issue",
			inactive: issue.DaysSinceActivity,
		})
	}
	return rows
}

func authorLabel(author string, bot bool) string {
	if bot {
		return author + " 🤖"
	}
	return author
}

func (f *TableFormatter) printRows(rows []row, w io.Writer) {
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colRepo, "Repository",
		colNumber, "#",
		colTitle, "Title",
		colAuthor, "Author",
		colState, "Review",
		"Inactive")
	fmt.Fprintln(w, strings.Repeat("-", colRepo+colNumber+colTitle+colAuthor+colState+colInactive+10))

	for _, r := range rows {
		repo, repoWidth := format.TruncateToWidth(r.repo, colRepo)
		title, titleWidth := format.TruncateToWidth(r.title, colTitle)
		author, authorWidth := format.TruncateToWidth(r.author, colAuthor)

		linked := title
		if r.url != "" {
			linked = f.hyperlink(title, r.url)
		}

		fmt.Fprintf(w, "%s  %-*s  %s  %s  %s  %s\n",
			format.PadRight(repo, repoWidth, colRepo),
			colNumber, fmt.Sprintf("#%d", r.number),
			format.PadRight(linked, titleWidth, colTitle),
			format.PadRight(author, authorWidth, colAuthor),
			format.PadRight(r.state, format.DisplayWidth(r.stateRaw), colState),
			format.FormatDays(r.inactive),
		)
	}
}

// hyperlink creates a clickable terminal hyperlink using OSC 8.
func (f *TableFormatter) hyperlink(text, url string) string {
	enabled := term.IsTerminal(int(os.Stdout.Fd()))
	if f.Hyperlinks != nil {
		enabled = *f.Hyperlinks
	}
	if !enabled {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

func reviewStateLabel(s model.ReviewState) string {
	switch s {
	case model.ReviewApproved:
		return "✓ approved"
	case model.ReviewChangesRequested:
		return "△ changes"
	default:
		return "○ pending"
	}
}

func colorReviewState(s model.ReviewState) string {
	label := reviewStateLabel(s)
	switch s {
	case model.ReviewApproved:
		return color.GreenString(label)
	case model.ReviewChangesRequested:
		return color.YellowString(label)
	default:
		return color.CyanString(label)
	}
}

// printFooter prints bucket counts and failed endpoints.
func printFooter(s *model.ScanSummary, w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintf(w, "  %s %d need attention   %s %d awaiting review   %d of mine open (%d stale)\n",
		color.RedString("●"), len(s.NeedsAttention),
		color.CyanString("○"), len(s.ReviewNeeded),
		len(s.MyOpenPRs), len(s.MyStalePRs))

	if len(s.ScanErrors) > 0 {
		fmt.Fprintf(w, "  %s %d endpoints failed: %s\n",
			color.YellowString("⚠"), len(s.ScanErrors), scanErrorList(s.ScanErrors, len(s.ScanErrors)))
	}
}
