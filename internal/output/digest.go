package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/pulse/internal/constants"
	"github.com/spiffcs/pulse/internal/model"
)

// DigestFormatter renders the ranked chat digest: header, needs attention,
// review needed, the all-clear sentinel and the scan error footer. Empty
// sections are omitted.
type DigestFormatter struct{}

// Format outputs the summary as a markdown digest.
func (f *DigestFormatter) Format(summary *model.ScanSummary, w io.Writer) error {
	_, err := io.WriteString(w, Digest(summary))
	return err
}

// Digest returns the ranked digest for summary.
func Digest(s *model.ScanSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 **%s pulse** · %s\n", s.Org, s.Timestamp.Format("2006-01-02"))
	fmt.Fprintf(&b, "Scanned %d repos | %d open PRs | %d open issues\n",
		s.ReposScanned, s.TotalOpenPRs, s.TotalOpenIssues)

	if s.HasAttentionItems() {
		b.WriteString("\n🔴 **Needs Attention:**\n")
		for _, pr := range s.NeedsAttention {
			fmt.Fprintf(&b, "  - [%s] PR #%d: %s (%s, %dd inactive, changes requested)\n",
				pr.Repo, pr.Number, pr.Title, pr.Author, pr.DaysSinceActivity)
		}
		for _, pr := range s.StaleBotPRs {
			fmt.Fprintf(&b, "  - [%s] PR #%d: %s (%s 🤖, %dd inactive)\n",
				pr.Repo, pr.Number, pr.Title, pr.Author, pr.DaysSinceActivity)
		}
		for _, issue := range s.StaleIssues {
			fmt.Fprintf(&b, "  - [%s] Issue #%d: %s (%s, %dd inactive)\n",
				issue.Repo, issue.Number, issue.Title, issue.Author, issue.DaysSinceActivity)
		}
	}

	if len(s.ReviewNeeded) > 0 {
		b.WriteString("\n👀 **Review Needed:**\n")
		for _, pr := range s.ReviewNeeded {
			details := fmt.Sprintf("%s, %dd old", pr.Author, pr.AgeDays)
			if pr.ReviewState != model.ReviewPending {
				details += ", " + pr.ReviewState.Display()
			}
			fmt.Fprintf(&b, "  - [%s] PR #%d: %s (%s)\n", pr.Repo, pr.Number, pr.Title, details)
		}
	}

	if s.AllClear() {
		b.WriteString("\n✅ **All Clear**\n")
	}

	if len(s.ScanErrors) > 0 {
		fmt.Fprintf(&b, "\n⚠️ **Scan errors** (%d endpoints failed): %s\n",
			len(s.ScanErrors), scanErrorList(s.ScanErrors, constants.ScanErrorFooterLimit))
	}

	return b.String()
}

// scanErrorList joins the first limit errors and notes how many were left out.
func scanErrorList(errs []model.ScanError, limit int) string {
	shown := errs
	if len(shown) > limit {
		shown = shown[:limit]
	}

	parts := make([]string, 0, len(shown))
	for _, e := range shown {
		parts = append(parts, e.String())
	}

	list := strings.Join(parts, ", ")
	if extra := len(errs) - len(shown); extra > 0 {
		list += fmt.Sprintf(" (+%d more)", extra)
	}
	return list
}
