package triage

import (
	"strings"

	"github.com/spiffcs/pulse/internal/model"
)

// Reconcile folds a pull request's reviews into a single verdict.
// Only each reviewer's latest substantive review counts; neutral reviews
// never overwrite an earlier verdict. Any outstanding change request wins,
// unanimous approval yields approved, and no verdict at all is pending.
func Reconcile(events []model.ReviewEvent) model.ReviewState {
	latest := make(map[string]string)
	for _, e := range events {
		if !e.IsSubstantive() {
			continue
		}
		latest[e.Reviewer] = strings.ToUpper(e.State)
	}

	if len(latest) == 0 {
		return model.ReviewPending
	}

	approved := 0
	for _, state := range latest {
		switch state {
		case model.RawReviewChangesRequested:
			return model.ReviewChangesRequested
		case model.RawReviewApproved:
			approved++
		}
	}

	if approved == len(latest) {
		return model.ReviewApproved
	}
	return model.ReviewPending
}
