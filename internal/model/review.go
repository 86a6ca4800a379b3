// Package model contains domain types for the pulse scanner.
// These types are independent of any external GitHub library.
package model

import "strings"

// ReviewState is the single verdict reconciled from all reviews on a pull request.
type ReviewState string

const (
	ReviewApproved         ReviewState = "approved"
	ReviewChangesRequested ReviewState = "changes_requested"
	ReviewPending          ReviewState = "pending"
)

// Display returns a short human-readable label for the verdict.
func (s ReviewState) Display() string {
	switch s {
	case ReviewApproved:
		return "approved"
	case ReviewChangesRequested:
		return "changes requested"
	default:
		return "pending"
	}
}

// Raw review states as reported by the GitHub reviews endpoint.
const (
	RawReviewApproved         = "APPROVED"
	RawReviewChangesRequested = "CHANGES_REQUESTED"
)

// ReviewEvent is a single submitted review in source order.
type ReviewEvent struct {
	Reviewer string
	State    string
}

// IsSubstantive reports whether the event carries a verdict.
// COMMENTED, DISMISSED, PENDING and unknown states are neutral.
func (e ReviewEvent) IsSubstantive() bool {
	switch strings.ToUpper(e.State) {
	case RawReviewApproved, RawReviewChangesRequested:
		return true
	}
	return false
}
