// lifecycle/application.go
package lifecycle

// Partner application review statuses
const (
	ApplicationSubmitted   = "submitted"
	ApplicationUnderReview = "under_review"
	ApplicationApproved    = "approved"
	ApplicationRejected    = "rejected"
)

// IsValidApplicationStatus checks that a status is one of the enumerated
// application statuses
func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// ReviewDateSetOn reports whether moving an application from current to next
// writes the review timestamp. review_date is written exactly once: the first
// time the status leaves the submitted/under_review pair. A reconsider back to
// under_review and any re-review after it must not touch the original value,
// which is what the alreadySet guard enforces.
func ReviewDateSetOn(current, next string, alreadySet bool) bool {
	if alreadySet {
		return false
	}
	inReview := current == ApplicationSubmitted || current == ApplicationUnderReview
	decided := next == ApplicationApproved || next == ApplicationRejected
	return inReview && decided
}

// CanReconsider reports whether an application may be reopened to
// under_review. Only rejected applications can be reconsidered; the reopen
// keeps the original application_date and review_date untouched.
func CanReconsider(current string) bool {
	return current == ApplicationRejected
}
