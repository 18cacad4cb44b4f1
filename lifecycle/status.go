// lifecycle/status.go
package lifecycle

import "fmt"

// Partner lifecycle statuses
const (
	StatusPending          = "pending"
	StatusScreening        = "screening"
	StatusServiceSelection = "service_selection"
	StatusTrialPeriod      = "trial_period"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusSuspended        = "suspended"
)

// legalTransitions maps each status to the set of statuses it may move to.
// The onboarding path is strictly sequential; rejection and suspension are
// reachable from every status except approved, which can only be suspended.
// A suspended partner is reinstated to approved or closed out as rejected.
var legalTransitions = map[string][]string{
	StatusPending:          {StatusScreening, StatusRejected, StatusSuspended},
	StatusScreening:        {StatusServiceSelection, StatusRejected, StatusSuspended},
	StatusServiceSelection: {StatusTrialPeriod, StatusRejected, StatusSuspended},
	StatusTrialPeriod:      {StatusApproved, StatusRejected, StatusSuspended},
	StatusApproved:         {StatusSuspended},
	StatusRejected:         {StatusSuspended},
	StatusSuspended:        {StatusApproved, StatusRejected},
}

// TransitionError is returned when a requested status change is not legal.
// It is produced before any database write is attempted.
type TransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal partner status transition %q -> %q: %s", e.From, e.To, e.Reason)
}

// IsValidStatus checks that a status is one of the enumerated lifecycle statuses
func IsValidStatus(status string) bool {
	_, ok := legalTransitions[status]
	return ok
}

// IsNoOp reports whether the requested change leaves the status unchanged.
// A no-op is permitted but must not issue a write.
func IsNoOp(current, requested string) bool {
	return current == requested
}

// CanTransition decides whether a partner may move from current to requested.
// It returns the decision plus a human-readable reason when denied.
func CanTransition(current, requested string) (bool, string) {
	if !IsValidStatus(requested) {
		return false, fmt.Sprintf("unknown status %q", requested)
	}
	if !IsValidStatus(current) {
		return false, fmt.Sprintf("partner has unknown status %q", current)
	}
	if current == requested {
		return true, ""
	}
	for _, next := range legalTransitions[current] {
		if next == requested {
			return true, ""
		}
	}
	return false, fmt.Sprintf("partners in status %q cannot move to %q", current, requested)
}

// ValidateTransition returns a *TransitionError when the change is not legal
func ValidateTransition(current, requested string) error {
	ok, reason := CanTransition(current, requested)
	if !ok {
		return &TransitionError{From: current, To: requested, Reason: reason}
	}
	return nil
}

// EntryWarning returns the admin-facing warning for statuses whose entry
// should be called out. No automatic notification or cascading update to
// assignments and trials is performed on entry.
func EntryWarning(status string) string {
	switch status {
	case StatusRejected:
		return "Partner has been rejected. Existing assignments and trials are not closed automatically."
	case StatusSuspended:
		return "Partner has been suspended. Existing assignments and trials are not closed automatically."
	}
	return ""
}

// AllStatuses returns the enumerated lifecycle statuses in onboarding order
func AllStatuses() []string {
	return []string{
		StatusPending,
		StatusScreening,
		StatusServiceSelection,
		StatusTrialPeriod,
		StatusApproved,
		StatusRejected,
		StatusSuspended,
	}
}
