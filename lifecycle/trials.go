// lifecycle/trials.go
package lifecycle

import (
	"os"
	"strconv"
)

// Trial service statuses
const (
	TrialAssigned   = "assigned"
	TrialInProgress = "in_progress"
	TrialCompleted  = "completed"
	TrialFailed     = "failed"
)

// TrialConfig controls the qualification gate. RequiredTrials is the number of
// completed trials a partner needs before an admin may promote them to
// approved. MaxRetries caps how many failed trials may be retried with a new
// assignment; 0 means unlimited retries.
type TrialConfig struct {
	RequiredTrials int
	MaxRetries     int
}

// DefaultTrialConfig reads TRIAL_REQUIRED_COUNT and TRIAL_MAX_RETRIES from the
// environment, falling back to 3 required trials and unlimited retries
func DefaultTrialConfig() TrialConfig {
	cfg := TrialConfig{RequiredTrials: 3, MaxRetries: 0}
	if v := os.Getenv("TRIAL_REQUIRED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequiredTrials = n
		}
	}
	if v := os.Getenv("TRIAL_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	return cfg
}

// TrialSummary is the aggregate qualification state computed from a partner's
// full trial list
type TrialSummary struct {
	TotalTrials      int  `json:"totalTrials"`
	CompletedCount   int  `json:"completedCount"`
	FailedCount      int  `json:"failedCount"`
	RequiredTrials   int  `json:"requiredTrials"`
	CanAssignMore    bool `json:"canAssignMore"`
	IsFullyQualified bool `json:"isFullyQualified"`
}

// SummarizeTrials aggregates a partner's trial statuses. A new trial may be
// assigned while fewer than RequiredTrials exist, or while a failed trial
// remains retryable under MaxRetries. More trials than RequiredTrials is legal:
// repeated failures followed by retries accumulate, and only completed trials
// count toward qualification. Qualification itself never auto-promotes the
// partner; moving to approved stays a manual admin action.
func SummarizeTrials(statuses []string, cfg TrialConfig) TrialSummary {
	summary := TrialSummary{
		TotalTrials:    len(statuses),
		RequiredTrials: cfg.RequiredTrials,
	}
	for _, status := range statuses {
		switch status {
		case TrialCompleted:
			summary.CompletedCount++
		case TrialFailed:
			summary.FailedCount++
		}
	}

	summary.IsFullyQualified = summary.CompletedCount >= cfg.RequiredTrials

	if len(statuses) < cfg.RequiredTrials {
		summary.CanAssignMore = true
	} else if summary.FailedCount > 0 {
		summary.CanAssignMore = cfg.MaxRetries == 0 || summary.FailedCount <= cfg.MaxRetries
	}

	return summary
}

// IsValidTrialStatus checks that a status is one of the enumerated trial statuses
func IsValidTrialStatus(status string) bool {
	switch status {
	case TrialAssigned, TrialInProgress, TrialCompleted, TrialFailed:
		return true
	}
	return false
}
