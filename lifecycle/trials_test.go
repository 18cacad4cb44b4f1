package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultCfg() TrialConfig {
	return TrialConfig{RequiredTrials: 3, MaxRetries: 0}
}

func TestSummarizeTrials(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []string
		completed     int
		canAssignMore bool
		qualified     bool
	}{
		{
			name:          "zero trials",
			statuses:      nil,
			completed:     0,
			canAssignMore: true,
			qualified:     false,
		},
		{
			name:          "one assigned trial",
			statuses:      []string{TrialAssigned},
			completed:     0,
			canAssignMore: true,
			qualified:     false,
		},
		{
			name:          "two completed one failed",
			statuses:      []string{TrialCompleted, TrialCompleted, TrialFailed},
			completed:     2,
			canAssignMore: true,
			qualified:     false,
		},
		{
			name:          "three completed",
			statuses:      []string{TrialCompleted, TrialCompleted, TrialCompleted},
			completed:     3,
			canAssignMore: false,
			qualified:     true,
		},
		{
			name:          "three in progress blocks further assignment",
			statuses:      []string{TrialInProgress, TrialInProgress, TrialAssigned},
			completed:     0,
			canAssignMore: false,
			qualified:     false,
		},
		{
			name:          "retries accumulate past the required count",
			statuses:      []string{TrialFailed, TrialFailed, TrialCompleted, TrialCompleted, TrialCompleted},
			completed:     3,
			canAssignMore: true,
			qualified:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := SummarizeTrials(tt.statuses, defaultCfg())
			assert.Equal(t, tt.completed, summary.CompletedCount)
			assert.Equal(t, tt.canAssignMore, summary.CanAssignMore)
			assert.Equal(t, tt.qualified, summary.IsFullyQualified)
			assert.Equal(t, len(tt.statuses), summary.TotalTrials)
			assert.LessOrEqual(t, summary.CompletedCount, summary.TotalTrials)
		})
	}
}

func TestSummarizeTrialsRetryCap(t *testing.T) {
	cfg := TrialConfig{RequiredTrials: 3, MaxRetries: 2}

	twoFailures := []string{TrialFailed, TrialFailed, TrialCompleted}
	assert.True(t, SummarizeTrials(twoFailures, cfg).CanAssignMore)

	threeFailures := []string{TrialFailed, TrialFailed, TrialFailed}
	assert.False(t, SummarizeTrials(threeFailures, cfg).CanAssignMore,
		"retry cap reached, no further assignment")

	// unlimited retries when the cap is zero
	assert.True(t, SummarizeTrials(threeFailures, defaultCfg()).CanAssignMore)
}

func TestSummarizeTrialsConfigurableRequiredCount(t *testing.T) {
	cfg := TrialConfig{RequiredTrials: 2, MaxRetries: 0}
	summary := SummarizeTrials([]string{TrialCompleted, TrialCompleted}, cfg)
	assert.True(t, summary.IsFullyQualified)
	assert.False(t, summary.CanAssignMore)
	assert.Equal(t, 2, summary.RequiredTrials)
}

func TestDefaultTrialConfigFromEnv(t *testing.T) {
	t.Setenv("TRIAL_REQUIRED_COUNT", "5")
	t.Setenv("TRIAL_MAX_RETRIES", "2")
	cfg := DefaultTrialConfig()
	assert.Equal(t, 5, cfg.RequiredTrials)
	assert.Equal(t, 2, cfg.MaxRetries)

	t.Setenv("TRIAL_REQUIRED_COUNT", "not-a-number")
	t.Setenv("TRIAL_MAX_RETRIES", "")
	cfg = DefaultTrialConfig()
	assert.Equal(t, 3, cfg.RequiredTrials)
	assert.Equal(t, 0, cfg.MaxRetries)
}

func TestIsValidTrialStatus(t *testing.T) {
	for _, status := range []string{TrialAssigned, TrialInProgress, TrialCompleted, TrialFailed} {
		assert.True(t, IsValidTrialStatus(status))
	}
	assert.False(t, IsValidTrialStatus("pending"))
	assert.False(t, IsValidTrialStatus(""))
}
