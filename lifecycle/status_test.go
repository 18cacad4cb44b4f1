package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionOnboardingPath(t *testing.T) {
	path := []string{
		StatusPending,
		StatusScreening,
		StatusServiceSelection,
		StatusTrialPeriod,
		StatusApproved,
	}
	for i := 0; i < len(path)-1; i++ {
		ok, reason := CanTransition(path[i], path[i+1])
		assert.True(t, ok, "expected %s -> %s to be legal (%s)", path[i], path[i+1], reason)
	}
}

func TestCanTransitionNoSkippingSteps(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"pending cannot jump to approved", StatusPending, StatusApproved},
		{"pending cannot jump to trial_period", StatusPending, StatusTrialPeriod},
		{"screening cannot jump to approved", StatusScreening, StatusApproved},
		{"trial_period cannot regress to pending", StatusTrialPeriod, StatusPending},
		{"approved cannot be moved back to screening", StatusApproved, StatusScreening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := CanTransition(tt.from, tt.to)
			assert.False(t, ok)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestRejectedAndSuspendedReachableFromEverywhereExceptApproved(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range []string{StatusRejected, StatusSuspended} {
			if from == to {
				continue
			}
			ok, _ := CanTransition(from, to)
			if from == StatusApproved && to == StatusRejected {
				assert.False(t, ok, "approved partners cannot be rejected directly")
				continue
			}
			assert.True(t, ok, "expected %s -> %s to be legal", from, to)
		}
	}
}

func TestSuspendedCanBeReinstatedOrRejected(t *testing.T) {
	ok, _ := CanTransition(StatusSuspended, StatusApproved)
	assert.True(t, ok)
	ok, _ = CanTransition(StatusSuspended, StatusRejected)
	assert.True(t, ok)
	ok, _ = CanTransition(StatusSuspended, StatusScreening)
	assert.False(t, ok)
}

func TestSameStatusIsPermittedNoOp(t *testing.T) {
	for _, status := range AllStatuses() {
		ok, reason := CanTransition(status, status)
		assert.True(t, ok, "same-status change must be permitted: %s", reason)
		assert.True(t, IsNoOp(status, status))
	}
	assert.False(t, IsNoOp(StatusPending, StatusScreening))
}

func TestValidateTransitionReturnsTypedError(t *testing.T) {
	err := ValidateTransition(StatusPending, StatusApproved)
	require.Error(t, err)

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusPending, transitionErr.From)
	assert.Equal(t, StatusApproved, transitionErr.To)
	assert.Contains(t, err.Error(), "illegal partner status transition")

	assert.NoError(t, ValidateTransition(StatusPending, StatusScreening))
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	ok, reason := CanTransition(StatusPending, "archived")
	assert.False(t, ok)
	assert.Contains(t, reason, "unknown status")

	ok, reason = CanTransition("limbo", StatusScreening)
	assert.False(t, ok)
	assert.Contains(t, reason, "unknown status")
}

func TestEntryWarning(t *testing.T) {
	assert.NotEmpty(t, EntryWarning(StatusRejected))
	assert.NotEmpty(t, EntryWarning(StatusSuspended))
	assert.Empty(t, EntryWarning(StatusApproved))
	assert.Empty(t, EntryWarning(StatusPending))
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range AllStatuses() {
		assert.True(t, IsValidStatus(status))
	}
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("active"))
}
