package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewDateSetOn(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		next       string
		alreadySet bool
		want       bool
	}{
		{"submitted to approved sets it", ApplicationSubmitted, ApplicationApproved, false, true},
		{"submitted to rejected sets it", ApplicationSubmitted, ApplicationRejected, false, true},
		{"under_review to approved sets it", ApplicationUnderReview, ApplicationApproved, false, true},
		{"under_review to rejected sets it", ApplicationUnderReview, ApplicationRejected, false, true},
		{"submitted to under_review does not", ApplicationSubmitted, ApplicationUnderReview, false, false},
		{"reconsider does not reset it", ApplicationRejected, ApplicationUnderReview, true, false},
		{"re-review after reconsider does not set it again", ApplicationUnderReview, ApplicationApproved, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReviewDateSetOn(tt.current, tt.next, tt.alreadySet))
		})
	}
}

func TestCanReconsider(t *testing.T) {
	assert.True(t, CanReconsider(ApplicationRejected))
	assert.False(t, CanReconsider(ApplicationApproved))
	assert.False(t, CanReconsider(ApplicationSubmitted))
	assert.False(t, CanReconsider(ApplicationUnderReview))
}

func TestIsValidApplicationStatus(t *testing.T) {
	for _, status := range []string{ApplicationSubmitted, ApplicationUnderReview, ApplicationApproved, ApplicationRejected} {
		assert.True(t, IsValidApplicationStatus(status))
	}
	assert.False(t, IsValidApplicationStatus("pending"))
	assert.False(t, IsValidApplicationStatus(""))
}
