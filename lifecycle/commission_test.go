package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionRate(t *testing.T) {
	assert.Equal(t, 70.0, CommissionRate(PartnerTypeAgency))
	assert.Equal(t, 50.0, CommissionRate(PartnerTypeIndividual))
	// anything that is not an agency falls back to the individual rate
	assert.Equal(t, 50.0, CommissionRate(""))
	assert.Equal(t, 50.0, CommissionRate("freelancer"))
}

func TestIsValidPartnerType(t *testing.T) {
	assert.True(t, IsValidPartnerType(PartnerTypeIndividual))
	assert.True(t, IsValidPartnerType(PartnerTypeAgency))
	assert.False(t, IsValidPartnerType("company"))
	assert.False(t, IsValidPartnerType(""))
}
