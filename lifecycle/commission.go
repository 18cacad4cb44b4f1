// lifecycle/commission.go
package lifecycle

// Partner types
const (
	PartnerTypeIndividual = "individual"
	PartnerTypeAgency     = "agency"
)

// Commission percentages by partner type. The rate is a pure function of the
// partner type and is never stored on the partner document; assignments take a
// snapshot of this value at assignment time.
const (
	CommissionAgencyPercent     = 70.0
	CommissionIndividualPercent = 50.0
)

// CommissionRate maps a partner type to its commission percentage. Every
// handler that displays or records commission goes through this function.
func CommissionRate(partnerType string) float64 {
	if partnerType == PartnerTypeAgency {
		return CommissionAgencyPercent
	}
	return CommissionIndividualPercent
}

// IsValidPartnerType checks that a partner type is one of the enumerated types
func IsValidPartnerType(partnerType string) bool {
	return partnerType == PartnerTypeIndividual || partnerType == PartnerTypeAgency
}
