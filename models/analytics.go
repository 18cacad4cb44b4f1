// models/analytics.go
package models

// DashboardStats represents aggregate statistics for the admin dashboard
type DashboardStats struct {
	TotalUsers          int            `json:"totalUsers"`
	ActiveUsers         int            `json:"activeUsers"`
	TotalPartners       int            `json:"totalPartners"`
	PartnersByStatus    map[string]int `json:"partnersByStatus"`
	PendingApplications int            `json:"pendingApplications"`
	TrialsByStatus      map[string]int `json:"trialsByStatus"`
	QualifiedPartners   int            `json:"qualifiedPartners"`
	TotalServices       int            `json:"totalServices"`
	ActiveServices      int            `json:"activeServices"`
}
