// models/partner_application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartnerApplication is one submitted application for a partner. Applications
// are versioned: a partner may apply more than once over time, and lookups
// resolve the highest version (most recent wins).
type PartnerApplication struct {
	ID              primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	PartnerID       primitive.ObjectID     `json:"partnerId" bson:"partnerId"`
	Version         int                    `json:"version" bson:"version"`
	Status          string                 `json:"status" bson:"status"` // "submitted", "under_review", "approved", "rejected"
	ApplicationDate time.Time              `json:"applicationDate" bson:"applicationDate"`
	ReviewDate      *time.Time             `json:"reviewDate,omitempty" bson:"reviewDate,omitempty"`
	ReviewedBy      primitive.ObjectID     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	RejectionReason string                 `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	AdminNotes      string                 `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`
	BusinessDetails map[string]interface{} `json:"businessDetails,omitempty" bson:"businessDetails,omitempty"`
}

// ApplicationReviewRequest is the request body for approving or rejecting an
// application
type ApplicationReviewRequest struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected under_review"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	AdminNotes      string `json:"adminNotes,omitempty"`
}
