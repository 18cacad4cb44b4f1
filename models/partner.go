// models/partner.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner represents a service provider on the marketplace. The commission
// rate is a pure function of PartnerType (see lifecycle.CommissionRate) and is
// deliberately not stored on the document.
type Partner struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	BusinessName  string             `json:"businessName" bson:"businessName"`
	ContactName   string             `json:"contactName" bson:"contactName"`
	ContactEmail  string             `json:"contactEmail" bson:"contactEmail"`
	ContactPhone  string             `json:"contactPhone" bson:"contactPhone"`
	PartnerType   string             `json:"partnerType" bson:"partnerType"` // "individual" or "agency"
	Status        string             `json:"status" bson:"status"`           // lifecycle status, see lifecycle package
	Website       string             `json:"website,omitempty" bson:"website,omitempty"`
	Bio           string             `json:"bio,omitempty" bson:"bio,omitempty"`
	EmployeeCount *int               `json:"employeeCount,omitempty" bson:"employeeCount,omitempty"` // agencies only
	LogoURL       string             `json:"logo,omitempty" bson:"logo,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PartnerApplicationRequest is the request body for partner onboarding
type PartnerApplicationRequest struct {
	BusinessName    string                 `json:"businessName" validate:"required"`
	ContactName     string                 `json:"contactName" validate:"required"`
	ContactEmail    string                 `json:"contactEmail" validate:"required,email"`
	ContactPhone    string                 `json:"contactPhone,omitempty"`
	PartnerType     string                 `json:"partnerType" validate:"required,oneof=individual agency"`
	Website         string                 `json:"website,omitempty"`
	Bio             string                 `json:"bio,omitempty"`
	EmployeeCount   *int                   `json:"employeeCount,omitempty"`
	BusinessDetails map[string]interface{} `json:"businessDetails,omitempty"`
}

// StatusUpdateRequest is the request body for an admin status change
type StatusUpdateRequest struct {
	Status    string `json:"status" validate:"required"`
	AdminNote string `json:"adminNote,omitempty"`
}

// StatusUpdateData is the payload returned from a status change. The partner
// field carries the authoritative persisted document; clients must render
// from it rather than from their pre-submission selection.
type StatusUpdateData struct {
	Partner   Partner `json:"partner"`
	Changed   bool    `json:"changed"`
	Warning   string  `json:"warning,omitempty"`
	AdminNote string  `json:"adminNote,omitempty"`
}

// PartnerFilter represents filters for admin partner listing
type PartnerFilter struct {
	Status      string `json:"status,omitempty"`
	PartnerType string `json:"partnerType,omitempty"`
	SearchTerm  string `json:"searchTerm,omitempty"`
}
