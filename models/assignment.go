// models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServicePartnerAssignment links an approved partner to a service in the
// catalog. CommissionRate is a snapshot of lifecycle.CommissionRate taken at
// assignment time.
type ServicePartnerAssignment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PartnerID      primitive.ObjectID `json:"partnerId" bson:"partnerId"`
	ServiceID      primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	Status         string             `json:"status" bson:"status"` // "assigned", "available", "completed"
	CommissionRate float64            `json:"commissionRate" bson:"commissionRate"`
	AssignedDate   time.Time          `json:"assignedDate" bson:"assignedDate"`
}

// AddServiceRequest is the request body for a partner adding a service
type AddServiceRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
}
