// models/trial_service.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrialService is one trial engagement assigned to a partner during the
// trial_period stage. Ratings and OnTimeDelivery are only present once the
// trial completes; consumers must not assume them otherwise.
type TrialService struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PartnerID        primitive.ObjectID `json:"partnerId" bson:"partnerId"`
	ServiceID        primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	Status           string             `json:"status" bson:"status"` // "assigned", "in_progress", "completed", "failed"
	AssignedDate     time.Time          `json:"assignedDate" bson:"assignedDate"`
	CompletionDate   *time.Time         `json:"completionDate,omitempty" bson:"completionDate,omitempty"`
	QualityRating    *int               `json:"qualityRating,omitempty" bson:"qualityRating,omitempty"`   // 1-5
	ResponseRating   *int               `json:"responseRating,omitempty" bson:"responseRating,omitempty"` // 1-5
	OnTimeDelivery   *bool              `json:"onTimeDelivery,omitempty" bson:"onTimeDelivery,omitempty"`
	CustomerFeedback string             `json:"customerFeedback,omitempty" bson:"customerFeedback,omitempty"`
}

// AssignTrialRequest is the request body for assigning a trial service
type AssignTrialRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
}

// TrialOutcomeRequest is the request body for closing out a trial as
// completed. Failures only carry optional feedback.
type TrialOutcomeRequest struct {
	QualityRating    int    `json:"qualityRating" validate:"required,min=1,max=5"`
	ResponseRating   int    `json:"responseRating" validate:"required,min=1,max=5"`
	OnTimeDelivery   bool   `json:"onTimeDelivery"`
	CustomerFeedback string `json:"customerFeedback,omitempty"`
}
