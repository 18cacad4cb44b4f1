// models/email_template.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailTemplate is an admin-managed email template. Subject and Body may
// reference variables as {{name}}; Variables lists the names the template
// expects so the console can prompt for them.
type EmailTemplate struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Subject   string             `json:"subject" bson:"subject"`
	Body      string             `json:"body" bson:"body"`
	Variables []string           `json:"variables,omitempty" bson:"variables,omitempty"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EmailTemplateRequest is the request body for creating or updating a template
type EmailTemplateRequest struct {
	Name      string   `json:"name" validate:"required"`
	Subject   string   `json:"subject" validate:"required"`
	Body      string   `json:"body" validate:"required"`
	Variables []string `json:"variables,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
}

// SendTemplateRequest is the request body for sending an email rendered from
// a template
type SendTemplateRequest struct {
	To        string            `json:"to" validate:"required,email"`
	Variables map[string]string `json:"variables,omitempty"`
}

// RenderTemplateRequest is the request body for previewing a rendered template
type RenderTemplateRequest struct {
	Variables map[string]string `json:"variables,omitempty"`
}
