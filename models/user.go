// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model. A user is a buyer, a partner account, or an admin; partner
// accounts link to their Partner document via PartnerID.
type User struct {
	ID                  primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Email               string              `json:"email" bson:"email"`
	Password            string              `json:"password,omitempty" bson:"password"`
	FullName            string              `json:"fullName" bson:"fullName"`
	UserType            string              `json:"userType" bson:"userType"` // "buyer", "partner", "admin"
	IsActive            bool                `json:"isActive" bson:"isActive"`
	Phone               string              `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePic          string              `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	PartnerID           *primitive.ObjectID `json:"partnerId,omitempty" bson:"partnerId,omitempty"`
	ResetPasswordToken  string              `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetTokenExpiresAt time.Time           `json:"-" bson:"resetTokenExpiresAt,omitempty"`
	LastActivityAt      time.Time           `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// AuthRequest models
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	UserType string `json:"userType" validate:"required,oneof=buyer partner"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// LoginData is the payload returned on successful authentication
type LoginData struct {
	Token         string `json:"token"`
	RefreshToken  string `json:"refreshToken,omitempty"`
	RememberToken string `json:"rememberToken,omitempty"`
	User          User   `json:"user"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
