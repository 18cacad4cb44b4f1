package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/models"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// NotifyAdminsOfApplication records an in-app notification for every admin
// account about a newly submitted partner application
func NotifyAdminsOfApplication(db *mongo.Client, partner models.Partner, application models.PartnerApplication) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(db, "users").Find(ctx, bson.M{"userType": "admin"})
	if err != nil {
		log.Printf("Failed to look up admins for application notification: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		log.Printf("Failed to decode admins for application notification: %v", err)
		return
	}

	title := "New Partner Application"
	message := fmt.Sprintf("%s has applied to become a partner (application v%d).", partner.BusinessName, application.Version)
	for _, admin := range admins {
		if err := SaveNotification(db, admin.ID, title, message, "application_submitted", map[string]interface{}{
			"partnerId":     partner.ID.Hex(),
			"applicationId": application.ID.Hex(),
			"version":       application.Version,
		}); err != nil {
			log.Printf("Failed to save admin notification: %v", err)
		}
	}
}

// NotifyPartnerOfStatusChange records an in-app notification for the partner
// account and emails the partner contact using the named email template when
// one is configured. Template failures are logged, never fatal.
func NotifyPartnerOfStatusChange(db *mongo.Client, partner models.Partner, newStatus string) {
	notifMsg := fmt.Sprintf("Your partner status is now %q.", newStatus)
	if partner.UserID != primitive.NilObjectID {
		if err := SaveNotification(db, partner.UserID, "Status Update", notifMsg, "partner_status_changed", map[string]interface{}{
			"partnerId": partner.ID.Hex(),
			"status":    newStatus,
		}); err != nil {
			log.Printf("Failed to save partner notification: %v", err)
		}
	}

	templateName := "partner_status_" + newStatus
	variables := map[string]string{
		"businessName": partner.BusinessName,
		"contactName":  partner.ContactName,
		"status":       newStatus,
	}
	if err := SendEmailFromTemplate(db, templateName, partner.ContactEmail, variables); err != nil {
		log.Printf("Status email not sent (template %q): %v", templateName, err)
	}
}

// SendEmailFromTemplate looks up an active template by name, renders it, and
// sends it to the recipient
func SendEmailFromTemplate(db *mongo.Client, templateName, to string, variables map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var template models.EmailTemplate
	err := config.GetCollection(db, "email_templates").FindOne(ctx, bson.M{
		"name":     templateName,
		"isActive": true,
	}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("no active template named %q", templateName)
		}
		return fmt.Errorf("failed to load template %q: %w", templateName, err)
	}

	return SendTemplatedEmail(to, template.Subject, template.Body, variables)
}
