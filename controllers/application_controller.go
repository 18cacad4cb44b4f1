// controllers/application_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/lifecycle"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/repositories"
	"github.com/skillbridge/skillbridge_backend/utils"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// ApplicationController handles admin review of partner applications
type ApplicationController struct {
	DB   *mongo.Client
	Repo *repositories.PartnerRepository
	Hub  *websocket.Hub
}

// NewApplicationController creates a new application controller
func NewApplicationController(db *mongo.Client, hub *websocket.Hub) *ApplicationController {
	return &ApplicationController{
		DB:   db,
		Repo: repositories.NewPartnerRepository(db),
		Hub:  hub,
	}
}

// ListPending returns applications awaiting a decision, oldest first
func (apc *ApplicationController) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": bson.M{"$in": []string{lifecycle.ApplicationSubmitted, lifecycle.ApplicationUnderReview}}}
	opts := options.Find().SetSort(bson.D{{Key: "applicationDate", Value: 1}})
	cursor, err := config.GetCollection(apc.DB, "partner_applications").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list applications",
		})
	}
	defer cursor.Close(ctx)

	applications := []models.PartnerApplication{}
	if err := cursor.All(ctx, &applications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode applications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending applications retrieved",
		Data:    applications,
	})
}

// Review records an admin decision on an application. The review date is set
// the first time the application leaves the pending pair and never rewritten.
func (apc *ApplicationController) Review(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing authentication claims",
		})
	}
	reviewerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
		})
	}

	var req models.ApplicationReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	req.RejectionReason = utils.SanitizeInput(req.RejectionReason)
	req.AdminNotes = utils.SanitizeInput(req.AdminNotes)

	application, err := apc.Repo.ReviewApplication(ctx, applicationID, reviewerID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Application not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to review application",
		})
	}

	apc.notifyPartner(ctx, application)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application reviewed",
		Data:    application,
	})
}

// Reconsider reopens a rejected application to under_review without touching
// its original dates
func (apc *ApplicationController) Reconsider(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
		})
	}

	application, err := apc.Repo.ReconsiderApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Application not found",
			})
		}
		if strings.Contains(err.Error(), "cannot be reconsidered") {
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reconsider application",
		})
	}

	apc.notifyPartner(ctx, application)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application reopened for review",
		Data:    application,
	})
}

// notifyPartner pushes the review result to the partner's websocket session
func (apc *ApplicationController) notifyPartner(ctx context.Context, application *models.PartnerApplication) {
	partner, err := apc.Repo.GetPartnerByID(ctx, application.PartnerID)
	if err != nil {
		return
	}
	payload := map[string]interface{}{
		"applicationId": application.ID.Hex(),
		"version":       application.Version,
		"status":        application.Status,
	}
	if application.RejectionReason != "" {
		payload["rejectionReason"] = application.RejectionReason
	}
	if err := apc.Hub.NotifyApplicationReviewed(partner.UserID, payload); err == nil {
		return
	}
	// Partner offline; the in-app notification still lands
	_ = utils.SaveNotification(apc.DB, partner.UserID,
		"Application "+application.Status,
		"Your partner application is now "+application.Status,
		websocket.NotificationTypeApplicationReviewed, payload)
}
