// controllers/trial_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/lifecycle"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/repositories"
	"github.com/skillbridge/skillbridge_backend/utils"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// TrialController handles admin management of trial services and the
// resulting qualification state
type TrialController struct {
	DB   *mongo.Client
	Repo *repositories.PartnerRepository
	Hub  *websocket.Hub
}

// NewTrialController creates a new trial controller
func NewTrialController(db *mongo.Client, hub *websocket.Hub) *TrialController {
	return &TrialController{
		DB:   db,
		Repo: repositories.NewPartnerRepository(db),
		Hub:  hub,
	}
}

// Assign gives a partner a new trial service. The gate allows assignment while
// the partner is short of the required count, or for retries after a failure
// within the retry allowance.
func (tc *TrialController) Assign(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	var req models.AssignTrialRequest
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

	serviceID, err := primitive.ObjectIDFromHex(req.ServiceID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	trial, err := tc.Repo.AssignTrialService(ctx, partnerID, serviceID)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Partner not found",
			})
		}
		if errors.Is(err, repositories.ErrNoTrialCapacity) {
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "Partner has no remaining trial capacity",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign trial service",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Trial service assigned",
		Data:    trial,
	})
}

// Start moves an assigned trial to in_progress
func (tc *TrialController) Start(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trialID, err := primitive.ObjectIDFromHex(c.Param("trialId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trial ID",
		})
	}

	trial, err := tc.Repo.StartTrial(ctx, trialID)
	if err != nil {
		if errors.Is(err, repositories.ErrTrialNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Trial not found or not in assigned state",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start trial",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trial started",
		Data:    trial,
	})
}

// Complete closes a trial as completed with its quality ratings and returns
// the refreshed qualification summary
func (tc *TrialController) Complete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trialID, err := primitive.ObjectIDFromHex(c.Param("trialId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trial ID",
		})
	}

	var req models.TrialOutcomeRequest
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
	req.CustomerFeedback = utils.SanitizeInput(req.CustomerFeedback)

	return tc.recordOutcome(ctx, c, trialID, lifecycle.TrialCompleted, &req, "")
}

// Fail closes a trial as failed with optional feedback
func (tc *TrialController) Fail(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trialID, err := primitive.ObjectIDFromHex(c.Param("trialId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trial ID",
		})
	}

	var req struct {
		CustomerFeedback string `json:"customerFeedback,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	return tc.recordOutcome(ctx, c, trialID, lifecycle.TrialFailed, nil, utils.SanitizeInput(req.CustomerFeedback))
}

func (tc *TrialController) recordOutcome(ctx context.Context, c echo.Context, trialID primitive.ObjectID, status string, outcome *models.TrialOutcomeRequest, feedback string) error {
	trial, err := tc.Repo.RecordTrialOutcome(ctx, trialID, status, outcome, feedback)
	if err != nil {
		if errors.Is(err, repositories.ErrTrialNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Trial not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record trial outcome",
		})
	}

	trials, err := tc.Repo.GetTrialServices(ctx, trial.PartnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to refresh trial summary",
		})
	}
	summary := tc.Repo.SummarizeTrials(trials)

	// Qualification never promotes automatically; the summary tells the admin
	// the partner is ready for an explicit approval
	if partner, perr := tc.Repo.GetPartnerByID(ctx, trial.PartnerID); perr == nil {
		payload := map[string]interface{}{
			"trialId": trial.ID.Hex(),
			"status":  trial.Status,
			"summary": summary,
		}
		if err := tc.Hub.NotifyTrialOutcome(partner.UserID, payload); err != nil {
			_ = utils.SaveNotification(tc.DB, partner.UserID,
				"Trial "+trial.Status,
				"A trial service outcome has been recorded",
				websocket.NotificationTypeTrialOutcome, payload)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trial outcome recorded",
		Data: map[string]interface{}{
			"trial":   trial,
			"summary": summary,
		},
	})
}
