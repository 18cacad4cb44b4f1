// controllers/partner_controller.go
package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/lifecycle"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/repositories"
	"github.com/skillbridge/skillbridge_backend/utils"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// PartnerController handles partner onboarding and the partner-facing views
type PartnerController struct {
	DB   *mongo.Client
	Repo *repositories.PartnerRepository
	Hub  *websocket.Hub
}

// NewPartnerController creates a new partner controller
func NewPartnerController(db *mongo.Client, hub *websocket.Hub) *PartnerController {
	return &PartnerController{
		DB:   db,
		Repo: repositories.NewPartnerRepository(db),
		Hub:  hub,
	}
}

// resolvePartnerID returns the partner the request targets. With an :id route
// parameter the caller must be an admin or the partner that owns it; without
// one the caller's own linked partner is used.
func (pc *PartnerController) resolvePartnerID(c echo.Context) (primitive.ObjectID, error) {
	user, err := utils.GetUserFromToken(c, pc.DB)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if idParam := c.Param("id"); idParam != "" {
		partnerID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			return primitive.NilObjectID, errors.New("invalid partner ID")
		}
		if user.UserType == "admin" || (user.PartnerID != nil && *user.PartnerID == partnerID) {
			return partnerID, nil
		}
		return primitive.NilObjectID, errors.New("partner not found")
	}

	if user.PartnerID == nil {
		return primitive.NilObjectID, errors.New("no partner profile for this account")
	}
	return *user.PartnerID, nil
}

// Apply submits a partner application. First call creates the partner profile
// in pending status along with application version 1; later calls add a new
// application version for the same partner.
func (pc *PartnerController) Apply(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing authentication claims",
		})
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	var req models.PartnerApplicationRequest
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

	contactEmail, err := utils.SanitizeEmail(req.ContactEmail)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid contact email",
		})
	}

	usersCollection := config.GetCollection(pc.DB, "users")
	var user models.User
	if err := usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	var partner *models.Partner
	if user.PartnerID != nil {
		partner, err = pc.Repo.GetPartnerByID(ctx, *user.PartnerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to load partner profile",
			})
		}
	} else {
		partner = &models.Partner{
			UserID:        userID,
			BusinessName:  utils.SanitizeInput(req.BusinessName),
			ContactName:   utils.SanitizeInput(req.ContactName),
			ContactEmail:  contactEmail,
			ContactPhone:  req.ContactPhone,
			PartnerType:   req.PartnerType,
			Website:       utils.SanitizeInput(req.Website),
			Bio:           utils.SanitizeInput(req.Bio),
			EmployeeCount: req.EmployeeCount,
		}
		if err := pc.Repo.CreatePartner(ctx, partner); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to create partner profile",
			})
		}
		_, err = usersCollection.UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"partnerId": partner.ID, "userType": "partner", "updatedAt": time.Now()}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to link partner profile",
			})
		}
	}

	details := utils.SanitizeDetails(req.BusinessDetails)
	application, err := pc.Repo.CreateApplication(ctx, partner.ID, details)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit application",
		})
	}

	go utils.NotifyAdminsOfApplication(pc.DB, *partner, *application)
	pc.Hub.NotifyApplicationSubmitted(map[string]interface{}{
		"partnerId":     partner.ID.Hex(),
		"applicationId": application.ID.Hex(),
		"businessName":  partner.BusinessName,
		"version":       application.Version,
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Application submitted successfully",
		Data: map[string]interface{}{
			"partner":     partner,
			"application": application,
		},
	})
}

// GetProfile returns a partner profile with its commission rate
func (pc *PartnerController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := pc.resolvePartnerID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	partner, err := pc.Repo.GetPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Partner not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load partner profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner profile retrieved",
		Data: map[string]interface{}{
			"partner":        partner,
			"commissionRate": lifecycle.CommissionRate(partner.PartnerType),
		},
	})
}

// GetApplication returns the most recent application version for the
// authenticated partner. A partner with no application yet gets an empty
// success payload rather than an error.
func (pc *PartnerController) GetApplication(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := pc.resolvePartnerID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	application, err := pc.Repo.GetLatestApplication(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "No application submitted yet",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load application",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application retrieved",
		Data:    application,
	})
}

// GetTrials returns the partner's trial services with the aggregated
// qualification summary
func (pc *PartnerController) GetTrials(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := pc.resolvePartnerID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	trials, err := pc.Repo.GetTrialServices(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load trial services",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trial services retrieved",
		Data: map[string]interface{}{
			"trials":  trials,
			"summary": pc.Repo.SummarizeTrials(trials),
		},
	})
}

// GetAssignments returns the partner's live service assignments
func (pc *PartnerController) GetAssignments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := pc.resolvePartnerID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	assignments, err := pc.Repo.GetAssignments(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load service assignments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service assignments retrieved",
		Data:    assignments,
	})
}

// UploadLogo stores the partner's logo and generates a thumbnail
func (pc *PartnerController) UploadLogo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := pc.resolvePartnerID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing logo file",
		})
	}

	if err := utils.ValidateImageFile(file.Filename); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	fileData, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	logoURL, err := utils.UploadPartnerLogo(fileData, file.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store logo: " + err.Error(),
		})
	}

	partnersCollection := config.GetCollection(pc.DB, "partners")
	_, err = partnersCollection.UpdateOne(ctx,
		bson.M{"_id": partnerID},
		bson.M{"$set": bson.M{"logo": logoURL, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to persist logo URL for partner %s: %v", partnerID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update partner profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logo uploaded successfully",
		Data:    map[string]string{"logo": logoURL},
	})
}
