// controllers/service_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/lifecycle"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/repositories"
	"github.com/skillbridge/skillbridge_backend/utils"
)

// ServiceController manages the service catalog and partner-service
// assignments
type ServiceController struct {
	DB   *mongo.Client
	Repo *repositories.PartnerRepository
}

// NewServiceController creates a new service controller
func NewServiceController(db *mongo.Client) *ServiceController {
	return &ServiceController{
		DB:   db,
		Repo: repositories.NewPartnerRepository(db),
	}
}

// ListServices returns the catalog. Non-admin callers only see active entries.
func (sc *ServiceController) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("includeInactive") != "true" {
		filter["isActive"] = true
	}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = utils.SanitizeInput(category)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := config.GetCollection(sc.DB, "services").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list services",
		})
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode services",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Services retrieved",
		Data:    services,
	})
}

// CreateService adds a catalog entry
func (sc *ServiceController) CreateService(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ServiceRequest
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

	now := time.Now()
	service := models.Service{
		ID:          primitive.NewObjectID(),
		Name:        utils.SanitizeInput(req.Name),
		Category:    utils.SanitizeInput(req.Category),
		Description: utils.SanitizeInput(req.Description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if _, err := config.GetCollection(sc.DB, "services").InsertOne(ctx, service); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create service",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service created",
		Data:    service,
	})
}

// UpdateService edits a catalog entry
func (sc *ServiceController) UpdateService(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	var req models.ServiceRequest
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

	set := bson.M{
		"name":        utils.SanitizeInput(req.Name),
		"category":    utils.SanitizeInput(req.Category),
		"description": utils.SanitizeInput(req.Description),
		"updatedAt":   time.Now(),
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	after := options.After
	var updated models.Service
	err = config.GetCollection(sc.DB, "services").FindOneAndUpdate(ctx,
		bson.M{"_id": serviceID},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update service",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service updated",
		Data:    updated,
	})
}

// DeleteService deactivates a catalog entry. Existing assignments keep their
// snapshot and are untouched.
func (sc *ServiceController) DeleteService(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	result, err := config.GetCollection(sc.DB, "services").UpdateOne(ctx,
		bson.M{"_id": serviceID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to deactivate service",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service deactivated",
	})
}

// AddPartnerService assigns a catalog service to an approved partner,
// snapshotting the commission rate from the partner type
func (sc *ServiceController) AddPartnerService(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	var req models.AddServiceRequest
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

	partner, err := sc.Repo.GetPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Partner not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load partner",
		})
	}
	if partner.Status != lifecycle.StatusApproved {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "Only approved partners can take on services",
		})
	}

	var service models.Service
	err = config.GetCollection(sc.DB, "services").FindOne(ctx, bson.M{"_id": serviceID, "isActive": true}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found or inactive",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load service",
		})
	}

	assignment, err := sc.Repo.AddServiceAssignment(ctx, partner, serviceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign service",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service assigned to partner",
		Data:    assignment,
	})
}
