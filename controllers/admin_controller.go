// controllers/admin_controller.go
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
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/lifecycle"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/repositories"
	"github.com/skillbridge/skillbridge_backend/utils"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// AdminController handles the admin console: partner management, status
// changes and dashboard analytics
type AdminController struct {
	DB   *mongo.Client
	Repo *repositories.PartnerRepository
	Hub  *websocket.Hub
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, hub *websocket.Hub) *AdminController {
	return &AdminController{
		DB:   db,
		Repo: repositories.NewPartnerRepository(db),
		Hub:  hub,
	}
}

// Login authenticates an admin account
func (ac *AdminController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"email": email, "userType": "admin"}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	data := models.LoginData{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	}
	data.User.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Admin login successful",
		Data:    data,
	})
}

// ListPartners returns partners filtered by status, type and search term
func (ac *AdminController) ListPartners(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerFilter := models.PartnerFilter{
		Status:      c.QueryParam("status"),
		PartnerType: c.QueryParam("partnerType"),
		SearchTerm:  utils.SanitizeInput(c.QueryParam("search")),
	}

	filter := bson.M{}
	if partnerFilter.Status != "" {
		if !lifecycle.IsValidStatus(partnerFilter.Status) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown partner status: " + partnerFilter.Status,
			})
		}
		filter["status"] = partnerFilter.Status
	}
	if partnerFilter.PartnerType != "" {
		if !lifecycle.IsValidPartnerType(partnerFilter.PartnerType) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown partner type: " + partnerFilter.PartnerType,
			})
		}
		filter["partnerType"] = partnerFilter.PartnerType
	}
	if partnerFilter.SearchTerm != "" {
		filter["$or"] = []bson.M{
			{"businessName": bson.M{"$regex": partnerFilter.SearchTerm, "$options": "i"}},
			{"contactName": bson.M{"$regex": partnerFilter.SearchTerm, "$options": "i"}},
			{"contactEmail": bson.M{"$regex": partnerFilter.SearchTerm, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(ac.DB, "partners").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list partners",
		})
	}
	defer cursor.Close(ctx)

	partners := []models.Partner{}
	if err := cursor.All(ctx, &partners); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode partners",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partners retrieved",
		Data:    partners,
	})
}

// GetPartner returns a single partner with its trial summary and latest
// application version
func (ac *AdminController) GetPartner(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	partner, err := ac.Repo.GetPartnerByID(ctx, partnerID)
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

	trials, err := ac.Repo.GetTrialServices(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load trial services",
		})
	}

	data := map[string]interface{}{
		"partner":        partner,
		"commissionRate": lifecycle.CommissionRate(partner.PartnerType),
		"trials":         trials,
		"trialSummary":   ac.Repo.SummarizeTrials(trials),
	}

	application, err := ac.Repo.GetLatestApplication(ctx, partnerID)
	if err == nil {
		data["application"] = application
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load application",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner retrieved",
		Data:    data,
	})
}

// UpdatePartnerStatus applies a lifecycle transition to a partner. Illegal
// transitions are rejected with the blocking reason; a same-status request
// succeeds without writing. The response always carries the persisted
// document so the console renders the authoritative state.
func (ac *AdminController) UpdatePartnerStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	partnerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	var req models.StatusUpdateRequest
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
	if !lifecycle.IsValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown partner status: " + req.Status,
		})
	}

	partner, changed, err := ac.Repo.UpdatePartnerStatus(ctx, partnerID, req.Status)
	if err != nil {
		var transitionErr *lifecycle.TransitionError
		if errors.As(err, &transitionErr) {
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: transitionErr.Error(),
			})
		}
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Partner not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update partner status",
		})
	}

	data := models.StatusUpdateData{
		Partner:   *partner,
		Changed:   changed,
		Warning:   lifecycle.EntryWarning(partner.Status),
		AdminNote: utils.SanitizeInput(req.AdminNote),
	}

	if changed {
		go utils.NotifyPartnerOfStatusChange(ac.DB, *partner, partner.Status)
		ac.Hub.NotifyPartnerStatusChange(map[string]interface{}{
			"partnerId":    partner.ID.Hex(),
			"businessName": partner.BusinessName,
			"status":       partner.Status,
		})
	}

	message := "Partner status updated"
	if !changed {
		message = "Partner already in requested status"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// ListUsers returns all accounts for the admin console
func (ac *AdminController) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if userType := c.QueryParam("userType"); userType != "" {
		filter["userType"] = userType
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})
	cursor, err := config.GetCollection(ac.DB, "users").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved",
		Data:    users,
	})
}

// SetUserActive activates or deactivates an account
func (ac *AdminController) SetUserActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	result, err := config.GetCollection(ac.DB, "users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isActive": req.IsActive, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated",
	})
}

// GetDashboardStats aggregates counts for the admin dashboard
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stats := models.DashboardStats{
		PartnersByStatus: map[string]int{},
		TrialsByStatus:   map[string]int{},
	}

	usersCollection := config.GetCollection(ac.DB, "users")
	totalUsers, err := usersCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate dashboard stats",
		})
	}
	stats.TotalUsers = int(totalUsers)

	activeUsers, err := usersCollection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate dashboard stats",
		})
	}
	stats.ActiveUsers = int(activeUsers)

	if err := ac.countByField(ctx, "partners", "status", stats.PartnersByStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate partner stats",
		})
	}
	for _, n := range stats.PartnersByStatus {
		stats.TotalPartners += n
	}

	if err := ac.countByField(ctx, "trial_services", "status", stats.TrialsByStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate trial stats",
		})
	}

	pendingApps, err := config.GetCollection(ac.DB, "partner_applications").CountDocuments(ctx,
		bson.M{"status": bson.M{"$in": []string{lifecycle.ApplicationSubmitted, lifecycle.ApplicationUnderReview}}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate application stats",
		})
	}
	stats.PendingApplications = int(pendingApps)

	stats.QualifiedPartners, err = ac.countQualifiedPartners(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate qualification stats",
		})
	}

	servicesCollection := config.GetCollection(ac.DB, "services")
	totalServices, err := servicesCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate service stats",
		})
	}
	stats.TotalServices = int(totalServices)

	activeServices, err := servicesCollection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate service stats",
		})
	}
	stats.ActiveServices = int(activeServices)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved",
		Data:    stats,
	})
}

// countByField groups a collection by a field and fills the counts map
func (ac *AdminController) countByField(ctx context.Context, collection, field string, counts map[string]int) error {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := config.GetCollection(ac.DB, collection).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}
	for _, r := range results {
		counts[r.ID] = r.Count
	}
	return nil
}

// countQualifiedPartners counts partners whose completed trials meet the
// qualification threshold
func (ac *AdminController) countQualifiedPartners(ctx context.Context) (int, error) {
	required := ac.Repo.TrialConfig().RequiredTrials
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": lifecycle.TrialCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": "$partnerId", "completed": bson.M{"$sum": 1}}}},
		{{Key: "$match", Value: bson.M{"completed": bson.M{"$gte": required}}}},
		{{Key: "$count", Value: "qualified"}},
	}
	cursor, err := config.GetCollection(ac.DB, "trial_services").Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Qualified int `bson:"qualified"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Qualified, nil
}
