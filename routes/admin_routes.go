package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/controllers"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// RegisterAdminRoutes sets up the admin console routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	adminController := controllers.NewAdminController(db, hub)
	applicationController := controllers.NewApplicationController(db, hub)
	trialController := controllers.NewTrialController(db, hub)
	serviceController := controllers.NewServiceController(db)
	emailTemplateController := controllers.NewEmailTemplateController(db)

	admin := e.Group("/api/admin")

	// Public routes (no auth required)
	admin.POST("/login", adminController.Login)

	// Protected routes (require admin authentication)
	protected := admin.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.ActivityTracker(db))
	protected.Use(middleware.RequireUserType("admin"))

	// User management
	protected.GET("/users", adminController.ListUsers)
	protected.PUT("/users/:id/active", adminController.SetUserActive)

	// Partner management
	protected.GET("/partners", adminController.ListPartners)
	protected.GET("/partners/:id", adminController.GetPartner)
	protected.PUT("/partners/:id/status", adminController.UpdatePartnerStatus)
	protected.POST("/partners/:id/services", serviceController.AddPartnerService)

	// Application review
	protected.GET("/applications/pending", applicationController.ListPending)
	protected.PUT("/applications/:id/review", applicationController.Review)
	protected.PUT("/applications/:id/reconsider", applicationController.Reconsider)

	// Trial services
	protected.POST("/partners/:id/trials", trialController.Assign)
	protected.PUT("/trials/:trialId/start", trialController.Start)
	protected.PUT("/trials/:trialId/complete", trialController.Complete)
	protected.PUT("/trials/:trialId/fail", trialController.Fail)

	// Service catalog
	protected.POST("/services", serviceController.CreateService)
	protected.PUT("/services/:id", serviceController.UpdateService)
	protected.DELETE("/services/:id", serviceController.DeleteService)

	// Email templates
	protected.GET("/email-templates", emailTemplateController.ListTemplates)
	protected.POST("/email-templates", emailTemplateController.CreateTemplate)
	protected.PUT("/email-templates/:id", emailTemplateController.UpdateTemplate)
	protected.DELETE("/email-templates/:id", emailTemplateController.DeleteTemplate)
	protected.POST("/email-templates/:id/render", emailTemplateController.RenderTemplate)
	protected.POST("/email-templates/:id/send", emailTemplateController.SendTemplate)

	// Analytics
	protected.GET("/dashboard", adminController.GetDashboardStats)
}
