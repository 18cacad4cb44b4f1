package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/controllers"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// RegisterPartnerRoutes sets up onboarding and the partner-facing routes
func RegisterPartnerRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	partnerController := controllers.NewPartnerController(db, hub)
	serviceController := controllers.NewServiceController(db)
	notificationController := controllers.NewNotificationController(db)

	// Any authenticated account may apply to become a partner
	apply := e.Group("/api/partners")
	apply.Use(middleware.JWTMiddleware())
	apply.Use(middleware.ActivityTracker(db))
	apply.POST("/apply", partnerController.Apply)

	// Partner self-service routes
	partner := e.Group("/api/partners/me")
	partner.Use(middleware.JWTMiddleware())
	partner.Use(middleware.ActivityTracker(db))
	partner.Use(middleware.RequirePartnerOrAdmin())
	partner.GET("", partnerController.GetProfile)
	partner.GET("/application", partnerController.GetApplication)
	partner.GET("/trials", partnerController.GetTrials)
	partner.GET("/assignments", partnerController.GetAssignments)
	partner.POST("/logo", partnerController.UploadLogo)

	// Same views addressed by partner ID; resolvePartnerID enforces that the
	// caller is an admin or the owning partner
	byID := e.Group("/api/partners/:id")
	byID.Use(middleware.JWTMiddleware())
	byID.Use(middleware.ActivityTracker(db))
	byID.Use(middleware.RequirePartnerOrAdmin())
	byID.GET("", partnerController.GetProfile)
	byID.GET("/application", partnerController.GetApplication)
	byID.GET("/trials", partnerController.GetTrials)
	byID.GET("/assignments", partnerController.GetAssignments)

	// Public service catalog
	e.GET("/api/services", serviceController.ListServices)

	// Notifications for any authenticated account
	notifications := e.Group("/api/notifications")
	notifications.Use(middleware.JWTMiddleware())
	notifications.GET("", notificationController.ListNotifications)
	notifications.PUT("/:id/read", notificationController.MarkRead)
	notifications.PUT("/read-all", notificationController.MarkAllRead)
}
