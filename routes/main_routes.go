package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/controllers"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)

	RegisterAuthRoutes(e, db, authController)
	RegisterPartnerRoutes(e, db, hub)
	RegisterAdminRoutes(e, db, hub)
	RegisterWebSocketRoutes(e, hub)
}

// RegisterWebSocketRoutes sets up the JWT-protected websocket endpoint
func RegisterWebSocketRoutes(e *echo.Echo, hub *websocket.Hub) {
	ws := e.Group("/api/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
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
		return websocket.HandleWebSocket(c, hub, userID, claims.UserType)
	})
}
