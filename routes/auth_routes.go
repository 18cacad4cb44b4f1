package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillbridge/skillbridge_backend/controllers"
)

// RegisterAuthRoutes sets up authentication and public routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/remember-me", authController.LoginWithRememberToken)
	e.POST("/api/auth/logout", authController.Logout)
	e.GET("/api/auth/validate-token", authController.ValidateToken)
	e.POST("/api/auth/forgot-password", authController.ForgotPassword)
	e.POST("/api/auth/verify-otp-reset", authController.VerifyOTPAndResetPassword)
}
