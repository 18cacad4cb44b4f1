package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/routes"
	"github.com/skillbridge/skillbridge_backend/utils"
	"github.com/skillbridge/skillbridge_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  false,
		AllowEval:      false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "SkillBridge Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Register all routes
	routes.SetupRoutes(e, client, wsHub)

	// Background maintenance
	go middleware.CleanupBlacklist()

	// Start the inactive user checker in a goroutine
	go func() {
		for {
			middleware.MarkInactiveUsers(client, 30*time.Minute)
			time.Sleep(5 * time.Minute)
		}
	}()

	// Ensure upload directories exist
	if err := utils.InitializeStorage(); err != nil {
		log.Printf("Warning: failed to initialize upload storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
