// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skillbridge/skillbridge_backend/models"
)

// RequireUserType is the single authorization guard invoked at the routing
// layer, parameterized by the roles a route group requires
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Get user type from context or token
			userType := ExtractUserType(c)

			// If no user type found, deny access
			if userType == "" {
				c.Logger().Error("Authentication failed: user type not found")
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: user type not found",
				})
			}

			// Check if user type is allowed
			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for user type: %s, allowed types: %v", userType, allowedTypes)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

// RequirePartnerOrAdmin grants access to admins and to the partner account
// that owns the :id route parameter. Partner ownership is resolved by the
// handler; this guard only narrows the user types.
func RequirePartnerOrAdmin() echo.MiddlewareFunc {
	return RequireUserType("partner", "admin")
}

// DebugMiddleware prints token info for debugging
func DebugMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims != nil {
				c.Logger().Infof("User ID: %s, User Type: %s, Email: %s",
					claims.UserID, claims.UserType, claims.Email)
			} else {
				c.Logger().Info("No user claims found")
			}
			return next(c)
		}
	}
}
