// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/middleware"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/utils"
)

// AuthController handles signup, login and password recovery
type AuthController struct {
	DB *mongo.Client
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{DB: db}
}

// Signup registers a new buyer or partner account
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number",
		})
	}

	usersCollection := config.GetCollection(ac.DB, "users")

	// Reject duplicate emails before attempting the insert
	count, err := usersCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing accounts",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Email:          email,
		Password:       string(hashedPassword),
		FullName:       utils.SanitizeInput(req.FullName),
		UserType:       req.UserType,
		Phone:          phone,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := usersCollection.InsertOne(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data:    user,
	})
}

// Login authenticates a user and returns a JWT
func (ac *AuthController) Login(c echo.Context) error {
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
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up account",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account is inactive",
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

	// Remember-me keeps an encrypted credential blob in redis for 30 days
	if req.RememberMe {
		rememberToken, err := utils.GenerateRememberMeToken()
		if err == nil {
			credentials := utils.RememberedCredentials{
				Email:      user.Email,
				UserType:   user.UserType,
				UserID:     user.ID.Hex(),
				ExpiresAt:  time.Now().Add(30 * 24 * time.Hour),
				DeviceInfo: c.Request().UserAgent(),
			}
			if err := utils.StoreRememberedCredentials(config.GetRedisClient(), rememberToken, credentials, 30*24*time.Hour); err != nil {
				log.Printf("Failed to store remember-me token: %v", err)
			} else {
				data.RememberToken = rememberToken
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// LoginWithRememberToken exchanges a stored remember-me token for a fresh JWT
func (ac *AuthController) LoginWithRememberToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		RememberToken string `json:"rememberToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.RememberToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing remember-me token",
		})
	}

	credentials, err := utils.RetrieveRememberedCredentials(config.GetRedisClient(), req.RememberToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember-me token",
		})
	}

	userID, err := primitive.ObjectIDFromHex(credentials.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid remember-me token",
		})
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil || !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account not found or inactive",
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
		Token:         token,
		RefreshToken:  refreshToken,
		RememberToken: req.RememberToken,
		User:          user,
	}
	data.User.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// Logout blacklists the presented token
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		middleware.BlacklistToken(token, time.Now().Add(72*time.Hour))
	}

	if rememberToken := c.QueryParam("rememberToken"); rememberToken != "" {
		if err := utils.RemoveRememberedCredentials(config.GetRedisClient(), rememberToken); err != nil {
			log.Printf("Failed to remove remember-me token: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// ValidateToken lets the frontend check session validity
func (ac *AuthController) ValidateToken(c echo.Context) error {
	result, err := utils.ValidateTokenFromHeader(c.Request().Header.Get("Authorization"), ac.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to validate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: result.Message,
		Data:    result,
	})
}

// ForgotPassword generates an OTP, stores it in redis and emails it
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ForgotPasswordRequest
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
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		// Do not leak which emails exist
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the account exists, a reset code has been sent",
		})
	}

	if err := utils.ValidateOTPAttempts(user.ID.Hex(), config.GetRedisClient()); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many reset attempts. Try again later.",
		})
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate reset code",
		})
	}

	if err := utils.StoreOTP(config.GetRedisClient(), email, otp); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store reset code",
		})
	}

	go func() {
		body := "Your password reset code is: " + otp + "\n\nThe code expires in 10 minutes."
		if err := utils.SendEmail(email, "Password Reset Code", body); err != nil {
			log.Printf("Failed to send reset email: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "If the account exists, a reset code has been sent",
	})
}

// VerifyOTPAndResetPassword consumes the OTP and sets the new password
func (ac *AuthController) VerifyOTPAndResetPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ResetPasswordRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	if err := utils.VerifyOTP(config.GetRedisClient(), email, req.OTP); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired reset code",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	// A fresh reset token invalidates any previously issued reset links
	result, err := config.GetCollection(ac.DB, "users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"password":           string(hashedPassword),
			"resetPasswordToken": uuid.NewString(),
			"updatedAt":          time.Now(),
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Account not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}
