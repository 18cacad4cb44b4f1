// controllers/notification_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/utils"
)

// NotificationController serves a user's in-app notifications
type NotificationController struct {
	DB *mongo.Client
}

// NewNotificationController creates a new notification controller
func NewNotificationController(db *mongo.Client) *NotificationController {
	return &NotificationController{DB: db}
}

func (nc *NotificationController) callerID(c echo.Context) (primitive.ObjectID, bool) {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

// ListNotifications returns the caller's notifications, newest first
func (nc *NotificationController) ListNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := nc.callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing authentication claims",
		})
	}

	filter := bson.M{"userId": userID}
	if c.QueryParam("unreadOnly") == "true" {
		filter["isRead"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := config.GetCollection(nc.DB, "notifications").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list notifications",
		})
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved",
		Data:    notifications,
	})
}

// MarkRead marks one notification as read
func (nc *NotificationController) MarkRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := nc.callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing authentication claims",
		})
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	result, err := config.GetCollection(nc.DB, "notifications").UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notification",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}

// MarkAllRead marks every unread notification for the caller as read
func (nc *NotificationController) MarkAllRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := nc.callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing authentication claims",
		})
	}

	result, err := config.GetCollection(nc.DB, "notifications").UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications marked as read",
		Data:    map[string]int64{"updated": result.ModifiedCount},
	})
}
