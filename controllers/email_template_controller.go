// controllers/email_template_controller.go
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

// EmailTemplateController manages admin email templates and their delivery
type EmailTemplateController struct {
	DB *mongo.Client
}

// NewEmailTemplateController creates a new email template controller
func NewEmailTemplateController(db *mongo.Client) *EmailTemplateController {
	return &EmailTemplateController{DB: db}
}

func (etc *EmailTemplateController) templates() *mongo.Collection {
	return config.GetCollection(etc.DB, "email_templates")
}

// ListTemplates returns all templates
func (etc *EmailTemplateController) ListTemplates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := etc.templates().Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list templates",
		})
	}
	defer cursor.Close(ctx)

	templates := []models.EmailTemplate{}
	if err := cursor.All(ctx, &templates); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode templates",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Templates retrieved",
		Data:    templates,
	})
}

// CreateTemplate adds a template. The variable list is derived from the
// subject and body when the request leaves it empty.
func (etc *EmailTemplateController) CreateTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.EmailTemplateRequest
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

	variables := utils.SanitizeStringArray(req.Variables)
	if len(variables) == 0 {
		variables = utils.TemplateVariables(req.Subject, req.Body)
	}

	now := time.Now()
	template := models.EmailTemplate{
		ID:        primitive.NewObjectID(),
		Name:      utils.SanitizeInput(req.Name),
		Subject:   req.Subject,
		Body:      req.Body,
		Variables: variables,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if _, err := etc.templates().InsertOne(ctx, template); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A template with this name already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create template",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Template created",
		Data:    template,
	})
}

// UpdateTemplate edits a template
func (etc *EmailTemplateController) UpdateTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid template ID",
		})
	}

	var req models.EmailTemplateRequest
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

	variables := utils.SanitizeStringArray(req.Variables)
	if len(variables) == 0 {
		variables = utils.TemplateVariables(req.Subject, req.Body)
	}

	set := bson.M{
		"name":      utils.SanitizeInput(req.Name),
		"subject":   req.Subject,
		"body":      req.Body,
		"variables": variables,
		"updatedAt": time.Now(),
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	after := options.After
	var updated models.EmailTemplate
	err = etc.templates().FindOneAndUpdate(ctx,
		bson.M{"_id": templateID},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Template not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update template",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Template updated",
		Data:    updated,
	})
}

// DeleteTemplate removes a template
func (etc *EmailTemplateController) DeleteTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid template ID",
		})
	}

	result, err := etc.templates().DeleteOne(ctx, bson.M{"_id": templateID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete template",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Template not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Template deleted",
	})
}

// RenderTemplate previews a template with the supplied variables without
// sending anything
func (etc *EmailTemplateController) RenderTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid template ID",
		})
	}

	var req models.RenderTemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var template models.EmailTemplate
	if err := etc.templates().FindOne(ctx, bson.M{"_id": templateID}).Decode(&template); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Template not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load template",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Template rendered",
		Data: map[string]string{
			"subject": utils.RenderTemplate(template.Subject, req.Variables),
			"body":    utils.RenderTemplate(template.Body, req.Variables),
		},
	})
}

// SendTemplate renders a template and emails the result
func (etc *EmailTemplateController) SendTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid template ID",
		})
	}

	var req models.SendTemplateRequest
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

	to, err := utils.SanitizeEmail(req.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid recipient address",
		})
	}

	var template models.EmailTemplate
	if err := etc.templates().FindOne(ctx, bson.M{"_id": templateID, "isActive": true}).Decode(&template); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Template not found or inactive",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load template",
		})
	}

	if err := utils.SendTemplatedEmail(to, template.Subject, template.Body, req.Variables); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send email: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Email sent",
	})
}
