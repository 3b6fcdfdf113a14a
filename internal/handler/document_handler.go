package handler

import (
	"net/http"
	"strconv"
	"time"

	"cmms-service/internal/model"
	"cmms-service/internal/role"
	"cmms-service/pkg/database"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListDocuments returns the documents visible under the caller's scope
func ListDocuments(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("document", "list")

	sc, _, err := requestScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var documents []model.Document
	query := sc.Apply(database.GetDB())
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if result := query.Order("id").Find(&documents); result.Error != nil {
		log.Error("Failed to list documents", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve documents"})
	}

	return c.JSON(http.StatusOK, documents)
}

// CreateDocument registers a document reference under the caller's tenant
func CreateDocument(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("document", "create")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Supervisor); err != nil {
		return err
	}

	var req struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Path     string `json:"path"`
		AssetID  *uint  `json:"asset_id,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse document request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	document := model.Document{
		TenantID: sc.ForWrite(),
		Name:     req.Name,
		Category: req.Category,
		Path:     req.Path,
		AssetID:  req.AssetID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&document); result.Error != nil {
		log.Error("Failed to create document", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "document creation failed"})
	}

	log.Info("Document created", zap.String("name", document.Name), zap.Uint("id", document.ID))
	return c.JSON(http.StatusCreated, document)
}

// DeleteDocument soft-deletes a document reference
func DeleteDocument(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("document", "delete")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Admin); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid document ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	var document model.Document
	if result := database.GetDB().First(&document, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
	}
	if err := sc.Check(document.TenantID); err != nil {
		return scopeError(c, err)
	}

	if err := database.GetDB().Delete(&document).Error; err != nil {
		log.Error("Failed to delete document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	log.Info("Document deleted", zap.Uint("id", document.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Document deleted"})
}
