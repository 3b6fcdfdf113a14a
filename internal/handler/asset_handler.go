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

// ListAssets returns the assets visible under the caller's tenant scope
func ListAssets(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("asset", "list")

	sc, _, err := requestScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var assets []model.Asset
	if result := sc.Apply(database.GetDB()).Order("id").Find(&assets); result.Error != nil {
		log.Error("Failed to list assets", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve assets"})
	}

	return c.JSON(http.StatusOK, assets)
}

// GetAsset retrieves one asset, enforcing tenant visibility
func GetAsset(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("asset", "get")

	sc, _, err := requestScope(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var asset model.Asset
	if result := database.GetDB().First(&asset, id); result.Error != nil {
		log.Error("Asset not found", zap.Uint64("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
	}

	if err := sc.Check(asset.TenantID); err != nil {
		return scopeError(c, err)
	}

	return c.JSON(http.StatusOK, asset)
}

// CreateAsset creates an asset stamped with the caller's tenant
func CreateAsset(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("asset", "create")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Planner, role.ReliabilityEngineer); err != nil {
		return err
	}

	var req struct {
		Tag          string `json:"tag"`
		Name         string `json:"name"`
		Description  string `json:"description"`
		Location     string `json:"location"`
		Manufacturer string `json:"manufacturer"`
		SerialNumber string `json:"serial_number"`
		Criticality  int    `json:"criticality"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse asset request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Tag == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tag and name are required"})
	}

	asset := model.Asset{
		TenantID:     sc.ForWrite(),
		Tag:          req.Tag,
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Manufacturer: req.Manufacturer,
		SerialNumber: req.SerialNumber,
		Status:       model.AssetStatusOperational,
	}
	if req.Criticality > 0 {
		asset.Criticality = req.Criticality
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&asset); result.Error != nil {
		log.Error("Failed to create asset", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "asset creation failed"})
	}

	log.Info("Asset created", zap.String("tag", asset.Tag), zap.Uint("id", asset.ID))
	return c.JSON(http.StatusCreated, asset)
}

// UpdateAssetStatus transitions an asset's status
func UpdateAssetStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("asset", "update_status")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Technician); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	switch req.Status {
	case model.AssetStatusOperational, model.AssetStatusDown, model.AssetStatusMaintenance, model.AssetStatusRetired:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var asset model.Asset
	if result := database.GetDB().First(&asset, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
	}
	if err := sc.Check(asset.TenantID); err != nil {
		return scopeError(c, err)
	}

	if err := database.GetDB().Model(&asset).Update("status", req.Status).Error; err != nil {
		log.Error("Failed to update asset status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	log.Info("Asset status updated", zap.Uint("id", asset.ID), zap.String("status", req.Status))
	return c.JSON(http.StatusOK, echo.Map{"message": "Asset status updated"})
}

// DeleteAsset soft-deletes an asset
func DeleteAsset(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("asset", "delete")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Admin); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	var asset model.Asset
	if result := database.GetDB().First(&asset, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
	}
	if err := sc.Check(asset.TenantID); err != nil {
		return scopeError(c, err)
	}

	if err := database.GetDB().Delete(&asset).Error; err != nil {
		log.Error("Failed to delete asset", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	log.Info("Asset deleted", zap.Uint("id", asset.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Asset deleted"})
}
