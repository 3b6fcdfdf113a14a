package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cmms-service/internal/model"
	"cmms-service/internal/notify"
	"cmms-service/internal/role"
	"cmms-service/pkg/database"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSpareParts returns spare parts visible under the caller's scope
func ListSpareParts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("spare_part", "list")

	sc, _, err := requestScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var parts []model.SparePart
	if result := sc.Apply(database.GetDB()).Order("id").Find(&parts); result.Error != nil {
		log.Error("Failed to list spare parts", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve spare parts"})
	}

	return c.JSON(http.StatusOK, parts)
}

// CreateSparePart adds an inventory item under the caller's tenant
func CreateSparePart(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("spare_part", "create")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Planner, role.Supervisor); err != nil {
		return err
	}

	var req struct {
		PartNumber  string  `json:"part_number"`
		Name        string  `json:"name"`
		Location    string  `json:"location"`
		Quantity    int     `json:"quantity"`
		MinQuantity int     `json:"min_quantity"`
		UnitCost    float64 `json:"unit_cost"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse spare part request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PartNumber == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "part_number and name are required"})
	}

	part := model.SparePart{
		TenantID:    sc.ForWrite(),
		PartNumber:  req.PartNumber,
		Name:        req.Name,
		Location:    req.Location,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitCost:    req.UnitCost,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&part); result.Error != nil {
		log.Error("Failed to create spare part", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "spare part creation failed"})
	}

	log.Info("Spare part created", zap.String("part_number", part.PartNumber), zap.Uint("id", part.ID))
	return c.JSON(http.StatusCreated, part)
}

// ConsumeSparePart decrements stock and raises a low-stock notification
// for the consuming user when the quantity crosses the minimum
func ConsumeSparePart(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("spare_part", "consume")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Technician); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spare part ID"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var part model.SparePart
	if result := database.GetDB().First(&part, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "spare part not found"})
	}
	if err := sc.Check(part.TenantID); err != nil {
		return scopeError(c, err)
	}
	if part.Quantity < req.Quantity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
	}

	newQuantity := part.Quantity - req.Quantity
	if err := database.GetDB().Model(&part).Update("quantity", newQuantity).Error; err != nil {
		log.Error("Failed to update spare part quantity", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	log.Info("Spare part consumed",
		zap.Uint("id", part.ID),
		zap.Int("consumed", req.Quantity),
		zap.Int("remaining", newQuantity))

	response := echo.Map{"quantity": newQuantity}

	if newQuantity <= part.MinQuantity {
		var user model.User
		if result := database.GetDB().First(&user, principal.UserID); result.Error == nil {
			event := notify.Event{
				Category: model.NotificationCategoryInventory,
				Subject:  "Low stock: " + part.Name,
				Body:     fmt.Sprintf("Part %s is down to %d (minimum %d)", part.PartNumber, newQuantity, part.MinQuantity),
			}
			if attempt, err := notifier.Dispatch(c.Request().Context(), &user, event, model.ChannelEmail); err == nil {
				prometheus.RecordNotification(attempt.Channel, attempt.Status)
				response["notification"] = attempt
			} else {
				log.Error("Failed to dispatch low-stock notification", zap.Error(err))
			}
		}
	}

	return c.JSON(http.StatusOK, response)
}
