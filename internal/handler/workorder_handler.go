package handler

import (
	"net/http"
	"strconv"
	"time"

	"cmms-service/internal/model"
	"cmms-service/internal/notify"
	"cmms-service/internal/role"
	"cmms-service/internal/scope"
	"cmms-service/pkg/database"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListWorkOrders returns the work orders visible under the caller's scope
func ListWorkOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "list")

	sc, _, err := requestScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.WorkOrder
	query := sc.Apply(database.GetDB())
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if result := query.Order("id").Find(&orders); result.Error != nil {
		log.Error("Failed to list work orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve work orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// CreateWorkOrder creates a work order and notifies the assignee, if any.
// The notification outcome never fails the request: a transport failure is
// recorded in the attempt log and returned as part of the response.
func CreateWorkOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "create")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Planner, role.Supervisor); err != nil {
		return err
	}

	var req struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		Priority     string     `json:"priority"`
		AssetID      *uint      `json:"asset_id,omitempty"`
		AssignedToID *uint      `json:"assigned_to_id,omitempty"`
		DueDate      *time.Time `json:"due_date,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse work order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Priority != "" && !model.ValidWorkOrderPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
	}

	// Referenced asset must be visible under the same scope
	if req.AssetID != nil {
		var asset model.Asset
		if result := database.GetDB().First(&asset, *req.AssetID); result.Error != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		if err := sc.Check(asset.TenantID); err != nil {
			return scopeError(c, err)
		}
	}

	// So is the assignee: a scoped caller may not reference or notify a
	// user from another tenant
	var assignee *model.User
	if req.AssignedToID != nil {
		var u model.User
		if result := database.GetDB().First(&u, *req.AssignedToID); result.Error != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignee not found"})
		}
		if err := assigneeVisible(sc, &u); err != nil {
			return scopeError(c, err)
		}
		assignee = &u
	}

	order := model.WorkOrder{
		TenantID:     sc.ForWrite(),
		Code:         "WO-" + uuid.New().String()[:8],
		Title:        req.Title,
		Description:  req.Description,
		Status:       model.WorkOrderStatusOpen,
		Priority:     model.WorkOrderPriorityMedium,
		AssetID:      req.AssetID,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
	}
	if req.Priority != "" {
		order.Priority = req.Priority
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&order); result.Error != nil {
		log.Error("Failed to create work order", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "work order creation failed"})
	}

	log.Info("Work order created",
		zap.String("code", order.Code),
		zap.Uint("id", order.ID),
		zap.String("priority", order.Priority))

	response := echo.Map{"work_order": order}

	if assignee != nil {
		if attempt := notifyAssignment(c, &order, assignee); attempt != nil {
			response["notification"] = attempt
		}
	}

	return c.JSON(http.StatusCreated, response)
}

// assigneeVisible validates that a work order's assignee belongs to the
// caller's tenant before the reference is stored or the user notified
func assigneeVisible(sc scope.Scope, assignee *model.User) error {
	return sc.Check(assignee.PrimaryTenantID)
}

// notifyAssignment dispatches a work-order-assigned notification to the
// already scope-checked assignee over email.
func notifyAssignment(c echo.Context, order *model.WorkOrder, assignee *model.User) *notify.Attempt {
	log := logger.FromContext(c)

	event := notify.Event{
		Category: model.NotificationCategoryWorkOrders,
		Subject:  "Work order assigned: " + order.Code,
		Body:     order.Title,
		Critical: order.Priority == model.WorkOrderPriorityCritical,
	}

	attempt, err := notifier.Dispatch(c.Request().Context(), assignee, event, model.ChannelEmail)
	if err != nil {
		log.Error("Failed to dispatch assignment notification", zap.Error(err))
		return nil
	}
	prometheus.RecordNotification(attempt.Channel, attempt.Status)
	return attempt
}

// UpdateWorkOrderStatus transitions a work order through its lifecycle
func UpdateWorkOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "update_status")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.Technician); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid work order ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	switch req.Status {
	case model.WorkOrderStatusOpen, model.WorkOrderStatusInProgress, model.WorkOrderStatusDone, model.WorkOrderStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var order model.WorkOrder
	if result := database.GetDB().First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "work order not found"})
	}
	if err := sc.Check(order.TenantID); err != nil {
		return scopeError(c, err)
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == model.WorkOrderStatusDone {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := database.GetDB().Model(&order).Updates(updates).Error; err != nil {
		log.Error("Failed to update work order status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	log.Info("Work order status updated",
		zap.Uint("id", order.ID),
		zap.String("status", req.Status))
	return c.JSON(http.StatusOK, echo.Map{"message": "Work order status updated"})
}
