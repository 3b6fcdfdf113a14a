package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cmms-service/internal/model"
	"cmms-service/internal/role"
	"cmms-service/internal/tenant"
	"cmms-service/pkg/database"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func membership() *tenant.Membership {
	return tenant.NewMembership(tenant.NewMappingStore(database.GetDB()))
}

// CreateTenant handles tenant creation. Only super-admins may create
// tenants; they are soft-disabled via status, never hard-deleted.
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("create")

	_, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin {
		log.Warn("Non-super-admin attempted tenant creation", zap.Uint("user_id", principal.UserID))
		prometheus.RecordAuthError("tenant_creation_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	// Parse request
	var req struct {
		Code         string `json:"code"`
		Name         string `json:"name"`
		MaxUsers     int    `json:"max_users,omitempty"`
		MaxAssets    int    `json:"max_assets,omitempty"`
		MaxDocuments int    `json:"max_documents,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant creation request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Code == "" || req.Name == "" {
		log.Error("Invalid tenant data", zap.String("code", req.Code), zap.String("name", req.Name))
		prometheus.RecordAuthError("incomplete_tenant_creation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name are required"})
	}

	tenant := model.Tenant{
		Code:   req.Code,
		Name:   req.Name,
		Status: model.TenantStatusActive,
	}
	if req.MaxUsers > 0 {
		tenant.MaxUsers = req.MaxUsers
	}
	if req.MaxAssets > 0 {
		tenant.MaxAssets = req.MaxAssets
	}
	if req.MaxDocuments > 0 {
		tenant.MaxDocuments = req.MaxDocuments
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&tenant); result.Error != nil {
		log.Error("Failed to create tenant", zap.Error(result.Error))
		prometheus.RecordAuthError("tenant_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
	}

	log.Info("Tenant created",
		zap.String("code", tenant.Code),
		zap.Uint("id", tenant.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant created successfully",
		"tenant":  tenant,
	})
}

// ListTenants retrieves tenants: all of them for super-admins, the
// caller's own tenant otherwise
func ListTenants(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("list")

	sc, _, err := requestScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenants []model.Tenant
	query := database.GetDB()
	if !sc.IsUnscoped() {
		query = query.Where("id = ?", sc.TenantID())
	}
	if result := query.Find(&tenants); result.Error != nil {
		log.Error("Failed to list tenants", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve tenants"})
	}

	return c.JSON(http.StatusOK, tenants)
}

// UpdateTenantStatus soft-disables or re-enables a tenant
func UpdateTenantStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("update_status")

	_, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin {
		prometheus.RecordAuthError("tenant_update_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid tenant ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	switch req.Status {
	case model.TenantStatusActive, model.TenantStatusInactive, model.TenantStatusSuspended, model.TenantStatusArchived:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(&model.Tenant{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		log.Error("Failed to update tenant status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	log.Info("Tenant status updated", zap.Uint64("id", id), zap.String("status", req.Status))
	return c.JSON(http.StatusOK, echo.Map{"message": "Tenant status updated"})
}

// AddUserToTenant opens a tenant-user mapping. Re-adding a removed user
// opens a fresh mapping row, preserving the closed one for audit history.
func AddUserToTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("add_user")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.TenantAdmin); err != nil {
		return err
	}

	var req struct {
		TenantID      uint   `json:"tenant_id"`
		UserEmail     string `json:"user_email"`
		IsTenantAdmin bool   `json:"is_tenant_admin"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse add user request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.TenantID == 0 || req.UserEmail == "" {
		prometheus.RecordAuthError("incomplete_tenant_user_add")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id and user_email are required"})
	}

	// Tenant admins may only manage their own tenant
	if !sc.IsUnscoped() && sc.TenantID() != req.TenantID {
		tid := req.TenantID
		return scopeError(c, sc.Check(&tid))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	// Find the user by email
	var user model.User
	if result := database.GetDB().Where("email = ?", req.UserEmail).First(&user); result.Error != nil {
		log.Error("User not found", zap.String("email", req.UserEmail))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	mapping, created, err := membership().Add(user.ID, req.TenantID, req.IsTenantAdmin)
	if err != nil {
		log.Error("Failed to add user to tenant", zap.Error(err))
		prometheus.RecordAuthError("tenant_user_add_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add user to tenant"})
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "User mapping updated",
			"mapping": mapping,
		})
	}

	log.Info("Added user to tenant",
		zap.Uint("tenant_id", req.TenantID),
		zap.String("user_email", req.UserEmail),
		zap.Bool("is_tenant_admin", req.IsTenantAdmin))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User added to tenant successfully",
		"mapping": mapping,
	})
}

// RemoveUserFromTenant closes the mapping by stamping RemovedDate. The row
// stays queryable for audit history and is never physically deleted here.
func RemoveUserFromTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("remove_user")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.TenantAdmin); err != nil {
		return err
	}

	tenantID, err := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	if err != nil {
		log.Error("Invalid tenant ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	targetUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		log.Error("Invalid user ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	if !sc.IsUnscoped() && sc.TenantID() != uint(tenantID) {
		tid := uint(tenantID)
		return scopeError(c, sc.Check(&tid))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := membership().Remove(uint(targetUserID), uint(tenantID), time.Now()); err != nil {
		if errors.Is(err, tenant.ErrNotMember) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found in this tenant"})
		}
		log.Error("Failed to remove user from tenant", zap.Error(err))
		prometheus.RecordAuthError("tenant_user_remove_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove user from tenant"})
	}

	log.Info("Removed user from tenant",
		zap.Uint64("tenant_id", tenantID),
		zap.Uint64("user_id", targetUserID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User removed from tenant successfully",
	})
}

// ListTenantUserHistory returns all mappings for a tenant including closed
// ones, for audit review
func ListTenantUserHistory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("user_history")

	sc, principal, err := requestScope(c)
	if err != nil {
		return err
	}
	if err := requireRole(c, principal, role.TenantAdmin); err != nil {
		return err
	}

	tenantID, err := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	if !sc.IsUnscoped() && sc.TenantID() != uint(tenantID) {
		tid := uint(tenantID)
		return scopeError(c, sc.Check(&tid))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	mappings, err := membership().History(uint(tenantID))
	if err != nil {
		log.Error("Failed to list tenant user history", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve mappings"})
	}

	return c.JSON(http.StatusOK, mappings)
}
