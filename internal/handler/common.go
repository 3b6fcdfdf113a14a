package handler

import (
	"errors"
	"net/http"

	"cmms-service/internal/middleware"
	"cmms-service/internal/notify"
	"cmms-service/internal/role"
	"cmms-service/internal/scope"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	notifier      *notify.Dispatcher
	settingsStore *notify.SettingsStore
)

// Init wires the handler package to its collaborators. Called once from
// main before routes are served.
func Init(dispatcher *notify.Dispatcher, settings *notify.SettingsStore) {
	notifier = dispatcher
	settingsStore = settings
}

// requestScope resolves the tenant scope for the request principal. On
// failure the HTTP response has already been written and the returned
// error is non-nil.
func requestScope(c echo.Context) (scope.Scope, *scope.Principal, error) {
	log := logger.FromContext(c)

	principal := middleware.PrincipalFrom(c)
	sc, err := scope.Resolve(principal)
	if err != nil {
		log.Error("Failed to resolve tenant scope", zap.Error(err))
		prometheus.RecordAuthError("unresolved_scope")
		return scope.Scope{}, nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return sc, principal, nil
}

// requireRole gates the request on the role hierarchy. On denial the HTTP
// response has already been written and the returned error is non-nil.
func requireRole(c echo.Context, principal *scope.Principal, required ...string) error {
	log := logger.FromContext(c)

	if principal.IsSuperAdmin {
		return nil
	}

	allowed, err := role.Authorize(principal.Roles, required...)
	if err != nil {
		log.Error("Role check failed", zap.Error(err))
		prometheus.RecordAuthError("unknown_role")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role configuration error"})
	}
	if !allowed {
		log.Warn("Insufficient role for action",
			zap.Uint("user_id", principal.UserID),
			zap.Strings("held", principal.Roles),
			zap.Strings("required", required))
		prometheus.RecordAuthError("insufficient_role")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}
	return nil
}

// scopeError translates a tenant mismatch into its HTTP response
func scopeError(c echo.Context, err error) error {
	log := logger.FromContext(c)
	if errors.Is(err, scope.ErrTenantMismatch) {
		log.Warn("Cross-tenant access attempt", zap.Error(err))
		prometheus.RecordAuthError("tenant_mismatch")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	log.Error("Scope check failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
