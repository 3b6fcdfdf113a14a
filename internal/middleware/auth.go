package middleware

import (
	"net/http"
	"strings"

	"cmms-service/internal/scope"
	"cmms-service/pkg/jwtutil"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PrincipalKey is the echo context key carrying the authenticated principal
const PrincipalKey = "principal"

// AuthMiddleware validates the JWT token from the Authorization header and
// builds the request principal used by the tenant resolver and role gate
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		principal := &scope.Principal{
			UserID:          claims.UserID,
			Email:           claims.Email,
			PrimaryTenantID: claims.TenantID,
			IsSuperAdmin:    claims.IsSuperAdmin,
		}
		if claims.Role != "" {
			principal.Roles = []string{claims.Role}
		}

		// Store principal info in context for later use
		c.Set(PrincipalKey, principal)
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		if claims.TenantID != nil {
			log.Debug("Request authenticated with tenant context",
				zap.Uint("tenant_id", *claims.TenantID),
				zap.String("tenant_name", claims.TenantName),
				zap.String("role", claims.Role))
		}

		return next(c)
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware, or nil
func PrincipalFrom(c echo.Context) *scope.Principal {
	principal, ok := c.Get(PrincipalKey).(*scope.Principal)
	if !ok {
		return nil
	}
	return principal
}
