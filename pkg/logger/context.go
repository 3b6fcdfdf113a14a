package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDKey = "X-Request-ID"

// FromContext retrieves the request-scoped logger placed by Middleware.
// Outside a request (or before the middleware ran) it falls back to the
// global logger tagged with the service name and whatever request ID the
// request carried.
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get("logger").(*zap.Logger); ok {
		return logger
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok {
		requestID = c.Request().Header.Get(RequestIDKey)
		if requestID == "" {
			requestID = "unknown"
		}
	}

	return GetLogger().With(
		zap.String("service", "cmms-service"),
		zap.String("request_id", requestID),
	)
}
