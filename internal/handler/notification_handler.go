package handler

import (
	"net/http"
	"time"

	"cmms-service/internal/model"
	"cmms-service/internal/notify"
	"cmms-service/pkg/database"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetNotificationSettings returns the caller's notification preferences
func GetNotificationSettings(c echo.Context) error {
	log := logger.FromContext(c)

	_, principal, err := requestScope(c)
	if err != nil {
		return err
	}

	settings, err := settingsStore.SettingsFor(c.Request().Context(), principal.UserID)
	if err != nil {
		log.Error("Failed to load notification settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve settings"})
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateNotificationSettings saves the caller's notification preferences
// and invalidates the cached copy
func UpdateNotificationSettings(c echo.Context) error {
	log := logger.FromContext(c)

	_, principal, err := requestScope(c)
	if err != nil {
		return err
	}

	var req model.NotificationSettings
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse settings request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Settings always belong to the caller
	req.UserID = principal.UserID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := settingsStore.Save(c.Request().Context(), &req); err != nil {
		log.Error("Failed to save notification settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save settings"})
	}

	log.Info("Notification settings updated", zap.Uint("user_id", principal.UserID))
	return c.JSON(http.StatusOK, req)
}

// TestNotification dispatches a test event to the caller over the
// requested channel and returns the attempt outcome
func TestNotification(c echo.Context) error {
	log := logger.FromContext(c)

	_, principal, err := requestScope(c)
	if err != nil {
		return err
	}

	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Channel == "" {
		req.Channel = model.ChannelEmail
	}

	var user model.User
	if result := database.GetDB().First(&user, principal.UserID); result.Error != nil {
		log.Error("User not found", zap.Uint("user_id", principal.UserID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	event := notify.Event{
		Category: model.NotificationCategoryWorkOrders,
		Subject:  "Test notification",
		Body:     "This is a test notification from the maintenance service.",
	}

	attempt, err := notifier.Dispatch(c.Request().Context(), &user, event, req.Channel)
	if err != nil {
		log.Error("Failed to dispatch test notification", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	prometheus.RecordNotification(attempt.Channel, attempt.Status)
	return c.JSON(http.StatusOK, attempt)
}

// ListNotificationLog returns the caller's attempt history, newest first
func ListNotificationLog(c echo.Context) error {
	log := logger.FromContext(c)

	_, principal, err := requestScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var entries []model.NotificationLog
	if result := database.GetDB().
		Where("user_id = ?", principal.UserID).
		Order("created_at DESC").
		Limit(100).
		Find(&entries); result.Error != nil {
		log.Error("Failed to list notification log", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve log"})
	}

	return c.JSON(http.StatusOK, entries)
}
