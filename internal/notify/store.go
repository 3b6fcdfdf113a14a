package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cmms-service/internal/model"
	"cmms-service/pkg/cache"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingsStore loads per-user notification settings from the database
// through a Redis read-through cache. Updates write the database and drop
// the cached copy. A missing row falls back to channel defaults so a user
// without saved preferences still receives email.
type SettingsStore struct {
	db    *gorm.DB
	cache *cache.Client
	log   *zap.Logger
}

// NewSettingsStore creates the settings store. cache may be nil, in which
// case every lookup hits the database.
func NewSettingsStore(db *gorm.DB, cacheClient *cache.Client, log *zap.Logger) *SettingsStore {
	return &SettingsStore{db: db, cache: cacheClient, log: log}
}

func settingsKey(userID uint) string {
	return fmt.Sprintf("notification_settings:%d", userID)
}

// SettingsFor implements SettingsSource
func (s *SettingsStore) SettingsFor(ctx context.Context, userID uint) (*model.NotificationSettings, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, settingsKey(userID)); err == nil {
			var settings model.NotificationSettings
			if err := json.Unmarshal([]byte(cached), &settings); err == nil {
				return &settings, nil
			}
		} else if !cache.IsMiss(err) {
			// Cache trouble is not fatal; fall through to the database
			s.log.Warn("Settings cache read failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	var settings model.NotificationSettings
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			settings = defaultSettings(userID)
		} else {
			return nil, result.Error
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(&settings); err == nil {
			if err := s.cache.Set(ctx, settingsKey(userID), string(data)); err != nil {
				s.log.Warn("Settings cache write failed", zap.Uint("user_id", userID), zap.Error(err))
			}
		}
	}

	return &settings, nil
}

// Save persists settings and invalidates the cached copy
func (s *SettingsStore) Save(ctx context.Context, settings *model.NotificationSettings) error {
	var existing model.NotificationSettings
	result := s.db.WithContext(ctx).Where("user_id = ?", settings.UserID).First(&existing)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		if err := s.db.WithContext(ctx).Create(settings).Error; err != nil {
			return err
		}
	} else {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
		if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
			return err
		}
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, settingsKey(settings.UserID)); err != nil {
			s.log.Warn("Settings cache invalidation failed",
				zap.Uint("user_id", settings.UserID), zap.Error(err))
		}
	}
	return nil
}

func defaultSettings(userID uint) model.NotificationSettings {
	return model.NotificationSettings{
		UserID:          userID,
		EmailEnabled:    true,
		EmailWorkOrders: true,
		EmailInventory:  true,
		EmailAssets:     true,
	}
}

// GormLogStore appends attempt records to the notification log table
type GormLogStore struct {
	db *gorm.DB
}

// NewLogStore creates the GORM-backed log store
func NewLogStore(db *gorm.DB) *GormLogStore {
	return &GormLogStore{db: db}
}

// Append implements LogStore. Entries are insert-only.
func (s *GormLogStore) Append(entry *model.NotificationLog) error {
	return s.db.Create(entry).Error
}
