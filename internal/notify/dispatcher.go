// Package notify evaluates a user's notification preferences and performs
// a single synchronous delivery attempt per call. Every attempt ends in a
// terminal state (sent, failed or skipped) and is recorded as an
// insert-only log row; retry is the caller's responsibility via a fresh
// attempt.
package notify

import (
	"context"
	"fmt"
	"time"

	"cmms-service/internal/model"

	"go.uber.org/zap"
)

// Transport is the opaque per-channel delivery collaborator. Its error is
// recorded verbatim and never propagated as a dispatch error.
type Transport interface {
	Send(ctx context.Context, address, subject, body string) error
}

// SettingsSource yields a user's notification settings
type SettingsSource interface {
	SettingsFor(ctx context.Context, userID uint) (*model.NotificationSettings, error)
}

// LogStore appends immutable attempt records
type LogStore interface {
	Append(entry *model.NotificationLog) error
}

// Event is a notification to deliver. Critical events bypass quiet hours.
type Event struct {
	Category string
	Subject  string
	Body     string
	Critical bool
}

// Attempt is the terminal outcome of one dispatch
type Attempt struct {
	Channel   string
	Recipient string
	Status    string
	Error     string
}

// Dispatcher routes events per user preference
type Dispatcher struct {
	settings   SettingsSource
	logs       LogStore
	transports map[string]Transport
	log        *zap.Logger
	now        func() time.Time
}

// NewDispatcher creates a dispatcher wired to the given transports, keyed
// by channel name (model.ChannelEmail, model.ChannelSMS, model.ChannelInApp)
func NewDispatcher(settings SettingsSource, logs LogStore, transports map[string]Transport, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		settings:   settings,
		logs:       logs,
		transports: transports,
		log:        log,
		now:        time.Now,
	}
}

// Dispatch performs one delivery attempt to user over channel. The outcome
// is returned as a normal result: a transport failure yields a "failed"
// attempt, not an error. Errors are reserved for missing settings or an
// unknown channel.
func (d *Dispatcher) Dispatch(ctx context.Context, user *model.User, event Event, channel string) (*Attempt, error) {
	transport, ok := d.transports[channel]
	if !ok {
		return nil, fmt.Errorf("notify: no transport for channel %q", channel)
	}

	settings, err := d.settings.SettingsFor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("notify: load settings for user %d: %w", user.ID, err)
	}

	recipient := d.recipient(user, settings, channel)
	attempt := &Attempt{Channel: channel, Recipient: recipient}

	switch {
	case !channelEnabled(settings, channel):
		attempt.Status = model.NotificationStatusSkipped
	case !categoryEnabled(settings, channel, event.Category):
		attempt.Status = model.NotificationStatusSkipped
	case !event.Critical && inQuietHours(settings, d.now()):
		attempt.Status = model.NotificationStatusSkipped
	default:
		if err := transport.Send(ctx, recipient, event.Subject, event.Body); err != nil {
			attempt.Status = model.NotificationStatusFailed
			attempt.Error = err.Error()
		} else {
			attempt.Status = model.NotificationStatusSent
		}
	}

	entry := &model.NotificationLog{
		UserID:    user.ID,
		Channel:   channel,
		Recipient: recipient,
		Category:  event.Category,
		Subject:   event.Subject,
		Status:    attempt.Status,
		Error:     attempt.Error,
	}
	if err := d.logs.Append(entry); err != nil {
		return nil, fmt.Errorf("notify: record attempt: %w", err)
	}

	d.log.Info("Notification attempt",
		zap.Uint("user_id", user.ID),
		zap.String("channel", channel),
		zap.String("category", event.Category),
		zap.String("status", attempt.Status))

	return attempt, nil
}

func (d *Dispatcher) recipient(user *model.User, settings *model.NotificationSettings, channel string) string {
	switch channel {
	case model.ChannelSMS:
		if settings.Phone != "" {
			return settings.Phone
		}
		return user.Phone
	case model.ChannelInApp:
		return fmt.Sprintf("user:%d", user.ID)
	default:
		return user.Email
	}
}

func channelEnabled(settings *model.NotificationSettings, channel string) bool {
	switch channel {
	case model.ChannelEmail:
		return settings.EmailEnabled
	case model.ChannelSMS:
		return settings.SMSEnabled
	default:
		// In-app has no master toggle
		return true
	}
}

func categoryEnabled(settings *model.NotificationSettings, channel, category string) bool {
	switch channel {
	case model.ChannelEmail:
		switch category {
		case model.NotificationCategoryWorkOrders:
			return settings.EmailWorkOrders
		case model.NotificationCategoryInventory:
			return settings.EmailInventory
		case model.NotificationCategoryAssets:
			return settings.EmailAssets
		}
	case model.ChannelSMS:
		switch category {
		case model.NotificationCategoryWorkOrders:
			return settings.SMSWorkOrders
		case model.NotificationCategoryInventory:
			return settings.SMSInventory
		case model.NotificationCategoryAssets:
			return settings.SMSAssets
		}
	case model.ChannelInApp:
		return true
	}
	// Unknown categories default to deliverable
	return true
}
