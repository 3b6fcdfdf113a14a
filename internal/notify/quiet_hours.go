package notify

import (
	"strconv"
	"strings"
	"time"

	"cmms-service/internal/model"
)

// inQuietHours reports whether t falls inside the user's quiet-hours
// window. The window carries no date: end before start means it wraps
// across midnight, so (22:00, 06:00) contains 05:00 and excludes 12:00.
// An unset or malformed window never suppresses anything.
func inQuietHours(settings *model.NotificationSettings, t time.Time) bool {
	start, ok := parseClock(settings.QuietHoursStart)
	if !ok {
		return false
	}
	end, ok := parseClock(settings.QuietHoursEnd)
	if !ok {
		return false
	}
	if start == end {
		return false
	}

	minute := t.Hour()*60 + t.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// Wrapping window
	return minute >= start || minute < end
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
