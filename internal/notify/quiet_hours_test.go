package notify

import (
	"testing"
	"time"

	"cmms-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func quietSettings(start, end string) *model.NotificationSettings {
	return &model.NotificationSettings{QuietHoursStart: start, QuietHoursEnd: end}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 15, hour, minute, 0, 0, time.UTC)
}

func TestInQuietHours_SimpleWindow(t *testing.T) {
	s := quietSettings("13:00", "17:00")

	assert.False(t, inQuietHours(s, at(12, 59)))
	assert.True(t, inQuietHours(s, at(13, 0)), "start is inclusive")
	assert.True(t, inQuietHours(s, at(15, 30)))
	assert.False(t, inQuietHours(s, at(17, 0)), "end is exclusive")
	assert.False(t, inQuietHours(s, at(22, 0)))
}

func TestInQuietHours_WrapsMidnight(t *testing.T) {
	s := quietSettings("22:00", "06:00")

	assert.True(t, inQuietHours(s, at(23, 0)))
	assert.True(t, inQuietHours(s, at(0, 0)))
	assert.True(t, inQuietHours(s, at(5, 0)))
	assert.False(t, inQuietHours(s, at(6, 0)))
	assert.False(t, inQuietHours(s, at(12, 0)))
	assert.False(t, inQuietHours(s, at(21, 59)))
}

func TestInQuietHours_UnsetOrMalformed(t *testing.T) {
	assert.False(t, inQuietHours(quietSettings("", ""), at(3, 0)))
	assert.False(t, inQuietHours(quietSettings("22:00", ""), at(23, 0)))
	assert.False(t, inQuietHours(quietSettings("25:00", "06:00"), at(3, 0)))
	assert.False(t, inQuietHours(quietSettings("22:xx", "06:00"), at(23, 0)))
}

func TestInQuietHours_ZeroLengthWindow(t *testing.T) {
	assert.False(t, inQuietHours(quietSettings("08:00", "08:00"), at(8, 0)))
}

func TestParseClock(t *testing.T) {
	minutes, ok := parseClock("22:30")
	assert.True(t, ok)
	assert.Equal(t, 22*60+30, minutes)

	_, ok = parseClock("7")
	assert.False(t, ok)

	_, ok = parseClock("07:60")
	assert.False(t, ok)

	minutes, ok = parseClock("00:00")
	assert.True(t, ok)
	assert.Equal(t, 0, minutes)
}
