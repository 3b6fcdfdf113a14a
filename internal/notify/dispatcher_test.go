package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"cmms-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTransport is a testify mock for the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, address, subject, body string) error {
	args := m.Called(ctx, address, subject, body)
	return args.Error(0)
}

// staticSettings serves fixed settings for every user
type staticSettings struct {
	settings model.NotificationSettings
}

func (s *staticSettings) SettingsFor(ctx context.Context, userID uint) (*model.NotificationSettings, error) {
	copied := s.settings
	copied.UserID = userID
	return &copied, nil
}

// memoryLog collects appended entries
type memoryLog struct {
	entries []model.NotificationLog
}

func (l *memoryLog) Append(entry *model.NotificationLog) error {
	l.entries = append(l.entries, *entry)
	return nil
}

func allEnabledSettings() model.NotificationSettings {
	return model.NotificationSettings{
		EmailEnabled:    true,
		SMSEnabled:      true,
		EmailWorkOrders: true,
		EmailInventory:  true,
		EmailAssets:     true,
		SMSWorkOrders:   true,
		SMSInventory:    true,
		SMSAssets:       true,
		Phone:           "+15550100",
	}
}

func testDispatcher(settings model.NotificationSettings, transport Transport, at time.Time) (*Dispatcher, *memoryLog) {
	logs := &memoryLog{}
	d := NewDispatcher(
		&staticSettings{settings: settings},
		logs,
		map[string]Transport{
			model.ChannelEmail: transport,
			model.ChannelSMS:   transport,
		},
		zap.NewNop(),
	)
	d.now = func() time.Time { return at }
	return d, logs
}

func clock(hour, minute int) time.Time {
	return time.Date(2025, 6, 15, hour, minute, 0, 0, time.UTC)
}

func workOrderEvent() Event {
	return Event{
		Category: model.NotificationCategoryWorkOrders,
		Subject:  "Work order assigned: WO-1234",
		Body:     "Replace pump bearing",
	}
}

func TestDispatch_Sent(t *testing.T) {
	transport := &MockTransport{}
	transport.On("Send", mock.Anything, "tech@plant.example", mock.Anything, mock.Anything).Return(nil)

	d, logs := testDispatcher(allEnabledSettings(), transport, clock(10, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example"}

	attempt, err := d.Dispatch(context.Background(), user, workOrderEvent(), model.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSent, attempt.Status)
	assert.Equal(t, "tech@plant.example", attempt.Recipient)
	transport.AssertExpectations(t)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, model.NotificationStatusSent, logs.entries[0].Status)
	assert.Empty(t, logs.entries[0].Error)
}

func TestDispatch_TransportFailureRecordedNotThrown(t *testing.T) {
	transport := &MockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("gateway timeout"))

	d, logs := testDispatcher(allEnabledSettings(), transport, clock(10, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example"}

	attempt, err := d.Dispatch(context.Background(), user, workOrderEvent(), model.ChannelEmail)
	require.NoError(t, err, "delivery failure is a result, not an error")
	assert.Equal(t, model.NotificationStatusFailed, attempt.Status)
	assert.Equal(t, "gateway timeout", attempt.Error, "transport error recorded verbatim")

	require.Len(t, logs.entries, 1)
	assert.Equal(t, "gateway timeout", logs.entries[0].Error)
}

func TestDispatch_ChannelDisabled(t *testing.T) {
	settings := allEnabledSettings()
	settings.EmailEnabled = false

	transport := &MockTransport{}
	d, logs := testDispatcher(settings, transport, clock(10, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example"}

	attempt, err := d.Dispatch(context.Background(), user, workOrderEvent(), model.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSkipped, attempt.Status)
	transport.AssertNotCalled(t, "Send")

	require.Len(t, logs.entries, 1, "skipped attempts are logged too")
	assert.Equal(t, model.NotificationStatusSkipped, logs.entries[0].Status)
}

func TestDispatch_CategoryDisabledForChannel(t *testing.T) {
	settings := allEnabledSettings()
	settings.SMSWorkOrders = false

	transport := &MockTransport{}
	d, _ := testDispatcher(settings, transport, clock(10, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example"}

	attempt, err := d.Dispatch(context.Background(), user, workOrderEvent(), model.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSkipped, attempt.Status)
	transport.AssertNotCalled(t, "Send")
}

func TestDispatch_QuietHours(t *testing.T) {
	settings := allEnabledSettings()
	settings.QuietHoursStart = "22:00"
	settings.QuietHoursEnd = "06:00"

	tests := []struct {
		name   string
		at     time.Time
		status string
	}{
		{"inside window before midnight", clock(23, 0), model.NotificationStatusSkipped},
		{"inside window after midnight", clock(5, 0), model.NotificationStatusSkipped},
		{"outside window", clock(10, 0), model.NotificationStatusSent},
		{"outside window midday", clock(12, 0), model.NotificationStatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &MockTransport{}
			transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

			d, _ := testDispatcher(settings, transport, tt.at)
			user := &model.User{ID: 1, Email: "tech@plant.example"}

			attempt, err := d.Dispatch(context.Background(), user, workOrderEvent(), model.ChannelEmail)
			require.NoError(t, err)
			assert.Equal(t, tt.status, attempt.Status)
		})
	}
}

func TestDispatch_CriticalBypassesQuietHours(t *testing.T) {
	settings := allEnabledSettings()
	settings.QuietHoursStart = "22:00"
	settings.QuietHoursEnd = "06:00"

	transport := &MockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	d, _ := testDispatcher(settings, transport, clock(23, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example"}

	event := workOrderEvent()
	event.Critical = true

	attempt, err := d.Dispatch(context.Background(), user, event, model.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSent, attempt.Status)
	transport.AssertExpectations(t)
}

func TestDispatch_SMSUsesSettingsPhone(t *testing.T) {
	transport := &MockTransport{}
	transport.On("Send", mock.Anything, "+15550100", mock.Anything, mock.Anything).Return(nil)

	d, _ := testDispatcher(allEnabledSettings(), transport, clock(10, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example", Phone: "+15559999"}

	attempt, err := d.Dispatch(context.Background(), user, workOrderEvent(), model.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, "+15550100", attempt.Recipient)
	transport.AssertExpectations(t)
}

func TestDispatch_UnknownChannel(t *testing.T) {
	d, logs := testDispatcher(allEnabledSettings(), &MockTransport{}, clock(10, 0))
	user := &model.User{ID: 1, Email: "tech@plant.example"}

	_, err := d.Dispatch(context.Background(), user, workOrderEvent(), "pager")
	require.Error(t, err)
	assert.Empty(t, logs.entries)
}
