package vitals

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/session"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Update(ctx context.Context, id string, fn func(s *types.SessionContext) error) (*types.SessionContext, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SessionContext), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*types.SessionContext, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*types.SessionContext), args.Error(1)
}

func (m *MockSessionService) History(ctx context.Context, id string, limit int) ([]types.ConversationMessage, error) {
	args := m.Called(ctx, id, limit)
	return args.Get(0).([]types.ConversationMessage), args.Error(1)
}

func (m *MockSessionService) Clear(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var reading = types.HealthData{
	DeviceID:      "watch-1",
	BloodPressure: "120/80",
	HeartRate:     72,
	BloodGlucose:  95,
	BloodOxygen:   98,
}

func fixedClock() time.Time { return time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC) }

func TestServiceImpl_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("without a session only processes", func(t *testing.T) {
		sessions := new(MockSessionService)
		svc := NewServiceImpl(sessions, slog.Default())
		svc.now = fixedClock

		v, err := svc.Submit(ctx, reading)

		require.NoError(t, err)
		assert.Equal(t, 90.0, v.HealthScore)
		assert.Equal(t, "2025-03-01T00:30:00Z", v.Timestamp)
		sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores the reading on the session", func(t *testing.T) {
		sessions := session.NewServiceImpl(session.NewMemoryRepository(), 50, slog.Default())
		svc := NewServiceImpl(sessions, slog.Default())
		svc.now = fixedClock

		data := reading
		data.SessionID = "s1"
		v, err := svc.Submit(ctx, data)
		require.NoError(t, err)

		sess, err := sessions.Get(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, sess.Vitals)
		assert.Equal(t, v, *sess.Vitals)
		assert.Empty(t, sess.Messages)
	})

	t.Run("invalid reading never touches the session", func(t *testing.T) {
		sessions := new(MockSessionService)
		svc := NewServiceImpl(sessions, slog.Default())

		data := reading
		data.SessionID = "s1"
		data.BloodPressure = "120"
		_, err := svc.Submit(ctx, data)

		assert.ErrorIs(t, err, types.ErrInvalidInput)
		sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("session store failure", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Update", mock.Anything, "s1", mock.Anything).Return(nil, errors.New("redis down")).Once()
		svc := NewServiceImpl(sessions, slog.Default())

		data := reading
		data.SessionID = "s1"
		_, err := svc.Submit(ctx, data)

		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrInvalidInput)
		sessions.AssertExpectations(t)
	})

	t.Run("nil session service", func(t *testing.T) {
		svc := NewServiceImpl(nil, slog.Default())
		data := reading
		data.SessionID = "s1"
		_, err := svc.Submit(ctx, data)
		assert.NoError(t, err)
	})
}
