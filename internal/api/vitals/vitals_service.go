package vitals

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/session"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

type Service interface {
	Submit(ctx context.Context, data types.HealthData) (types.VitalSigns, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	sessions session.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewServiceImpl returns a processor that attaches readings to chat sessions.
// sessions may be nil, in which case readings are only processed.
func NewServiceImpl(sessions session.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit processes a reading and, when it names a session, stores it as that
// session's latest vitals.
func (s *ServiceImpl) Submit(ctx context.Context, data types.HealthData) (types.VitalSigns, error) {
	ctx, span := otel.Tracer("VitalsService").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("device.id", data.DeviceID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Submit"), slog.String("device_id", data.DeviceID))

	v, err := Process(data, s.now())
	if err != nil {
		l.WarnContext(ctx, "Rejected vital signs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid reading")
		return types.VitalSigns{}, err
	}

	if sessionID := strings.TrimSpace(data.SessionID); sessionID != "" && s.sessions != nil {
		span.SetAttributes(attribute.String("session.id", sessionID))
		_, err := s.sessions.Update(ctx, sessionID, func(sess *types.SessionContext) error {
			sess.Vitals = &v
			return nil
		})
		if err != nil {
			l.ErrorContext(ctx, "Failed to attach vital signs to session", slog.String("session_id", sessionID), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "attach failed")
			return types.VitalSigns{}, fmt.Errorf("failed to attach vital signs: %w", err)
		}
	}

	l.InfoContext(ctx, "Vital signs processed", slog.Float64("health_score", v.HealthScore))
	span.SetAttributes(attribute.Float64("vitals.health_score", v.HealthScore))
	span.SetStatus(codes.Ok, "")
	return v, nil
}
