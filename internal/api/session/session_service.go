package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// Service owns the per-session profile and message log.
type Service interface {
	// Update runs fn on the session with exclusive access. Changes are saved only when fn
	// returns nil.
	Update(ctx context.Context, id string, fn func(s *types.SessionContext) error) (*types.SessionContext, error)
	Get(ctx context.Context, id string) (*types.SessionContext, error)
	History(ctx context.Context, id string, limit int) ([]types.ConversationMessage, error)
	Clear(ctx context.Context, id string) error
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	repo        Repository
	maxMessages int
	logger      *slog.Logger
	locks       *keyedMutex
}

func NewServiceImpl(repo Repository, maxMessages int, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:        repo,
		maxMessages: maxMessages,
		logger:      logger,
		locks:       newKeyedMutex(),
	}
}

func (s *ServiceImpl) Update(ctx context.Context, id string, fn func(sess *types.SessionContext) error) (*types.SessionContext, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "Update", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}

	if err := fn(sess); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update aborted")
		return nil, err
	}

	sess.Trim(s.maxMessages)
	sess.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, sess); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save session", slog.String("session_id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return sess.Clone(), nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*types.SessionContext, error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.load(ctx, id)
}

func (s *ServiceImpl) History(ctx context.Context, id string, limit int) ([]types.ConversationMessage, error) {
	sess, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	if !found {
		return []types.ConversationMessage{}, nil
	}
	return sess.Recent(limit), nil
}

func (s *ServiceImpl) Clear(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.InfoContext(ctx, "Session cleared", slog.String("session_id", id))
	return nil
}

// load must be called with the session lock held.
func (s *ServiceImpl) load(ctx context.Context, id string) (*types.SessionContext, error) {
	sess, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		s.logger.DebugContext(ctx, "Creating session", slog.String("session_id", id))
		return types.NewSessionContext(id), nil
	}
	return sess, nil
}

// keyedMutex hands out one mutex per key and forgets it once no goroutine holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
