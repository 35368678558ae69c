package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/recommendation"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/session"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/vitals"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// ProfileExtractor turns a free-text message into a partial profile. It never fails:
// on any problem it returns the empty fragment.
type ProfileExtractor interface {
	Extract(ctx context.Context, message string, history []types.ConversationMessage) types.ProfileFragment
}

type IntentClassifier interface {
	Classify(ctx context.Context, text string) (types.IntentType, error)
}

type QuestionAnswerer interface {
	Answer(ctx context.Context, query string) (types.QAAnswer, error)
}

// Service routes chat messages and owns the slot-filling flow.
type Service interface {
	HandleMessage(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
	SubmitLocation(ctx context.Context, req types.LocationRequest) (types.ChatResponse, error)
	History(ctx context.Context, sessionID string, limit int) ([]types.ConversationMessage, error)
	ClearSession(ctx context.Context, sessionID string) error
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	sessions    session.Service
	recommender recommendation.Service
	extractor   ProfileExtractor
	classifier  IntentClassifier
	qa          QuestionAnswerer
	params      Params
	logger      *slog.Logger
	metrics     *metrics.AppMetrics

	chain []rule
}

// NewServiceImpl wires the controller. classifier and qa may be nil: without a
// classifier every message that no keyword rule claims goes to question answering,
// and without qa those messages get an apology.
func NewServiceImpl(
	sessions session.Service,
	recommender recommendation.Service,
	extractor ProfileExtractor,
	classifier IntentClassifier,
	qa QuestionAnswerer,
	params Params,
	logger *slog.Logger,
	m *metrics.AppMetrics,
) *ServiceImpl {
	s := &ServiceImpl{
		sessions:    sessions,
		recommender: recommender,
		extractor:   extractor,
		classifier:  classifier,
		qa:          qa,
		params:      params,
		logger:      logger,
		metrics:     m,
	}
	s.chain = s.rules()
	return s
}

func (s *ServiceImpl) HandleMessage(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	ctx, span := otel.Tracer("DialogueService").Start(ctx, "HandleMessage")
	defer span.End()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		span.SetStatus(codes.Error, "empty message")
		return types.ChatResponse{}, fmt.Errorf("%w: message is empty", types.ErrInvalidInput)
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("session.id", sessionID))
	l := s.logger.With(slog.String("method", "HandleMessage"), slog.String("session_id", sessionID))

	var reading *types.VitalSigns
	if req.ContextVitals != nil {
		v, err := vitals.Process(*req.ContextVitals, time.Now())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid vitals")
			return types.ChatResponse{}, err
		}
		reading = &v
	}

	var (
		resp     types.ChatResponse
		ruleName string
	)
	_, err := s.sessions.Update(ctx, sessionID, func(sess *types.SessionContext) error {
		// Readings sent with the message replace the stored ones before any rule runs.
		if reading != nil {
			sess.Vitals = reading
		}
		t := newTurn(sess, message, s.params.HistoryLimit)
		for _, r := range s.chain {
			if !r.match(ctx, t) {
				continue
			}
			out, err := r.handle(ctx, t)
			if err != nil {
				return err
			}
			ruleName, resp = r.name, out
			break
		}
		sess.AddMessage(types.RoleUser, message)
		sess.AddMessage(types.RoleAssistant, resp.Answer)
		return nil
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to handle message", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "handle message failed")
		return types.ChatResponse{}, fmt.Errorf("failed to handle message: %w", err)
	}

	s.metrics.DialogueRuleHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", ruleName)))
	l.InfoContext(ctx, "Message handled",
		slog.String("rule", ruleName),
		slog.String("intent", resp.Intent),
		slog.Int("results", len(resp.Result)))

	span.SetAttributes(attribute.String("dialogue.rule", ruleName))
	span.SetStatus(codes.Ok, "")
	return finalize(resp, sessionID), nil
}

// SubmitLocation records a map selection and resumes the recommendation flow.
func (s *ServiceImpl) SubmitLocation(ctx context.Context, req types.LocationRequest) (types.ChatResponse, error) {
	ctx, span := otel.Tracer("DialogueService").Start(ctx, "SubmitLocation", trace.WithAttributes(
		attribute.String("session.id", req.SessionID),
	))
	defer span.End()

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		span.SetStatus(codes.Error, "missing session id")
		return types.ChatResponse{}, fmt.Errorf("%w: session id is required", types.ErrInvalidInput)
	}
	l := s.logger.With(slog.String("method", "SubmitLocation"), slog.String("session_id", sessionID))

	var resp types.ChatResponse
	_, err := s.sessions.Update(ctx, sessionID, func(sess *types.SessionContext) error {
		lat, lon := req.Lat, req.Lon
		label := locationLabel(lat, lon)
		sess.Profile.Lat = &lat
		sess.Profile.Lon = &lon
		sess.Profile.Location = label
		sess.AwaitingLocation = false

		out, err := s.recommend(ctx, sess, types.RecommendOptions{})
		if err != nil {
			return err
		}
		resp = out
		sess.AddMessage(types.RoleUser, label)
		sess.AddMessage(types.RoleAssistant, resp.Answer)
		return nil
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to apply location", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit location failed")
		return types.ChatResponse{}, fmt.Errorf("failed to apply location: %w", err)
	}

	s.metrics.DialogueRuleHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", "location")))
	l.InfoContext(ctx, "Location applied", slog.Int("results", len(resp.Result)))
	span.SetStatus(codes.Ok, "")
	return finalize(resp, sessionID), nil
}

func (s *ServiceImpl) History(ctx context.Context, sessionID string, limit int) ([]types.ConversationMessage, error) {
	return s.sessions.History(ctx, sessionID, limit)
}

func (s *ServiceImpl) ClearSession(ctx context.Context, sessionID string) error {
	ctx, span := otel.Tracer("DialogueService").Start(ctx, "ClearSession", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clear failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *ServiceImpl) handleRecommend(ctx context.Context, t *turn) (types.ChatResponse, error) {
	t.sess.Profile.Merge(s.extract(ctx, t))
	return s.recommend(ctx, t.sess, types.RecommendOptions{})
}

// handleRefinement re-runs the engine with the follow-up applied. A refinement that
// matches nothing is rolled back so the next follow-up starts from the last working profile.
func (s *ServiceImpl) handleRefinement(ctx context.Context, t *turn) (types.ChatResponse, error) {
	previous := t.sess.Profile.Clone()
	previousResults := slices.Clone(t.sess.LastResultIDs)

	fragment := s.extract(ctx, t)
	t.sess.Profile.Merge(fragment)
	opts := t.refinement.apply(&t.sess.Profile, fragment, t.sess.LastResultIDs, s.params)
	s.logger.DebugContext(ctx, "Refining previous recommendations",
		slog.String("session_id", t.sess.ID),
		slog.Any("keywords", t.refinement.keywords))

	resp, err := s.recommend(ctx, t.sess, opts)
	if err != nil {
		return resp, err
	}
	if len(resp.Result) == 0 && len(resp.MissingFields) == 0 && resp.ShowMap == nil {
		s.logger.InfoContext(ctx, "Refinement matched nothing, keeping previous preferences",
			slog.String("session_id", t.sess.ID))
		t.sess.Profile = previous
		t.sess.LastResultIDs = previousResults
		resp.Answer = refinementNoMatchReply
	}
	return resp, nil
}

func (s *ServiceImpl) handleClassified(ctx context.Context, t *turn) (types.ChatResponse, error) {
	if t.intent == types.IntentRecommendActivity {
		return s.handleRecommend(ctx, t)
	}
	return types.ChatResponse{
		Answer: smallTalkReply,
		Intent: string(types.IntentChitchat),
	}, nil
}

func (s *ServiceImpl) handleOpenQA(ctx context.Context, t *turn) (types.ChatResponse, error) {
	resp := types.ChatResponse{Intent: string(types.IntentHealthQA)}
	if s.qa == nil {
		resp.Answer = qaApology
		return resp, nil
	}

	qctx, cancel := withTimeout(ctx, s.params.AnswerTimeout)
	defer cancel()
	answer, err := s.qa.Answer(qctx, t.message)
	if err != nil {
		s.logger.WarnContext(ctx, "Question answering failed, replying with apology",
			slog.String("session_id", t.sess.ID),
			slog.Any("error", err))
		resp.Answer = qaApology
		return resp, nil
	}
	resp.Answer = answer.Answer
	resp.Retrieved = answer.Retrieved
	return resp, nil
}

// recommend checks completeness and location, then runs the engine on the session profile.
func (s *ServiceImpl) recommend(ctx context.Context, sess *types.SessionContext, opts types.RecommendOptions) (types.ChatResponse, error) {
	resp := types.ChatResponse{
		Intent: string(types.IntentRecommendActivity),
		Result: []types.RecommendationResult{},
	}
	profile := sess.Profile

	if missing := profile.MissingFields(); len(missing) > 0 {
		resp.Answer = missingFieldsPrompt(missing)
		resp.MissingFields = missing
		return resp, nil
	}

	if !profile.HasCoordinates() {
		sess.AwaitingLocation = true
		showMap := true
		resp.Answer = mapPrompt
		resp.ShowMap = &showMap
		return resp, nil
	}

	results, err := s.recommender.Recommend(ctx, profile.Clone(), opts)
	if err != nil {
		return types.ChatResponse{}, fmt.Errorf("failed to compute recommendations: %w", err)
	}

	sess.AwaitingLocation = false
	sess.LastResultIDs = make([]string, 0, len(results))
	for _, r := range results {
		sess.LastResultIDs = append(sess.LastResultIDs, r.ID)
	}
	resp.Answer = formatResults(results, sess.Vitals)
	resp.Result = results
	resp.UserLocation = &types.UserLocation{Lat: *profile.Lat, Lon: *profile.Lon}
	return resp, nil
}

func (s *ServiceImpl) extract(ctx context.Context, t *turn) types.ProfileFragment {
	ectx, cancel := withTimeout(ctx, s.params.ExtractTimeout)
	defer cancel()
	return s.extractor.Extract(ectx, t.message, t.history)
}

// classify never fails: errors and unguarded recommendation verdicts become chitchat.
func (s *ServiceImpl) classify(ctx context.Context, t *turn) types.IntentType {
	cctx, cancel := withTimeout(ctx, s.params.ClassifyTimeout)
	defer cancel()

	intent, err := s.classifier.Classify(cctx, classificationText(t.history, t.message))
	if err != nil {
		s.logger.WarnContext(ctx, "Intent classification failed, treating as chitchat",
			slog.String("session_id", t.sess.ID),
			slog.Any("error", err))
		s.metrics.UpstreamFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "intent_classifier")))
		return types.IntentChitchat
	}
	if intent == types.IntentRecommendActivity && !containsAny(t.lower, s.params.GuardKeywords) {
		return types.IntentChitchat
	}
	return intent
}

func classificationText(history []types.ConversationMessage, message string) string {
	parts := make([]string, 0, len(history)+1)
	for _, m := range history {
		parts = append(parts, m.Content)
	}
	return strings.Join(append(parts, message), "\n")
}

func finalize(resp types.ChatResponse, sessionID string) types.ChatResponse {
	resp.SessionID = sessionID
	if resp.Result == nil {
		resp.Result = []types.RecommendationResult{}
	}
	return resp
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
