package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// EmbeddingProvider turns text into a vector comparable with the catalog vectors.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Catalog exposes the current read-only snapshot of activities.
type Catalog interface {
	Activities() []types.ActivityRecord
}

// Service ranks catalog activities for a profile.
type Service interface {
	Recommend(ctx context.Context, profile types.UserProfile, opts types.RecommendOptions) ([]types.RecommendationResult, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	catalog  Catalog
	embedder EmbeddingProvider
	params   Params
	logger   *slog.Logger
	metrics  *metrics.AppMetrics

	mu  sync.Mutex
	rng *rand.Rand
}

func NewServiceImpl(catalog Catalog, embedder EmbeddingProvider, params Params, logger *slog.Logger, m *metrics.AppMetrics) (*ServiceImpl, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommendation parameters: %w", err)
	}
	return &ServiceImpl{
		catalog:  catalog,
		embedder: embedder,
		params:   params,
		logger:   logger,
		metrics:  m,
		rng:      rand.New(rand.NewSource(params.RandomSeed)),
	}, nil
}

// resolvedProfile is a profile with every default applied and every numeric input sanitised.
type resolvedProfile struct {
	interests      []string
	criteria       filterCriteria
	budget         float64
	budgetProvided bool
	needFree       bool
	timeProvided   bool
	k              int
}

func (s *ServiceImpl) Recommend(ctx context.Context, profile types.UserProfile, opts types.RecommendOptions) ([]types.RecommendationResult, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.Int("profile.interests", len(profile.Interests)),
		attribute.Bool("profile.has_coordinates", profile.HasCoordinates()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Recommend"))
	start := time.Now()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "context done")
		return nil, err
	}

	in := s.resolve(profile, opts)
	records := s.catalog.Activities()

	mode := "ranked"
	var results []types.RecommendationResult
	if len(in.interests) == 0 {
		mode = "random"
		results = s.randomSample(records, in)
	} else {
		var err error
		results, err = s.rank(ctx, l, records, in)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ranking aborted")
			return nil, err
		}
	}

	attrs := metric.WithAttributes(attribute.String("mode", mode))
	s.metrics.RecommendationRequestsTotal.Add(ctx, 1, attrs)
	s.metrics.RecommendationDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.RecommendationResultsCount.Record(ctx, int64(len(results)), attrs)

	l.InfoContext(ctx, "Recommendations computed",
		slog.String("mode", mode),
		slog.Int("catalog_size", len(records)),
		slog.Int("results", len(results)))
	span.SetAttributes(attribute.String("mode", mode), attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "")
	return results, nil
}

func (s *ServiceImpl) rank(ctx context.Context, l *slog.Logger, records []types.ActivityRecord, in resolvedProfile) ([]types.RecommendationResult, error) {
	cands := filterCandidates(records, in.criteria)
	if len(cands) == 0 {
		l.InfoContext(ctx, "No activities left after filtering")
		return []types.RecommendationResult{}, nil
	}

	userVector, err := s.interestVector(ctx, in.interests)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.metrics.UpstreamFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "embedding")))
		l.WarnContext(ctx, "Interest embedding unavailable, ranking on keywords only", slog.Any("error", err))
	}

	mismatched := scoreCandidates(cands, scoringInput{
		userVector: userVector,
		interests:  in.interests,
		budget:     in.budget,
		needFree:   in.needFree,
		maxDistKm:  in.criteria.maxDistanceKm,
	}, s.params)
	if mismatched > 0 {
		l.WarnContext(ctx, "Activity vectors do not match the interest vector dimension",
			slog.Int("records", mismatched), slog.Int("dimension", len(userVector)))
	}

	sortByScore(cands)
	normalizeScores(cands, s.params.Temperature)
	selected := selectTop(cands, in.k, s.params.InterestThreshold)

	ec := explanationContext{
		needFree:       in.needFree,
		budget:         in.budget,
		budgetProvided: in.budgetProvided,
		timeProvided:   in.timeProvided,
		geoActive:      in.criteria.geoActive,
	}
	results := make([]types.RecommendationResult, 0, len(selected))
	for _, c := range selected {
		r := toResult(c.record, c.distance)
		r.Score = c.score
		r.InterestScore = c.interestScore
		r.ScoreNormalized = c.normalized
		r.Explanation = explain(c, ec, s.params)
		results = append(results, r)
	}
	return results, nil
}

// interestVector embeds every interest concurrently and averages the vectors.
func (s *ServiceImpl) interestVector(ctx context.Context, interests []string) ([]float32, error) {
	if s.embedder == nil {
		return nil, errors.New("no embedding provider configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.params.EmbedTimeout)
	defer cancel()

	vectors := make([][]float32, len(interests))
	g, gctx := errgroup.WithContext(ctx)
	for i, interest := range interests {
		g.Go(func() error {
			v, err := s.embedder.Embed(gctx, interest)
			if err != nil {
				return fmt.Errorf("embed interest %q: %w", interest, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meanVector(vectors)
}

// randomSample serves profiles without interests: a uniform draw from the source-type
// filtered catalog, every item scored 0.5.
func (s *ServiceImpl) randomSample(records []types.ActivityRecord, in resolvedProfile) []types.RecommendationResult {
	pool := filterBySourceType(records, in.criteria.sourceTypes, in.criteria.excludeIDs)
	n := min(in.k, len(pool))

	s.mu.Lock()
	perm := s.rng.Perm(len(pool))
	s.mu.Unlock()

	results := make([]types.RecommendationResult, 0, n)
	for _, idx := range perm[:n] {
		rec := pool[idx]
		distance := 0.0
		if in.criteria.geoActive && rec.HasCoordinates() {
			distance = calculateDistance(in.criteria.lat, in.criteria.lon, *rec.Lat, *rec.Lon)
		}
		r := toResult(rec, distance)
		r.Score = 0.5
		r.InterestScore = 0.5
		r.ScoreNormalized = 0.5
		r.Explanation = randomExplanation
		results = append(results, r)
	}
	return results
}

func (s *ServiceImpl) resolve(profile types.UserProfile, opts types.RecommendOptions) resolvedProfile {
	in := resolvedProfile{
		interests: profile.CleanInterests(),
		needFree:  profile.NeedFree,
		k:         s.params.TopK,
		budget:    s.params.DefaultBudget,
	}
	if opts.K > 0 {
		in.k = opts.K
	}

	if b := profile.Budget; b != nil && *b > 0 && !math.IsInf(*b, 0) && !math.IsNaN(*b) {
		in.budget = *b
		in.budgetProvided = true
	}

	for _, lang := range profile.Languages {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			in.criteria.languages = append(in.criteria.languages, lang)
		}
	}
	if len(in.criteria.languages) == 0 {
		in.criteria.languages = []string{strings.ToLower(types.DefaultLanguage)}
	}

	for _, slot := range profile.TimeSlots {
		ts, ok := types.ParsePreferredTimeSlot(string(slot))
		if !ok {
			continue
		}
		in.criteria.timeSlots = append(in.criteria.timeSlots, ts)
		if ts != types.TimeSlotAny {
			in.timeProvided = true
		}
	}
	if len(in.criteria.timeSlots) == 0 {
		in.criteria.timeSlots = []types.TimeSlot{types.TimeSlotAny}
	}

	if profile.HasCoordinates() && finite(*profile.Lat) && finite(*profile.Lon) {
		in.criteria.geoActive = true
		in.criteria.lat = *profile.Lat
		in.criteria.lon = *profile.Lon
	}
	in.criteria.maxDistanceKm = s.params.MaxDistanceKm
	if opts.MaxDistanceKm > 0 {
		in.criteria.maxDistanceKm = opts.MaxDistanceKm
	}

	for _, st := range profile.SourceTypes {
		if parsed, ok := types.ParseSourceType(string(st)); ok {
			in.criteria.sourceTypes = append(in.criteria.sourceTypes, parsed)
		}
	}

	if len(opts.ExcludeIDs) > 0 {
		in.criteria.excludeIDs = make(map[string]struct{}, len(opts.ExcludeIDs))
		for _, id := range opts.ExcludeIDs {
			in.criteria.excludeIDs[id] = struct{}{}
		}
	}
	return in
}

func toResult(rec *types.ActivityRecord, distance float64) types.RecommendationResult {
	return types.RecommendationResult{
		ID:          rec.ID,
		Title:       rec.Title,
		Category:    rec.Category,
		Description: rec.Description,
		Language:    rec.Language,
		PriceNum:    rec.PriceNum,
		IsFree:      rec.IsFree,
		Distance:    math.Round(distance*100) / 100,
		Date:        rec.Date,
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
		TimeSlot:    rec.Slot(),
		SourceType:  rec.SourceType,
		Lat:         rec.Lat,
		Lon:         rec.Lon,
		Remaining:   rec.Remaining(),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
