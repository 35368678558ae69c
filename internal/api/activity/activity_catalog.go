package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// Catalog keeps an immutable snapshot of the activity table in memory. Readers never
// block; Refresh swaps in a new snapshot.
type Catalog struct {
	repo     Repository
	logger   *slog.Logger
	metrics  *metrics.AppMetrics
	snapshot atomic.Pointer[[]types.ActivityRecord]
}

func NewCatalog(repo Repository, logger *slog.Logger, m *metrics.AppMetrics) *Catalog {
	c := &Catalog{repo: repo, logger: logger, metrics: m}
	empty := []types.ActivityRecord{}
	c.snapshot.Store(&empty)
	return c
}

// NewStaticCatalog serves a fixed set of records, used by tooling and tests.
func NewStaticCatalog(records []types.ActivityRecord) *Catalog {
	c := &Catalog{logger: slog.Default(), metrics: metrics.Noop()}
	c.snapshot.Store(&records)
	return c
}

// Activities returns the current snapshot. Callers must not modify it.
func (c *Catalog) Activities() []types.ActivityRecord {
	return *c.snapshot.Load()
}

// Refresh reloads the catalog from the repository. The previous snapshot stays in place on error.
func (c *Catalog) Refresh(ctx context.Context) error {
	ctx, span := otel.Tracer("ActivityCatalog").Start(ctx, "Refresh")
	defer span.End()

	if c.repo == nil {
		return fmt.Errorf("catalog has no repository")
	}

	records, err := c.repo.ListActivities(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return fmt.Errorf("failed to load activity catalog: %w", err)
	}
	if records == nil {
		records = []types.ActivityRecord{}
	}

	withVectors := 0
	for _, r := range records {
		if len(r.ActivityVector) > 0 {
			withVectors++
		}
	}

	c.snapshot.Store(&records)
	c.metrics.CatalogSize.Record(ctx, int64(len(records)))

	c.logger.InfoContext(ctx, "Activity catalog loaded",
		slog.Int("activities", len(records)),
		slog.Int("with_vectors", withVectors))
	span.SetAttributes(attribute.Int("catalog.size", len(records)))
	span.SetStatus(codes.Ok, "")
	return nil
}

// RunRefresher reloads the catalog every interval until ctx is done.
func (c *Catalog) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.ErrorContext(ctx, "Catalog refresh failed", slog.Any("error", err))
			}
		}
	}
}
