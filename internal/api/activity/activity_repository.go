package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	ListActivities(ctx context.Context) ([]types.ActivityRecord, error)
	ListActivitiesWithoutEmbeddings(ctx context.Context, limit int) ([]types.ActivityRecord, error)
	UpdateActivityEmbedding(ctx context.Context, id string, vector []float32) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepositoryImpl(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const activityColumns = `
	id::text, title, COALESCE(category, ''), COALESCE(subcategory, ''), COALESCE(description, ''),
	COALESCE(language, ''), price_num, is_free, lat, lon,
	COALESCE(date, ''), COALESCE(start_time, ''), COALESCE(end_time, ''), COALESCE(time_slot, ''),
	capacity, enrolled, source_type, COALESCE(activity_vector::text, '')`

func (r *RepositoryImpl) ListActivities(ctx context.Context) ([]types.ActivityRecord, error) {
	query := `SELECT` + activityColumns + `
		FROM activities
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	return r.scanActivities(ctx, rows)
}

func (r *RepositoryImpl) ListActivitiesWithoutEmbeddings(ctx context.Context, limit int) ([]types.ActivityRecord, error) {
	query := `SELECT` + activityColumns + `
		FROM activities
		WHERE activity_vector IS NULL
		ORDER BY id
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities without embeddings: %w", err)
	}
	defer rows.Close()

	return r.scanActivities(ctx, rows)
}

func (r *RepositoryImpl) UpdateActivityEmbedding(ctx context.Context, id string, vector []float32) error {
	query := `UPDATE activities SET activity_vector = $1::vector, updated_at = NOW() WHERE id::text = $2`

	tag, err := r.db.Exec(ctx, query, FormatVector(vector), id)
	if err != nil {
		return fmt.Errorf("failed to update embedding for activity %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) scanActivities(ctx context.Context, rows pgx.Rows) ([]types.ActivityRecord, error) {
	var out []types.ActivityRecord
	for rows.Next() {
		var (
			rec        types.ActivityRecord
			timeSlot   string
			sourceType string
			vector     string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Category, &rec.Subcategory, &rec.Description,
			&rec.Language, &rec.PriceNum, &rec.IsFree, &rec.Lat, &rec.Lon,
			&rec.Date, &rec.StartTime, &rec.EndTime, &timeSlot,
			&rec.Capacity, &rec.Enrolled, &sourceType, &vector,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}

		rec.TimeSlot = types.TimeSlot(timeSlot)
		if timeSlot == "" {
			rec.TimeSlot = TimeSlotFromStart(rec.StartTime)
		}

		st, ok := types.ParseSourceType(sourceType)
		if !ok {
			r.logger.WarnContext(ctx, "Skipping activity with unknown source type",
				slog.String("id", rec.ID), slog.String("source_type", sourceType))
			continue
		}
		rec.SourceType = st

		v, err := ParseVector(vector)
		if err != nil {
			r.logger.WarnContext(ctx, "Ignoring malformed activity vector",
				slog.String("id", rec.ID), slog.Any("error", err))
		}
		rec.ActivityVector = v

		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return out, nil
}
