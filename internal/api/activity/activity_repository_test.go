package activity

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

var activityCols = []string{
	"id", "title", "category", "subcategory", "description",
	"language", "price_num", "is_free", "lat", "lon",
	"date", "start_time", "end_time", "time_slot",
	"capacity", "enrolled", "source_type", "activity_vector",
}

func ptr[T any](v T) *T { return &v }

func TestRepositoryImpl_ListActivities(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(activityCols).
		AddRow("a1", "Chair Yoga", "Fitness", "Yoga", "Gentle seated yoga",
			"English", ptr(15.0), false, ptr(1.35), ptr(103.82),
			"2025-06-01", "9:30 AM", "10:30 AM", "",
			ptr(20), ptr(18), "course", "[0.1,0.2,0.3]").
		AddRow("a2", "Mahjong Club", "Games", "", "",
			"Mandarin", (*float64)(nil), true, (*float64)(nil), (*float64)(nil),
			"", "", "", "evening",
			(*int)(nil), (*int)(nil), "interest_group", "").
		AddRow("a3", "Mystery", "", "", "",
			"English", (*float64)(nil), false, (*float64)(nil), (*float64)(nil),
			"", "", "", "",
			(*int)(nil), (*int)(nil), "webinar", "")

	mock.ExpectQuery("SELECT .* FROM activities").WillReturnRows(rows)

	repo := NewRepositoryImpl(mock, slog.Default())
	got, err := repo.ListActivities(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2, "unknown source type is skipped")

	yoga := got[0]
	assert.Equal(t, "a1", yoga.ID)
	assert.Equal(t, types.TimeSlotMorning, yoga.TimeSlot, "slot derived from start time")
	assert.Equal(t, types.SourceTypeCourse, yoga.SourceType)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, yoga.ActivityVector)
	require.NotNil(t, yoga.Remaining())
	assert.Equal(t, 2, *yoga.Remaining())

	mahjong := got[1]
	assert.Equal(t, types.TimeSlotEvening, mahjong.TimeSlot)
	assert.True(t, mahjong.IsFree)
	assert.Nil(t, mahjong.PriceNum)
	assert.False(t, mahjong.HasCoordinates())
	assert.Nil(t, mahjong.ActivityVector)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryImpl_ListActivities_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .* FROM activities").WillReturnError(errors.New("connection reset"))

	repo := NewRepositoryImpl(mock, slog.Default())
	_, err = repo.ListActivities(context.Background())

	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryImpl_ListActivitiesWithoutEmbeddings(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(activityCols).
		AddRow("a9", "Line Dancing", "Fitness", "Dance", "Dance to oldies",
			"English", ptr(10.0), false, ptr(1.44), ptr(103.82),
			"", "19:00", "21:00", "",
			(*int)(nil), (*int)(nil), "event", "")

	mock.ExpectQuery("WHERE activity_vector IS NULL").WithArgs(50).WillReturnRows(rows)

	repo := NewRepositoryImpl(mock, slog.Default())
	got, err := repo.ListActivitiesWithoutEmbeddings(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.TimeSlotEvening, got[0].TimeSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryImpl_UpdateActivityEmbedding(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepositoryImpl(mock, slog.Default())

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE activities SET activity_vector").
			WithArgs("[0.5,-1]", "a1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateActivityEmbedding(context.Background(), "a1", []float32{0.5, -1}))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE activities SET activity_vector").
			WithArgs("[1]", "nope").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateActivityEmbedding(context.Background(), "nope", []float32{1})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
