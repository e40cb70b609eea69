package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwlabel/labelstation/internal/domain/models"
	"github.com/hwlabel/labelstation/internal/repository/memory"
)

type countingStore struct {
	*memory.Repository
	lists int
	err   error
}

func (c *countingStore) ListLabelRecords(ctx context.Context, q models.HistoryQuery) ([]models.LabelRecord, error) {
	c.lists++
	if c.err != nil {
		return nil, c.err
	}
	return c.Repository.ListLabelRecords(ctx, q)
}

// Wednesday
var historyNow = time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)

func newTestService(store Store) *Service {
	s := NewService(store, time.UTC, nil)
	s.now = func() time.Time { return historyNow }
	return s
}

func TestQueryFor(t *testing.T) {
	today := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	q := QueryFor(models.HistoryToday, historyNow)
	assert.Equal(t, today, q.Since)
	assert.Equal(t, today.AddDate(0, 0, 1), q.Until)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), QueryFor(models.HistoryWeek, historyNow).Since)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), QueryFor(models.HistoryMonth, historyNow).Since)
	assert.True(t, QueryFor(models.HistoryAll, historyNow).Since.IsZero())
}

func TestMondayStart_Sunday(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), mondayStart(sunday))
}

func TestList_CachesUntilNextRecord(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Repository: memory.NewRepository()}
	svc := newTestService(store)

	require.NoError(t, svc.Deliver(ctx, models.LabelRecord{ID: "r1", WasteName: "Spent acid", RecordedDate: historyNow, PrintedAt: historyNow}))

	first, err := svc.List(ctx, models.HistoryToday, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.List(ctx, models.HistoryToday, "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists, "second listing is served from cache")

	require.NoError(t, svc.Deliver(ctx, models.LabelRecord{ID: "r2", WasteName: "Mineral oil", RecordedDate: historyNow, PrintedAt: historyNow.Add(time.Minute)}))

	second, err := svc.List(ctx, models.HistoryToday, "")
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 2, store.lists)
	assert.Equal(t, "r2", second[0].ID)
}

func TestList_CallerCannotAlterCache(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Repository: memory.NewRepository()}
	svc := newTestService(store)
	require.NoError(t, svc.Deliver(ctx, models.LabelRecord{ID: "r1", WasteName: "Spent acid", RecordedDate: historyNow}))

	first, err := svc.List(ctx, models.HistoryAll, "")
	require.NoError(t, err)
	first[0].WasteName = "edited"

	second, err := svc.List(ctx, models.HistoryAll, "")
	require.NoError(t, err)
	second[0].ID = "edited"

	third, err := svc.List(ctx, models.HistoryAll, "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists, "later listings come from cache")
	assert.Equal(t, "r1", third[0].ID)
	assert.Equal(t, "Spent acid", third[0].WasteName)
}

func TestList_TextFilter(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewRepository())

	require.NoError(t, svc.Deliver(ctx, models.LabelRecord{ID: "r1", WasteName: "Spent acid", WasteCode: "900-300-34", RecordedDate: historyNow}))
	require.NoError(t, svc.Deliver(ctx, models.LabelRecord{ID: "r2", WasteName: "Mineral oil", WasteCode: "900-041-49", RecordedDate: historyNow}))

	records, err := svc.List(ctx, models.HistoryAll, "oil")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r2", records[0].ID)
}

func TestList_StoreError(t *testing.T) {
	store := &countingStore{Repository: memory.NewRepository(), err: errors.New("db down")}
	svc := newTestService(store)

	_, err := svc.List(context.Background(), models.HistoryAll, "")
	require.Error(t, err)
}

func TestPrintedOn_UsesPrintTime(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewRepository())

	backfilled := models.LabelRecord{ID: "old", RecordedDate: historyNow.AddDate(0, 0, -7), PrintedAt: historyNow, Backfilled: true}
	yesterday := models.LabelRecord{ID: "y", RecordedDate: historyNow.AddDate(0, 0, -1), PrintedAt: historyNow.AddDate(0, 0, -1)}
	require.NoError(t, svc.Deliver(ctx, backfilled))
	require.NoError(t, svc.Deliver(ctx, yesterday))

	records, err := svc.PrintedOn(ctx, historyNow)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "old", records[0].ID)
}
