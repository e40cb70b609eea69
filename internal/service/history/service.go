package history

import (
	"context"
	"fmt"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

const (
	// DefaultLimit caps a history listing.
	DefaultLimit = 200

	listCacheTTL     = 30 * time.Second
	listCacheCleanup = 5 * time.Minute
	dateLayout       = "2006-01-02"
)

// Store persists and lists label records.
type Store interface {
	SaveLabelRecord(ctx context.Context, record models.LabelRecord) error
	ListLabelRecords(ctx context.Context, query models.HistoryQuery) ([]models.LabelRecord, error)
}

// Service is the history log for emitted labels. Listings are cached briefly; any new
// record flushes the cache.
type Service struct {
	store  Store
	cache  *gocache.Cache
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// NewService wires a new history service instance.
func NewService(store Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:  store,
		cache:  gocache.New(listCacheTTL, listCacheCleanup),
		now:    time.Now,
		loc:    loc,
		logger: logger,
	}
}

// Name implements collection.Sink.
func (s *Service) Name() string { return "history" }

// Deliver implements collection.Sink by appending the record to the store.
func (s *Service) Deliver(ctx context.Context, record models.LabelRecord) error {
	if err := s.store.SaveLabelRecord(ctx, record); err != nil {
		return fmt.Errorf("save label record %s: %w", record.ID, err)
	}
	s.cache.Flush()
	s.logger.Debug("label record stored", zap.String("record_id", record.ID))
	return nil
}

// List returns records for the period filter whose waste name or code contains text.
// The result is the caller's own copy.
func (s *Service) List(ctx context.Context, filter models.HistoryFilter, text string) ([]models.LabelRecord, error) {
	now := s.now().In(s.loc)
	key := fmt.Sprintf("%s|%s|%s", filter, now.Format(dateLayout), text)

	if cached, found := s.cache.Get(key); found {
		if records, ok := cached.([]models.LabelRecord); ok {
			s.logger.Debug("history cache hit", zap.String("key", key))
			return slices.Clone(records), nil
		}
	}

	query := QueryFor(filter, now)
	query.Text = text
	query.Limit = DefaultLimit

	records, err := s.store.ListLabelRecords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list label records: %w", err)
	}

	s.cache.SetDefault(key, records)
	return slices.Clone(records), nil
}

// QueryFor turns a period filter into recorded-date bounds relative to now.
func QueryFor(filter models.HistoryFilter, now time.Time) models.HistoryQuery {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter {
	case models.HistoryToday:
		return models.HistoryQuery{Since: today, Until: today.AddDate(0, 0, 1)}
	case models.HistoryWeek:
		return models.HistoryQuery{Since: mondayStart(today)}
	case models.HistoryMonth:
		return models.HistoryQuery{Since: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())}
	default:
		return models.HistoryQuery{}
	}
}

// PrintedOn lists every record printed during the calendar day of day, whatever its
// recorded date.
func (s *Service) PrintedOn(ctx context.Context, day time.Time) ([]models.LabelRecord, error) {
	day = day.In(s.loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)

	records, err := s.store.ListLabelRecords(ctx, models.HistoryQuery{
		Since:       start,
		Until:       start.AddDate(0, 0, 1),
		ByPrintTime: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list records printed on %s: %w", start.Format(dateLayout), err)
	}
	return records, nil
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}
