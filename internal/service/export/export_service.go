package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
	repo "github.com/hwlabel/labelstation/internal/repository/sheets"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Header names the columns produced by Row.
var Header = []interface{}{
	"record_id", "digital_id", "recorded_date", "printed_at", "waste_name", "waste_code",
	"weight_kg", "display_weight", "display_unit", "label_size", "backfilled",
}

// HistorySource lists records printed on a given day.
type HistorySource interface {
	PrintedOn(ctx context.Context, day time.Time) ([]models.LabelRecord, error)
}

// RowObserver counts exported rows.
type RowObserver interface {
	RecordExportRows(n int)
}

// Service copies label history into a spreadsheet, one row per record.
type Service struct {
	history    HistorySource
	repo       repo.Repository
	sheetRange string
	observer   RowObserver
	logger     *zap.Logger
}

// NewService wires a new export service instance.
func NewService(history HistorySource, repository repo.Repository, sheetRange string, observer RowObserver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		history:    history,
		repo:       repository,
		sheetRange: sheetRange,
		observer:   observer,
		logger:     logger,
	}
}

// ExportDay appends every record printed on day that is not yet in the sheet. It returns
// the number of rows written.
func (s *Service) ExportDay(ctx context.Context, day time.Time) (int, error) {
	records, err := s.history.PrintedOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("load history for export: %w", err)
	}
	if len(records) == 0 {
		s.logger.Info("nothing to export", zap.String("day", day.Format(dateLayout)))
		return 0, nil
	}

	exported, err := s.exportedIDs(ctx)
	if err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(records))
	// Oldest first so the sheet reads chronologically.
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if _, done := exported[record.ID]; done {
			continue
		}
		rows = append(rows, Row(record))
	}

	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.repo.EnsureHeader(ctx, s.sheetRange, Header); err != nil {
		return 0, fmt.Errorf("write export header: %w", err)
	}
	if err := s.repo.WriteRows(ctx, s.sheetRange, rows); err != nil {
		return 0, fmt.Errorf("write export rows: %w", err)
	}

	if s.observer != nil {
		s.observer.RecordExportRows(len(rows))
	}
	s.logger.Info("label history exported", zap.String("day", day.Format(dateLayout)), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (s *Service) exportedIDs(ctx context.Context) (map[string]struct{}, error) {
	existing, err := s.repo.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return nil, fmt.Errorf("read exported rows: %w", err)
	}

	ids := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		if len(row) == 0 {
			continue
		}
		ids[fmt.Sprint(row[0])] = struct{}{}
	}
	return ids, nil
}

// Row renders a record in sheet column order.
func Row(record models.LabelRecord) []interface{} {
	return []interface{}{
		record.ID,
		record.DigitalID,
		record.RecordedDate.Format(dateLayout),
		record.PrintedAt.Format(dateTimeLayout),
		record.WasteName,
		record.WasteCode,
		record.CanonicalKG,
		record.DisplayWeight,
		string(record.DisplayUnit),
		string(record.LabelSize),
		record.Backfilled,
	}
}
