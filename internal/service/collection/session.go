package collection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
	"github.com/hwlabel/labelstation/internal/service/registry"
	"github.com/hwlabel/labelstation/internal/service/weighing"
)

// ErrNotReady indicates a print was requested while the gate is incomplete.
var ErrNotReady = errors.New("label is not ready to print")

// ErrInvalidLabelSize indicates an unsupported label dimension.
var ErrInvalidLabelSize = errors.New("invalid label size")

// ErrInvalidMode indicates an unknown entry mode.
var ErrInvalidMode = errors.New("invalid entry mode")

// ErrInvalidSortMode indicates an unknown catalog sort mode.
var ErrInvalidSortMode = errors.New("invalid sort mode")

// ErrDelivery wraps failures of one or more sinks after a record was emitted.
var ErrDelivery = errors.New("label record delivery failed")

const dateLayout = "2006-01-02"

// Observer is told about refused prints and failed deliveries.
type Observer interface {
	RecordPrintRefused()
	RecordDeliveryFailure(sink string)
}

type nopObserver struct{}

func (nopObserver) RecordPrintRefused() {}
func (nopObserver) RecordDeliveryFailure(string) {}

// Options configures a Session.
type Options struct {
	Catalog   []models.WasteEntry
	LabelSize models.LabelSize
	Location  *time.Location
	Now       func() time.Time
	NewID     func() string
	Sinks     []Sink
	Observer  Observer
	Logger    *zap.Logger
}

// Session is the state behind one label station: waste selection, weighing, label settings
// and the backfill date. All methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	registry  *registry.Registry
	weight    *weighing.Controller
	backfill  *Backfill
	mode      models.EntryMode
	sortMode  models.SortMode
	labelSize models.LabelSize
	sinks     []Sink
	observer  Observer
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

// Preview is what the station would print right now.
type Preview struct {
	Gate          GateState          `json:"gate"`
	Selected      *models.WasteEntry `json:"selected,omitempty"`
	Weight        weighing.Snapshot  `json:"weight"`
	DisplayWeight string             `json:"display_weight"`
	LabelSize     models.LabelSize   `json:"label_size"`
	Mode          models.EntryMode   `json:"mode"`
	BackfillDate  string             `json:"backfill_date,omitempty"`
	SortMode      models.SortMode    `json:"sort_mode"`
}

// NewSession seeds a session from the catalog.
func NewSession(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reg, err := registry.New(opts.Catalog, logger.Named("registry"))
	if err != nil {
		return nil, fmt.Errorf("seed waste registry: %w", err)
	}

	size := opts.LabelSize
	if size == "" {
		size = models.DefaultLabelSize
	}
	if !size.Valid() {
		return nil, fmt.Errorf("label size %q: %w", size, ErrInvalidLabelSize)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Session{
		registry:  reg,
		weight:    weighing.NewController(logger.Named("weighing")),
		backfill:  NewBackfill(now, opts.Location),
		mode:      models.ModeNormal,
		sortMode:  models.SortByFrequency,
		labelSize: size,
		sinks:     opts.Sinks,
		observer:  observer,
		now:       now,
		newID:     newID,
		logger:    logger,
	}, nil
}

// AddSink registers another receiver for emitted records.
func (s *Session) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Select picks a waste entry and counts the use.
func (s *Session) Select(id string) (models.WasteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Select(id)
}

// ClearSelection drops the selected entry.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.ClearSelection()
}

// Reorder replaces the custom catalog order.
func (s *Session) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Reorder(ids)
}

// Move drags one entry onto another's position in the custom order.
func (s *Session) Move(id, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Move(id, target)
}

// SetSortMode changes the catalog view used by Entries.
func (s *Session) SetSortMode(mode models.SortMode) error {
	if !mode.Valid() {
		return fmt.Errorf("set sort mode %q: %w", mode, ErrInvalidSortMode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortMode = mode
	return nil
}

// Entries lists the catalog in the session's sort mode.
func (s *Session) Entries() []models.WasteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List(s.sortMode)
}

// EntriesBy lists the catalog in an explicit sort mode.
func (s *Session) EntriesBy(mode models.SortMode) []models.WasteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List(mode)
}

// SetDisplayUnit changes how the weight is shown and typed.
func (s *Session) SetDisplayUnit(unit models.WeightUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weight.SetDisplayUnit(unit)
}

// SetRawInput applies operator input; false means the weight is locked.
func (s *Session) SetRawInput(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weight.SetRawInput(text)
}

// ToggleLock flips the weight lock and returns the new state.
func (s *Session) ToggleLock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weight.ToggleLock()
}

// ApplyReading feeds a scale delta; it is dropped while the weight is locked.
func (s *Session) ApplyReading(deltaKG float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weight.ApplyReading(deltaKG)
}

// Weight returns a copy of the weighing state.
func (s *Session) Weight() weighing.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weight.Snapshot()
}

// SetLabelSize changes the label dimension carried into the next record.
func (s *Session) SetLabelSize(size models.LabelSize) error {
	if !size.Valid() {
		return fmt.Errorf("set label size %q: %w", size, ErrInvalidLabelSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labelSize = size
	return nil
}

// SetMode switches between normal and backfill entry. Backfill starts at today; normal
// mode drops the date.
func (s *Session) SetMode(mode models.EntryMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case models.ModeNormal:
		s.backfill.Clear()
	case models.ModeBackfill:
		if _, ok := s.backfill.Date(); !ok {
			s.backfill.SetToday()
		}
	default:
		return fmt.Errorf("set mode %q: %w", mode, ErrInvalidMode)
	}
	s.mode = mode
	return nil
}

// SetBackfillDate sets the retroactive day. It is ignored outside backfill mode and for
// days after today.
func (s *Session) SetBackfillDate(date time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != models.ModeBackfill {
		return false
	}
	return s.backfill.SetDate(date)
}

// CanPrint reports whether a print would be accepted now.
func (s *Session) CanPrint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateLocked() == GateReady
}

// Gate returns the current gate state.
func (s *Session) Gate() GateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateLocked()
}

// Preview snapshots the label as it would print now.
func (s *Session) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Preview{
		Gate:      s.gateLocked(),
		Weight:    s.weight.Snapshot(),
		LabelSize: s.labelSize,
		Mode:      s.mode,
		SortMode:  s.sortMode,
	}
	if entry, ok := s.registry.Selected(); ok {
		p.Selected = &entry
	}
	if p.Weight.CanonicalKG > 0 {
		p.DisplayWeight = displayWeight(p.Weight.CanonicalKG, p.Weight.Unit)
	}
	if date, ok := s.backfill.Date(); ok && s.mode == models.ModeBackfill {
		p.BackfillDate = date.Format(dateLayout)
	}
	return p
}

// ConfirmPrint emits one label record from the current state and resets the weight and
// selection. When the gate is incomplete nothing changes and ErrNotReady is returned.
// Sink failures are reported wrapped in ErrDelivery alongside the emitted record; the
// reset is never rolled back.
func (s *Session) ConfirmPrint(ctx context.Context) (models.LabelRecord, error) {
	s.mu.Lock()
	if s.gateLocked() != GateReady {
		s.mu.Unlock()
		s.observer.RecordPrintRefused()
		s.logger.Debug("print refused", zap.Error(ErrNotReady))
		return models.LabelRecord{}, ErrNotReady
	}

	record := s.buildRecordLocked()
	s.weight.Reset()
	s.registry.ClearSelection()
	sinks := append([]Sink(nil), s.sinks...)
	s.mu.Unlock()

	s.logger.Info("label record emitted",
		zap.String("record_id", record.ID),
		zap.String("waste_code", record.WasteCode),
		zap.Float64("canonical_kg", record.CanonicalKG),
		zap.String("label_size", string(record.LabelSize)),
		zap.Bool("backfilled", record.Backfilled))

	var errs []error
	for _, sink := range sinks {
		if err := sink.Deliver(ctx, record); err != nil {
			s.observer.RecordDeliveryFailure(sink.Name())
			s.logger.Error("label record delivery failed", zap.String("sink", sink.Name()), zap.String("record_id", record.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	if len(errs) > 0 {
		return record, fmt.Errorf("%w: %w", ErrDelivery, errors.Join(errs...))
	}
	return record, nil
}

func (s *Session) gateLocked() GateState {
	_, selected := s.registry.Selected()
	return Evaluate(selected, s.weight.CanonicalKG())
}

func (s *Session) buildRecordLocked() models.LabelRecord {
	entry, _ := s.registry.Selected()
	printedAt := s.now()
	canonical := s.weight.CanonicalKG()
	unit := s.weight.Unit()

	recorded := printedAt
	backfilled := false
	if date, ok := s.backfill.Date(); ok && s.mode == models.ModeBackfill {
		recorded = date
		backfilled = true
	}

	return models.LabelRecord{
		ID:            s.newID(),
		DigitalID:     digitalID(entry.Code, printedAt),
		WasteID:       entry.ID,
		WasteName:     entry.Name,
		WasteCode:     entry.Code,
		CanonicalKG:   canonical,
		DisplayUnit:   unit,
		DisplayWeight: displayWeight(canonical, unit),
		LabelSize:     s.labelSize,
		RecordedDate:  recorded,
		Backfilled:    backfilled,
		PrintedAt:     printedAt,
	}
}

func displayWeight(canonicalKG float64, unit models.WeightUnit) string {
	return weighing.Format(canonicalKG, unit) + " " + string(unit)
}

// digitalID is the label's trace code: DW, the waste code without dashes and the last six
// digits of the print time in milliseconds.
func digitalID(code string, at time.Time) string {
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "DW" + strings.ReplaceAll(code, "-", "") + millis
}
