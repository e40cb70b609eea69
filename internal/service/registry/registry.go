package registry

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// ErrNotFound indicates the requested waste entry does not exist.
var ErrNotFound = errors.New("waste entry not found")

// ErrNotPermutation indicates a reorder request added, dropped or repeated entries.
var ErrNotPermutation = errors.New("order is not a permutation of the catalog")

// Registry holds the waste catalog, the current selection and the custom display order.
// It is not safe for concurrent use; callers serialize access.
type Registry struct {
	entries  map[string]*models.WasteEntry
	seeded   []string
	custom   []string
	selected string
	logger   *zap.Logger
}

// New seeds a registry from the supplied catalog. Duplicate ids are rejected.
func New(catalog []models.WasteEntry, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		entries: make(map[string]*models.WasteEntry, len(catalog)),
		seeded:  make([]string, 0, len(catalog)),
		logger:  logger,
	}

	for _, entry := range catalog {
		if entry.ID == "" {
			return nil, errors.New("waste entry id must not be empty")
		}
		if _, exists := r.entries[entry.ID]; exists {
			return nil, fmt.Errorf("duplicate waste entry id %q", entry.ID)
		}
		if entry.Frequency < 0 {
			entry.Frequency = 0
		}
		e := entry
		r.entries[e.ID] = &e
		r.seeded = append(r.seeded, e.ID)
	}

	r.custom = append([]string(nil), r.seeded...)
	return r, nil
}

// Select marks the entry as selected and counts one use of it.
func (r *Registry) Select(id string) (models.WasteEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return models.WasteEntry{}, fmt.Errorf("select %q: %w", id, ErrNotFound)
	}

	entry.Frequency++
	r.selected = id

	r.logger.Debug("waste entry selected", zap.String("id", id), zap.Int("frequency", entry.Frequency))
	return *entry, nil
}

// ClearSelection drops the current selection, if any.
func (r *Registry) ClearSelection() {
	r.selected = ""
}

// Selected returns the selected entry.
func (r *Registry) Selected() (models.WasteEntry, bool) {
	if r.selected == "" {
		return models.WasteEntry{}, false
	}
	entry, ok := r.entries[r.selected]
	if !ok {
		return models.WasteEntry{}, false
	}
	return *entry, true
}

// Get returns a copy of a single entry.
func (r *Registry) Get(id string) (models.WasteEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return models.WasteEntry{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return *entry, nil
}

// Len returns the number of catalog entries.
func (r *Registry) Len() int {
	return len(r.seeded)
}

// Reorder replaces the custom display order. The frequency view is unaffected.
func (r *Registry) Reorder(ids []string) error {
	if len(ids) != len(r.entries) {
		return fmt.Errorf("reorder with %d ids for %d entries: %w", len(ids), len(r.entries), ErrNotPermutation)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.entries[id]; !ok {
			return fmt.Errorf("reorder unknown id %q: %w", id, ErrNotPermutation)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("reorder repeated id %q: %w", id, ErrNotPermutation)
		}
		seen[id] = struct{}{}
	}

	r.custom = append(r.custom[:0], ids...)
	r.logger.Debug("custom order updated", zap.Int("entries", len(ids)))
	return nil
}

// Move relocates one entry to the position currently held by target, the way a
// drag-and-drop lands in the custom list.
func (r *Registry) Move(id, target string) error {
	from, to := -1, -1
	for i, current := range r.custom {
		if current == id {
			from = i
		}
		if current == target {
			to = i
		}
	}
	if from < 0 {
		return fmt.Errorf("move %q: %w", id, ErrNotFound)
	}
	if to < 0 {
		return fmt.Errorf("move onto %q: %w", target, ErrNotFound)
	}
	if from == to {
		return nil
	}

	order := append([]string(nil), r.custom...)
	moved := order[from]
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]string{moved}, order[to:]...)...)
	return r.Reorder(order)
}

// List returns the catalog in the requested order.
func (r *Registry) List(mode models.SortMode) []models.WasteEntry {
	if mode == models.SortCustom {
		return r.collect(r.custom)
	}

	out := r.collect(r.seeded)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency > out[j].Frequency
	})
	return out
}

func (r *Registry) collect(order []string) []models.WasteEntry {
	out := make([]models.WasteEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *r.entries[id])
	}
	return out
}
