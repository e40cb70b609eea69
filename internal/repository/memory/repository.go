package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// Repository keeps label records in process memory. It backs the station when no
// MongoDB URI is configured, and the tests.
type Repository struct {
	mu      sync.RWMutex
	records []models.LabelRecord
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// SaveLabelRecord appends a record.
func (r *Repository) SaveLabelRecord(_ context.Context, record models.LabelRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// ListLabelRecords returns matching records, newest print first.
func (r *Repository) ListLabelRecords(_ context.Context, query models.HistoryQuery) ([]models.LabelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.LabelRecord, 0)
	for _, record := range r.records {
		if query.Matches(record) {
			out = append(out, record)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PrintedAt.After(out[j].PrintedAt)
	})

	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}
