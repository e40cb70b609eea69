package collection

import (
	"context"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// Sink receives every emitted label record, e.g. the printer service or the history log.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, record models.LabelRecord) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc struct {
	Label string
	Fn    func(ctx context.Context, record models.LabelRecord) error
}

// Name implements Sink.
func (s SinkFunc) Name() string { return s.Label }

// Deliver implements Sink.
func (s SinkFunc) Deliver(ctx context.Context, record models.LabelRecord) error {
	return s.Fn(ctx, record)
}
