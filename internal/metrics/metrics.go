// Package metrics exposes Prometheus metrics for the label station.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// StationMetrics contains Prometheus metrics for printing and device state.
type StationMetrics struct {
	registry *prometheus.Registry

	labelsPrintedTotal   *prometheus.CounterVec
	labelWeightKG        prometheus.Histogram
	printRefusedTotal    prometheus.Counter
	deliveryFailureTotal *prometheus.CounterVec
	deviceConnected      *prometheus.GaugeVec
	scaleReadingsTotal   *prometheus.CounterVec
	exportRowsTotal      prometheus.Counter
}

// NewStationMetrics creates and registers the station metrics.
func NewStationMetrics(registry *prometheus.Registry) (*StationMetrics, error) {
	m := &StationMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *StationMetrics) initMetrics() {
	m.labelsPrintedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelstation_labels_printed_total",
			Help: "Total number of label records emitted",
		},
		[]string{"mode", "unit"}, // mode: normal, backfill
	)

	m.labelWeightKG = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "labelstation_label_weight_kg",
			Help: "Canonical weight carried by emitted labels",
			// 1 kg to ~16 t
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	m.printRefusedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "labelstation_print_refused_total",
			Help: "Total number of print requests refused by the gate",
		},
	)

	m.deliveryFailureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelstation_delivery_failures_total",
			Help: "Total number of label record delivery failures",
		},
		[]string{"sink"},
	)

	m.deviceConnected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelstation_device_connected",
			Help: "Whether a peripheral is connected (1) or not (0)",
		},
		[]string{"device"},
	)

	m.scaleReadingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelstation_scale_readings_total",
			Help: "Total number of simulated scale readings",
		},
		[]string{"status"}, // status: applied, locked
	)

	m.exportRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "labelstation_export_rows_total",
			Help: "Total number of history rows exported to the spreadsheet",
		},
	)
}

// Describe implements the Collector interface
func (m *StationMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.labelsPrintedTotal.Describe(ch)
	m.labelWeightKG.Describe(ch)
	m.printRefusedTotal.Describe(ch)
	m.deliveryFailureTotal.Describe(ch)
	m.deviceConnected.Describe(ch)
	m.scaleReadingsTotal.Describe(ch)
	m.exportRowsTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *StationMetrics) Collect(ch chan<- prometheus.Metric) {
	m.labelsPrintedTotal.Collect(ch)
	m.labelWeightKG.Collect(ch)
	m.printRefusedTotal.Collect(ch)
	m.deliveryFailureTotal.Collect(ch)
	m.deviceConnected.Collect(ch)
	m.scaleReadingsTotal.Collect(ch)
	m.exportRowsTotal.Collect(ch)
}

// Name implements collection.Sink.
func (m *StationMetrics) Name() string { return "metrics" }

// Deliver implements collection.Sink by counting the emitted record.
func (m *StationMetrics) Deliver(_ context.Context, record models.LabelRecord) error {
	mode := models.ModeNormal
	if record.Backfilled {
		mode = models.ModeBackfill
	}
	m.labelsPrintedTotal.WithLabelValues(string(mode), string(record.DisplayUnit)).Inc()
	m.labelWeightKG.Observe(record.CanonicalKG)
	return nil
}

// RecordPrintRefused counts a print refused by the gate.
func (m *StationMetrics) RecordPrintRefused() {
	m.printRefusedTotal.Inc()
}

// RecordDeliveryFailure counts a sink failure.
func (m *StationMetrics) RecordDeliveryFailure(sink string) {
	m.deliveryFailureTotal.WithLabelValues(sink).Inc()
}

// RecordScaleReading counts a simulated reading; applied is false when the lock dropped it.
func (m *StationMetrics) RecordScaleReading(applied bool) {
	status := "applied"
	if !applied {
		status = "locked"
	}
	m.scaleReadingsTotal.WithLabelValues(status).Inc()
}

// SetDeviceStatus updates the connectivity gauges.
func (m *StationMetrics) SetDeviceStatus(status models.DeviceStatus) {
	m.deviceConnected.WithLabelValues(string(models.DevicePrinter)).Set(connected(status.Printer))
	m.deviceConnected.WithLabelValues(string(models.DeviceScale)).Set(connected(status.Scale))
}

// RecordExportRows counts rows written by the spreadsheet export.
func (m *StationMetrics) RecordExportRows(n int) {
	m.exportRowsTotal.Add(float64(n))
}

func connected(status models.ConnectionStatus) float64 {
	if status == models.StatusConnected {
		return 1
	}
	return 0
}
