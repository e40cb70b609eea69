package printer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/hwlabel/labelstation/internal/config"
	"github.com/hwlabel/labelstation/internal/domain/models"
)

// Client exposes the label printing service operations used by the station.
type Client interface {
	PrintLabel(ctx context.Context, req PrintLabelRequest) (*PrintLabelResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a printer service client using the provided configuration values.
func NewClient(cfg config.PrinterConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &APIClient{httpClient: restyClient}
}

// PrintLabelRequest is the job sent to the printing service.
type PrintLabelRequest struct {
	RecordID      string           `json:"record_id"`
	DigitalID     string           `json:"digital_id"`
	WasteName     string           `json:"waste_name"`
	WasteCode     string           `json:"waste_code"`
	WeightKG      float64          `json:"weight_kg"`
	DisplayWeight string           `json:"display_weight"`
	LabelSize     models.LabelSize `json:"label_size"`
	RecordedDate  string           `json:"recorded_date"`
	Backfilled    bool             `json:"backfilled"`
}

// PrintLabelResponse mirrors the successful response from the printing service.
type PrintLabelResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// apiError represents a printing service error payload.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RequestFromRecord maps an emitted label record to a print job.
func RequestFromRecord(record models.LabelRecord) PrintLabelRequest {
	return PrintLabelRequest{
		RecordID:      record.ID,
		DigitalID:     record.DigitalID,
		WasteName:     record.WasteName,
		WasteCode:     record.WasteCode,
		WeightKG:      record.CanonicalKG,
		DisplayWeight: record.DisplayWeight,
		LabelSize:     record.LabelSize,
		RecordedDate:  record.RecordedDate.Format("2006-01-02"),
		Backfilled:    record.Backfilled,
	}
}

// PrintLabel submits one label to the printing service.
func (c *APIClient) PrintLabel(ctx context.Context, req PrintLabelRequest) (*PrintLabelResponse, error) {
	result := new(PrintLabelResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("/labels")
	if err != nil {
		return nil, fmt.Errorf("send print job: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		if message == "" {
			message = resp.Status()
		}
		return nil, fmt.Errorf("printer api error: status=%d, code=%s, message=%s", resp.StatusCode(), apiErr.Error.Code, message)
	}

	return result, nil
}

// Sink forwards emitted label records to a printing service client.
type Sink struct {
	Client Client
}

// Name implements collection.Sink.
func (s Sink) Name() string { return "printer" }

// Deliver implements collection.Sink.
func (s Sink) Deliver(ctx context.Context, record models.LabelRecord) error {
	_, err := s.Client.PrintLabel(ctx, RequestFromRecord(record))
	return err
}
