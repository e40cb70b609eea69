package printer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwlabel/labelstation/internal/config"
	"github.com/hwlabel/labelstation/internal/domain/models"
)

func testRecord() models.LabelRecord {
	return models.LabelRecord{
		ID:            "rec-1",
		DigitalID:     "DW90030034123456",
		WasteName:     "Spent acid",
		WasteCode:     "900-300-34",
		CanonicalKG:   88,
		DisplayWeight: "88.00 KG",
		LabelSize:     models.LabelSize100x100,
		RecordedDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestPrintLabel_Success(t *testing.T) {
	var got PrintLabelRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/labels", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"job-7","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewClient(config.PrinterConfig{BaseURL: srv.URL + "/", APIKey: "secret", Timeout: time.Second})
	resp, err := client.PrintLabel(context.Background(), RequestFromRecord(testRecord()))
	require.NoError(t, err)

	assert.Equal(t, "job-7", resp.JobID)
	assert.Equal(t, "rec-1", got.RecordID)
	assert.Equal(t, 88.0, got.WeightKG)
	assert.Equal(t, "2026-03-02", got.RecordedDate)
	assert.Equal(t, models.LabelSize100x100, got.LabelSize)
}

func TestPrintLabel_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":"offline","message":"printer offline"}}`))
	}))
	defer srv.Close()

	sink := Sink{Client: NewClient(config.PrinterConfig{BaseURL: srv.URL, Timeout: time.Second})}
	err := sink.Deliver(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "printer offline")
	assert.Equal(t, "printer", sink.Name())
}
