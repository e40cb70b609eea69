package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
	"github.com/hwlabel/labelstation/internal/service/collection"
	"github.com/hwlabel/labelstation/internal/service/registry"
	"github.com/hwlabel/labelstation/internal/service/weighing"
)

const dateLayout = "2006-01-02"

// DeviceReporter exposes the current printer and scale connectivity.
type DeviceReporter interface {
	Status() models.DeviceStatus
}

// HistoryLister lists emitted label records.
type HistoryLister interface {
	List(ctx context.Context, filter models.HistoryFilter, text string) ([]models.LabelRecord, error)
}

// StationHandler adapts the label station session to HTTP.
type StationHandler struct {
	session *collection.Session
	devices DeviceReporter
	history HistoryLister
	loc     *time.Location
	logger  *zap.Logger
}

// NewStationHandler constructs the HTTP handler adapter. devices and history may be nil.
func NewStationHandler(session *collection.Session, devices DeviceReporter, history HistoryLister, loc *time.Location, logger *zap.Logger) *StationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &StationHandler{session: session, devices: devices, history: history, loc: loc, logger: logger}
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type moveRequest struct {
	Target string `json:"target" binding:"required"`
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

type unitRequest struct {
	Unit string `json:"unit" binding:"required"`
}

type inputRequest struct {
	Value string `json:"value"`
}

type sizeRequest struct {
	Size string `json:"size" binding:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type dateRequest struct {
	Date string `json:"date" binding:"required"`
}

// ListWasteTypes returns the catalog in the requested or session sort order.
func (h *StationHandler) ListWasteTypes(c *gin.Context) {
	if sort := c.Query("sort"); sort != "" {
		mode := models.ParseSortMode(sort)
		c.JSON(http.StatusOK, gin.H{"sort": mode, "items": h.session.EntriesBy(mode)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort": h.session.Preview().SortMode, "items": h.session.Entries()})
}

// SetSortMode stores the session sort order.
func (h *StationHandler) SetSortMode(c *gin.Context) {
	var req sortRequest
	if !h.bind(c, &req) {
		return
	}
	mode := models.SortMode(req.Sort)
	if err := h.session.SetSortMode(mode); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort": mode, "items": h.session.Entries()})
}

// SelectWasteType picks a waste type for the next label.
func (h *StationHandler) SelectWasteType(c *gin.Context) {
	entry, err := h.session.Select(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ClearSelection drops the current waste type.
func (h *StationHandler) ClearSelection(c *gin.Context) {
	h.session.ClearSelection()
	c.JSON(http.StatusOK, h.session.Preview())
}

// ReorderWasteTypes replaces the custom order.
func (h *StationHandler) ReorderWasteTypes(c *gin.Context) {
	var req reorderRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.session.Reorder(req.IDs); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.session.EntriesBy(models.SortCustom)})
}

// MoveWasteType drops one waste type onto another's slot in the custom order.
func (h *StationHandler) MoveWasteType(c *gin.Context) {
	var req moveRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.session.Move(c.Param("id"), req.Target); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.session.EntriesBy(models.SortCustom)})
}

// SetWeightUnit switches the display unit.
func (h *StationHandler) SetWeightUnit(c *gin.Context) {
	var req unitRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.session.SetDisplayUnit(models.ParseWeightUnit(req.Unit)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Weight())
}

// SetWeightInput applies keypad text. It conflicts while the weight is locked.
func (h *StationHandler) SetWeightInput(c *gin.Context) {
	var req inputRequest
	if !h.bind(c, &req) {
		return
	}
	if !h.session.SetRawInput(req.Value) {
		c.JSON(http.StatusConflict, gin.H{"error": "weight is locked", "weight": h.session.Weight()})
		return
	}
	c.JSON(http.StatusOK, h.session.Weight())
}

// ToggleWeightLock flips the weight lock.
func (h *StationHandler) ToggleWeightLock(c *gin.Context) {
	h.session.ToggleLock()
	c.JSON(http.StatusOK, h.session.Weight())
}

// SetLabelSize changes the label dimension.
func (h *StationHandler) SetLabelSize(c *gin.Context) {
	var req sizeRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.session.SetLabelSize(models.LabelSize(req.Size)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Preview())
}

// SetMode switches between normal and backfill entry.
func (h *StationHandler) SetMode(c *gin.Context) {
	var req modeRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.session.SetMode(models.EntryMode(req.Mode)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Preview())
}

// SetBackfillDate sets the retroactive day. Future days are ignored, not rejected.
func (h *StationHandler) SetBackfillDate(c *gin.Context) {
	var req dateRequest
	if !h.bind(c, &req) {
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	applied := h.session.SetBackfillDate(date)
	c.JSON(http.StatusOK, gin.H{"applied": applied, "preview": h.session.Preview()})
}

// Preview returns what would print now.
func (h *StationHandler) Preview(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Preview())
}

// Print confirms the current label.
func (h *StationHandler) Print(c *gin.Context) {
	record, err := h.session.ConfirmPrint(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, record)
	case errors.Is(err, collection.ErrDelivery):
		// The record exists and the station has moved on; only delivery lagged.
		h.logger.Warn("label emitted with delivery errors", zap.String("record_id", record.ID), zap.Error(err))
		c.JSON(http.StatusAccepted, gin.H{"record": record, "warning": err.Error()})
	default:
		h.fail(c, err)
	}
}

// Devices reports printer and scale connectivity.
func (h *StationHandler) Devices(c *gin.Context) {
	if h.devices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "device feed disabled"})
		return
	}
	c.JSON(http.StatusOK, h.devices.Status())
}

// History lists emitted labels, newest first.
func (h *StationHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history disabled"})
		return
	}
	filter := models.ParseHistoryFilter(c.Query("filter"))
	records, err := h.history.List(c.Request.Context(), filter, c.Query("q"))
	if err != nil {
		h.logger.Error("failed listing history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter, "items": records})
}

func (h *StationHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *StationHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrNotPermutation),
		errors.Is(err, weighing.ErrInvalidUnit),
		errors.Is(err, collection.ErrInvalidLabelSize),
		errors.Is(err, collection.ErrInvalidMode),
		errors.Is(err, collection.ErrInvalidSortMode):
		return http.StatusBadRequest
	case errors.Is(err, collection.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
