package models

import (
	"strings"
	"time"
)

// HistoryFilter narrows the print history to a period.
type HistoryFilter string

const (
	HistoryAll   HistoryFilter = "all"
	HistoryToday HistoryFilter = "today"
	HistoryWeek  HistoryFilter = "week"
	HistoryMonth HistoryFilter = "month"
)

// ParseHistoryFilter maps query values to a filter, defaulting to all.
func ParseHistoryFilter(value string) HistoryFilter {
	switch HistoryFilter(value) {
	case HistoryToday, HistoryWeek, HistoryMonth:
		return HistoryFilter(value)
	default:
		return HistoryAll
	}
}

// HistoryQuery describes a history lookup. Zero bounds are open. Bounds apply to the
// recorded date unless ByPrintTime is set.
type HistoryQuery struct {
	Since       time.Time
	Until       time.Time
	ByPrintTime bool
	Text        string
	Limit       int
}

// Matches reports whether a record satisfies the query, ignoring Limit.
func (q HistoryQuery) Matches(record LabelRecord) bool {
	at := record.RecordedDate
	if q.ByPrintTime {
		at = record.PrintedAt
	}
	if !q.Since.IsZero() && at.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !at.Before(q.Until) {
		return false
	}
	if q.Text == "" {
		return true
	}
	text := strings.ToLower(q.Text)
	return strings.Contains(strings.ToLower(record.WasteName), text) ||
		strings.Contains(strings.ToLower(record.WasteCode), text)
}
