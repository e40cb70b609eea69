package collection

import "time"

// Backfill holds the retroactive date used in backfill mode. Future dates are ignored.
type Backfill struct {
	now  func() time.Time
	loc  *time.Location
	date time.Time
	set  bool
}

// NewBackfill builds a qualifier that judges "today" with now in loc.
func NewBackfill(now func() time.Time, loc *time.Location) *Backfill {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Backfill{now: now, loc: loc}
}

// SetDate stores the calendar day of date. Days after today are ignored and the previous
// value is kept.
func (b *Backfill) SetDate(date time.Time) bool {
	day := startOfDay(date, b.loc)
	if day.After(startOfDay(b.now(), b.loc)) {
		return false
	}
	b.date = day
	b.set = true
	return true
}

// SetToday stores the current calendar day.
func (b *Backfill) SetToday() {
	b.date = startOfDay(b.now(), b.loc)
	b.set = true
}

// Clear removes the date.
func (b *Backfill) Clear() {
	b.date = time.Time{}
	b.set = false
}

// Date returns the stored day, if any.
func (b *Backfill) Date() (time.Time, bool) {
	return b.date, b.set
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
