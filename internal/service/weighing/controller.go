package weighing

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// ErrInvalidUnit indicates an unsupported display unit.
var ErrInvalidUnit = errors.New("invalid weight unit")

// Controller owns the canonical weight. The stored value is always kilograms; the display
// unit only affects rendering and how raw input is interpreted.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	canonicalKG float64
	unit        models.WeightUnit
	locked      bool
	buffer      string
	logger      *zap.Logger
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	CanonicalKG float64           `json:"canonical_kg"`
	Unit        models.WeightUnit `json:"unit"`
	Locked      bool              `json:"locked"`
	Display     string            `json:"display"`
}

// NewController returns an unlocked controller at zero, displaying kilograms.
func NewController(logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{unit: models.UnitKilogram, logger: logger}
}

// SetDisplayUnit switches the display unit. The canonical value is left untouched.
func (c *Controller) SetDisplayUnit(unit models.WeightUnit) error {
	if !unit.Valid() {
		return fmt.Errorf("set display unit %q: %w", unit, ErrInvalidUnit)
	}
	if unit == c.unit {
		return nil
	}
	c.unit = unit
	// The keystroke buffer was typed in the old unit.
	c.buffer = ""
	return nil
}

// SetRawInput stores operator input typed in the current display unit. It is refused while
// the weight is locked.
func (c *Controller) SetRawInput(text string) bool {
	if c.locked {
		c.logger.Debug("raw input rejected while locked")
		return false
	}

	sanitized := Sanitize(text)
	c.buffer = sanitized
	c.canonicalKG = ToCanonical(ParseSanitized(sanitized), c.unit)
	return true
}

// ApplyReading adds a scale delta to the canonical value. The lock is checked here, at
// the moment of mutation, so a reading scheduled before a lock never lands after it.
func (c *Controller) ApplyReading(deltaKG float64) bool {
	if c.locked {
		return false
	}

	next := c.canonicalKG + deltaKG
	if next < 0 {
		next = 0
	}
	c.canonicalKG = next
	c.buffer = ""
	return true
}

// ToggleLock flips the lock and returns the new state.
func (c *Controller) ToggleLock() bool {
	c.locked = !c.locked
	c.logger.Debug("weight lock toggled", zap.Bool("locked", c.locked), zap.Float64("canonical_kg", c.canonicalKG))
	return c.locked
}

// Reset zeroes the weight and releases the lock. The display unit is kept.
func (c *Controller) Reset() {
	c.canonicalKG = 0
	c.locked = false
	c.buffer = ""
}

// CanonicalKG returns the stored weight in kilograms.
func (c *Controller) CanonicalKG() float64 { return c.canonicalKG }

// Unit returns the display unit.
func (c *Controller) Unit() models.WeightUnit { return c.unit }

// Locked reports whether the weight is locked.
func (c *Controller) Locked() bool { return c.locked }

// Display renders the value shown in the weight field. While locked it is always the
// converted canonical value, never the keystroke buffer.
func (c *Controller) Display() string {
	if !c.locked && c.buffer != "" {
		return c.buffer
	}
	if c.canonicalKG == 0 && !c.locked {
		return ""
	}
	return Format(c.canonicalKG, c.unit)
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		CanonicalKG: c.canonicalKG,
		Unit:        c.unit,
		Locked:      c.locked,
		Display:     c.Display(),
	}
}
