package weighing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"12.5":     "12.5",
		"1.2.3":    "1.23",
		"abc":      "",
		"-42kg":    "42",
		"..5":      ".5",
		" 7 , 25 ": "725",
		"０12":      "12",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), "input %q", in)
	}
}

func TestParseSanitized_TreatsGarbageAsZero(t *testing.T) {
	assert.Equal(t, 0.0, ParseSanitized(""))
	assert.Equal(t, 0.0, ParseSanitized("."))
	assert.Equal(t, 1.0, ParseSanitized("1."))
	assert.Equal(t, 0.5, ParseSanitized(".5"))
}

func TestSetRawInput_BaseUnitStoresAsIs(t *testing.T) {
	c := NewController(nil)
	require.True(t, c.SetRawInput("12.5"))
	assert.Equal(t, 12.5, c.CanonicalKG())
	assert.Equal(t, "12.5", c.Display())
}

func TestSetRawInput_ScaledUnitConvertsToKilograms(t *testing.T) {
	c := NewController(nil)
	require.NoError(t, c.SetDisplayUnit(models.UnitTonne))

	require.True(t, c.SetRawInput("1.234"))
	assert.InDelta(t, 1234.0, c.CanonicalKG(), 1e-9)
}

func TestSetRawInput_MalformedBecomesZero(t *testing.T) {
	c := NewController(nil)
	require.True(t, c.SetRawInput("50"))
	require.True(t, c.SetRawInput("abc"))
	assert.Equal(t, 0.0, c.CanonicalKG())
}

func TestSetDisplayUnit_IsDisplayOnly(t *testing.T) {
	c := NewController(nil)
	require.True(t, c.SetRawInput("500"))
	c.ToggleLock()
	assert.Equal(t, "500.00", c.Display())

	require.NoError(t, c.SetDisplayUnit(models.UnitTonne))
	assert.Equal(t, 500.0, c.CanonicalKG())
	assert.Equal(t, "0.500", c.Display())

	require.NoError(t, c.SetDisplayUnit(models.UnitKilogram))
	assert.Equal(t, 500.0, c.CanonicalKG())
}

func TestSetDisplayUnit_RejectsUnknownUnit(t *testing.T) {
	c := NewController(nil)
	err := c.SetDisplayUnit("LB")
	require.True(t, errors.Is(err, ErrInvalidUnit))
	assert.Equal(t, models.UnitKilogram, c.Unit())
}

func TestLock_SuppressesInputAndReadings(t *testing.T) {
	c := NewController(nil)
	require.True(t, c.SetRawInput("88"))
	require.True(t, c.ToggleLock())

	assert.False(t, c.SetRawInput("999"))
	assert.False(t, c.ApplyReading(5))
	assert.Equal(t, 88.0, c.CanonicalKG())
	assert.Equal(t, "88.00", c.Display())

	require.False(t, c.ToggleLock())
	assert.True(t, c.ApplyReading(2))
	assert.Equal(t, 90.0, c.CanonicalKG())
}

func TestApplyReading_NeverNegative(t *testing.T) {
	c := NewController(nil)
	require.True(t, c.SetRawInput("1"))
	require.True(t, c.ApplyReading(-5))
	assert.Equal(t, 0.0, c.CanonicalKG())
}

func TestReset_KeepsDisplayUnit(t *testing.T) {
	c := NewController(nil)
	require.NoError(t, c.SetDisplayUnit(models.UnitTonne))
	require.True(t, c.SetRawInput("2"))
	c.ToggleLock()

	c.Reset()

	assert.Equal(t, 0.0, c.CanonicalKG())
	assert.False(t, c.Locked())
	assert.Equal(t, models.UnitTonne, c.Unit())
	assert.Equal(t, "", c.Display())
}

func TestFormat_Precision(t *testing.T) {
	assert.Equal(t, "1234.00", Format(1234, models.UnitKilogram))
	assert.Equal(t, "1.234", Format(1234, models.UnitTonne))
	assert.Equal(t, "0.013", Format(12.5, models.UnitTonne))
}

// TestRoundTrip_WithinDisplayPrecision is a property-based test using rapid.
func TestRoundTrip_WithinDisplayPrecision(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Float64Range(0, 1e6).Draw(rt, "canonical")
		unit := rapid.SampledFrom([]models.WeightUnit{models.UnitKilogram, models.UnitTonne}).Draw(rt, "unit")

		c := NewController(nil)
		require.NoError(rt, c.SetDisplayUnit(unit))
		require.True(rt, c.SetRawInput(Format(v, unit)))

		// Half a display step, in kilograms, plus float slack.
		tolerance := ToCanonical(0.5*math.Pow10(-unit.Decimals()), unit) + 1e-6
		require.InDelta(rt, v, c.CanonicalKG(), tolerance)
	})
}
