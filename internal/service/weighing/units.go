package weighing

import (
	"strconv"
	"strings"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// ToDisplay converts a canonical kilogram value into the given unit.
func ToDisplay(canonicalKG float64, unit models.WeightUnit) float64 {
	if unit == models.UnitTonne {
		return canonicalKG / models.KilogramsPerTonne
	}
	return canonicalKG
}

// ToCanonical converts a value expressed in unit back to kilograms.
func ToCanonical(value float64, unit models.WeightUnit) float64 {
	if unit == models.UnitTonne {
		return value * models.KilogramsPerTonne
	}
	return value
}

// Format renders a canonical value in unit with the unit's fixed precision.
func Format(canonicalKG float64, unit models.WeightUnit) string {
	return strconv.FormatFloat(ToDisplay(canonicalKG, unit), 'f', unit.Decimals(), 64)
}

// Sanitize keeps digits and the first decimal point; everything else is dropped.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	seenPoint := false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenPoint:
			seenPoint = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseSanitized reads a sanitized buffer, treating anything unparsable as zero.
func ParseSanitized(text string) float64 {
	if text == "" || text == "." {
		return 0
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
