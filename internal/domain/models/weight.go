package models

import "strings"

// WeightUnit enumerates the units a weight can be displayed in.
type WeightUnit string

const (
	// UnitKilogram is the base unit; canonical weights are always stored in it.
	UnitKilogram WeightUnit = "KG"
	// UnitTonne is the scaled display unit.
	UnitTonne WeightUnit = "T"
)

// KilogramsPerTonne converts between the scaled and base unit.
const KilogramsPerTonne = 1000.0

// Valid reports whether the unit is one of the supported units.
func (u WeightUnit) Valid() bool {
	return u == UnitKilogram || u == UnitTonne
}

// Decimals is the number of fraction digits shown for the unit.
func (u WeightUnit) Decimals() int {
	if u == UnitTonne {
		return 3
	}
	return 2
}

// ParseWeightUnit normalizes user supplied unit names ("kg", "t").
func ParseWeightUnit(value string) WeightUnit {
	return WeightUnit(strings.ToUpper(strings.TrimSpace(value)))
}
