package models

// SortMode selects how the waste catalog is ordered for display.
type SortMode string

const (
	SortByFrequency SortMode = "frequency"
	SortCustom      SortMode = "custom"
)

// Valid reports whether the mode is one of the supported sort modes.
func (m SortMode) Valid() bool {
	return m == SortByFrequency || m == SortCustom
}

// ParseSortMode maps free-form query values to a SortMode, defaulting to frequency.
func ParseSortMode(value string) SortMode {
	if SortMode(value) == SortCustom {
		return SortCustom
	}
	return SortByFrequency
}

// WasteEntry is one hazardous-waste category operators can pick from.
type WasteEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Frequency int    `json:"frequency"`
}

// DefaultWasteCatalog is the seed catalog used when no catalog file is configured.
func DefaultWasteCatalog() []WasteEntry {
	return []WasteEntry{
		{ID: "1", Name: "废矿物油与含矿物油废物", Code: "900-041-49", Frequency: 45},
		{ID: "2", Name: "废酸", Code: "900-300-34", Frequency: 32},
		{ID: "3", Name: "废碱", Code: "900-352-35", Frequency: 28},
		{ID: "4", Name: "废有机溶剂与含有机溶剂废物", Code: "900-402-06", Frequency: 21},
		{ID: "5", Name: "含铜废物", Code: "397-004-22", Frequency: 18},
		{ID: "6", Name: "含锌废物", Code: "397-005-22", Frequency: 15},
		{ID: "7", Name: "含铬废物", Code: "397-002-22", Frequency: 12},
		{ID: "8", Name: "废催化剂", Code: "261-151-50", Frequency: 8},
		{ID: "9", Name: "含汞废物", Code: "900-023-29", Frequency: 6},
		{ID: "10", Name: "废漆、染料、颜料废物", Code: "900-299-12", Frequency: 5},
		{ID: "11", Name: "含镍废物", Code: "397-005-22", Frequency: 4},
		{ID: "12", Name: "废胶片及废像纸", Code: "900-019-16", Frequency: 3},
		{ID: "13", Name: "废弃的药品", Code: "900-002-02", Frequency: 2},
		{ID: "14", Name: "含铅废物", Code: "397-001-22", Frequency: 2},
		{ID: "15", Name: "电路板废料", Code: "900-045-49", Frequency: 1},
	}
}
