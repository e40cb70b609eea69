package models

import "time"

// LabelSize is the physical label dimension in millimetres.
type LabelSize string

const (
	LabelSize100x100 LabelSize = "100*100"
	LabelSize100x80  LabelSize = "100*80"
	LabelSize100x70  LabelSize = "100*70"
	LabelSize100x60  LabelSize = "100*60"
	LabelSize150x150 LabelSize = "150*150"
	LabelSize200x200 LabelSize = "200*200"
)

// DefaultLabelSize is used when nothing else is configured.
const DefaultLabelSize = LabelSize150x150

// LabelSizes lists every supported size in menu order.
var LabelSizes = []LabelSize{
	LabelSize100x100,
	LabelSize100x80,
	LabelSize100x70,
	LabelSize100x60,
	LabelSize150x150,
	LabelSize200x200,
}

// Valid reports whether the size is one of LabelSizes.
func (s LabelSize) Valid() bool {
	for _, size := range LabelSizes {
		if s == size {
			return true
		}
	}
	return false
}

// EntryMode distinguishes live collection from retroactive entry.
type EntryMode string

const (
	ModeNormal   EntryMode = "normal"
	ModeBackfill EntryMode = "backfill"
)

// LabelRecord is emitted once per confirmed print and handed to the printer and history log.
type LabelRecord struct {
	ID            string     `bson:"_id" json:"id"`
	DigitalID     string     `bson:"digital_id" json:"digital_id"`
	WasteID       string     `bson:"waste_id" json:"waste_id"`
	WasteName     string     `bson:"waste_name" json:"waste_name"`
	WasteCode     string     `bson:"waste_code" json:"waste_code"`
	CanonicalKG   float64    `bson:"canonical_kg" json:"canonical_kg"`
	DisplayUnit   WeightUnit `bson:"display_unit" json:"display_unit"`
	DisplayWeight string     `bson:"display_weight" json:"display_weight"`
	LabelSize     LabelSize  `bson:"label_size" json:"label_size"`
	RecordedDate  time.Time  `bson:"recorded_date" json:"recorded_date"`
	Backfilled    bool       `bson:"backfilled" json:"backfilled"`
	PrintedAt     time.Time  `bson:"printed_at" json:"printed_at"`
}
