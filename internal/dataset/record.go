package dataset

// PixelRecord is one observation of one physical location, at one year for
// time-series kinds or as a single static observation otherwise.
type PixelRecord struct {
	// PixelID is stable per rounded (x, y) within one load; ids follow
	// first-seen order in the input stream.
	PixelID int     `json:"pixel_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Kind    Kind    `json:"kind"`

	// Year is 0 for the static shapes (forest change, binary cover).
	Year int `json:"year,omitempty"`

	// Metrics holds the numeric metric columns relevant to Kind.
	Metrics map[string]float64 `json:"metrics,omitempty"`

	// Valid is false when the shape's no-data sentinel fired for this
	// record. Invalid records are excluded from every derived view.
	Valid bool `json:"valid"`

	// Forest-change extras. LossYear is the calendar year of forest loss,
	// 0 when no loss was observed.
	LossYear      int     `json:"loss_year,omitempty"`
	HasGain       bool    `json:"has_gain,omitempty"`
	TreeCover2000 float64 `json:"treecover2000,omitempty"`

	// Classification extras. Classes maps each declared year to its class
	// code and is shared by all records expanded from one source row.
	Classes           map[int]int `json:"classes,omitempty"`
	DominantClass     int         `json:"dominant_class,omitempty"`
	HasTemporalChange bool        `json:"has_temporal_change,omitempty"`
}

// Metric returns the named metric value and whether it is present.
func (r *PixelRecord) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}
