package dataset

import "fmt"

// Index assigns stable integer pixel ids to coordinates. Coordinates are
// rounded to 6 decimal places before keying, so observations of the same
// physical cell across years share one id. An Index is scoped to a single
// dataset load and is owned by the caller; ids from different loads carry no
// cross-dataset identity.
type Index struct {
	ids  map[string]int
	next int
}

// NewIndex returns an empty pixel index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]int)}
}

// Assign returns the pixel id for (x, y), allocating the next id in
// first-seen order when the rounded coordinate is new. Repeated calls with
// the same rounded coordinate return the same id.
func (ix *Index) Assign(x, y float64) int {
	key := coordKey(x, y)
	if id, ok := ix.ids[key]; ok {
		return id
	}
	id := ix.next
	ix.ids[key] = id
	ix.next++
	return id
}

// Len returns the number of distinct pixels seen so far.
func (ix *Index) Len() int { return len(ix.ids) }

func coordKey(x, y float64) string {
	return fmt.Sprintf("%.6f,%.6f", x, y)
}
