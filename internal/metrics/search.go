package metrics

import (
	"github.com/tonytyler99/uavtrack/internal/track"
)

// TimeInSearch is the fraction of cycles spent searching.
type TimeInSearch struct {
	name      string
	searching int
	samples   int
}

func NewTimeInSearch() *TimeInSearch {
	return &TimeInSearch{
		name: "time_in_search",
	}
}

func (t *TimeInSearch) Name() string {
	return t.name
}

func (t *TimeInSearch) Observe(rec track.Record) {
	t.samples++
	if rec.Mode == track.ModeSearching {
		t.searching++
	}
}

func (t *TimeInSearch) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return float64(t.searching) / float64(t.samples)
}

func (t *TimeInSearch) Reset() {
	t.searching = 0
	t.samples = 0
}

// Reacquisitions counts searching-to-tracking transitions, i.e. how many
// times a lost target was picked back up.
type Reacquisitions struct {
	name  string
	prev  track.Mode
	seen  bool
	count int
}

func NewReacquisitions() *Reacquisitions {
	return &Reacquisitions{
		name: "reacquisitions",
	}
}

func (r *Reacquisitions) Name() string {
	return r.name
}

func (r *Reacquisitions) Observe(rec track.Record) {
	if r.seen && r.prev == track.ModeSearching && rec.Mode == track.ModeTracking {
		r.count++
	}
	r.prev = rec.Mode
	r.seen = true
}

func (r *Reacquisitions) Value() float64 {
	return float64(r.count)
}

func (r *Reacquisitions) Reset() {
	r.prev = 0
	r.seen = false
	r.count = 0
}
