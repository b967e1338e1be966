package metrics

import (
	"github.com/tonytyler99/uavtrack/internal/track"
)

// Metric accumulates one scalar over the records of a flight.
type Metric interface {
	Name() string
	Observe(rec track.Record)
	Value() float64
	Reset()
}

// Set bundles metrics behind a single loop observer.
type Set []Metric

// Standard returns the metrics every flight is scored with.
func Standard() Set {
	return Set{
		NewCenteringError(),
		NewControlEffort(),
		NewTimeInSearch(),
		NewReacquisitions(),
	}
}

func (s Set) OnCycle(rec track.Record) {
	for _, m := range s {
		m.Observe(rec)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values snapshots every metric keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}
