package flightlog

import (
	"sync"

	"github.com/tonytyler99/uavtrack/internal/track"
)

// Recorder buffers the cycle records of a run so they can be saved as one
// flight afterwards. Safe for the loop and a UI to share.
type Recorder struct {
	mu      sync.Mutex
	records []track.Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnCycle(rec track.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []track.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]track.Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
