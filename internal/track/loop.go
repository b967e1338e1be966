package track

import (
	"context"
	"fmt"
	"time"

	"github.com/tonytyler99/uavtrack/internal/monitoring"
	"github.com/tonytyler99/uavtrack/internal/timeutil"
)

// Loop drives the tracker from a perception source until the source fails,
// a send fails, or ctx is canceled. Whatever the exit path, the loop's last
// act is a terminal all-zero command.
type Loop struct {
	tracker   *Tracker
	source    Source
	clock     timeutil.Clock
	interval  time.Duration
	observers []Observer
}

// NewLoop wires a tracker to a source. interval is the frame pacing; zero
// runs as fast as the source delivers. A nil clock means wall time.
func NewLoop(tracker *Tracker, source Source, clock timeutil.Clock, interval time.Duration) *Loop {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Loop{tracker: tracker, source: source, clock: clock, interval: interval}
}

// AddObserver registers an observer; it will see every cycle record in
// order, including the record of a cycle whose send failed.
func (l *Loop) AddObserver(o Observer) {
	l.observers = append(l.observers, o)
}

// Run cycles until an exit condition and returns the final controller state.
// Cancellation is honored between cycles and inside the search settle delay.
func (l *Loop) Run(ctx context.Context) (State, error) {
	defer func() {
		if err := l.tracker.Stop(); err != nil {
			monitoring.Logf("[WARN] terminal stop failed: %v", err)
		}
	}()

	var st State
	start := l.clock.Now()
	for seq := 0; ; seq++ {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		dets, err := l.source.NextFrame(ctx)
		if err != nil {
			return st, fmt.Errorf("next frame: %w", err)
		}
		cyc, next, err := l.tracker.Step(ctx, dets, st)
		st = next
		rec := Record{Seq: seq, T: l.clock.Since(start), Cycle: cyc}
		for _, o := range l.observers {
			o.OnCycle(rec)
		}
		if err != nil {
			return st, err
		}
		if l.interval > 0 {
			if err := sleep(ctx, l.clock, l.interval); err != nil {
				return st, err
			}
		}
	}
}
