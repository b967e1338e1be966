package track

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tonytyler99/uavtrack/internal/control"
	"github.com/tonytyler99/uavtrack/internal/monitoring"
	"github.com/tonytyler99/uavtrack/internal/timeutil"
)

// Config fixes a tracker's tuning for the life of a flight.
type Config struct {
	FrameWidth  int
	FrameHeight int
	Gains       control.YawPID
	Band        control.RangeBand
	SearchSpeed int
	SearchDelay time.Duration
}

func (c Config) validate() error {
	switch {
	case c.FrameWidth <= 0 || c.FrameHeight <= 0:
		return fmt.Errorf("%w: frame %dx%d", ErrInvalidConfig, c.FrameWidth, c.FrameHeight)
	case c.Band.Min < 0 || c.Band.Min >= c.Band.Max:
		return fmt.Errorf("%w: range band [%d, %d]", ErrInvalidConfig, c.Band.Min, c.Band.Max)
	case c.Band.Speed < 0 || c.Band.Speed > control.MaxSpeed:
		return fmt.Errorf("%w: range speed %d", ErrInvalidConfig, c.Band.Speed)
	case c.SearchSpeed <= 0 || c.SearchSpeed > control.MaxSpeed:
		return fmt.Errorf("%w: search speed %d", ErrInvalidConfig, c.SearchSpeed)
	case c.SearchDelay < 0:
		return fmt.Errorf("%w: search delay %s", ErrInvalidConfig, c.SearchDelay)
	}
	return nil
}

// Tracker runs one control cycle at a time: select the target, compute the
// yaw and range responses, and hand the resulting command to the sink.
type Tracker struct {
	cfg   Config
	sel   *Selector
	sink  Sink
	clock timeutil.Clock

	mu    sync.Mutex
	gains control.YawPID
}

// NewTracker builds a tracker. recognized lists the identity labels the
// selector will accept. A nil clock means wall time.
func NewTracker(cfg Config, recognized []string, sink Sink, clock timeutil.Clock) (*Tracker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrInvalidConfig)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Tracker{
		cfg:   cfg,
		sel:   NewSelector(recognized, cfg.FrameWidth, cfg.FrameHeight),
		sink:  sink,
		clock: clock,
		gains: cfg.Gains,
	}, nil
}

// Step runs one control cycle over the detections of a single frame. The
// returned state must be threaded into the next call; it is updated exactly
// once per cycle on every path, including error returns. A search cycle
// blocks for the settle delay after sending its rotation command,
// interruptible only by ctx.
func (t *Tracker) Step(ctx context.Context, dets []Detection, st State) (Cycle, State, error) {
	tgt := t.sel.Select(dets)

	if tgt.None() {
		cyc := Cycle{Target: tgt, Mode: ModeSearching, Command: Command{Yaw: t.cfg.SearchSpeed}}
		next := State{}
		if err := t.send(cyc.Command); err != nil {
			return cyc, next, err
		}
		if err := sleep(ctx, t.clock, t.cfg.SearchDelay); err != nil {
			return cyc, next, err
		}
		return cyc, next, nil
	}

	yaw, errX := t.Gains().Compute(tgt.X, t.cfg.FrameWidth, st.PrevErrX)
	fb, _ := t.cfg.Band.ForwardBack(tgt.Area)
	cyc := Cycle{
		Target:  tgt,
		Mode:    ModeTracking,
		ErrX:    errX,
		Command: Command{ForwardBack: fb, Yaw: yaw},
	}
	next := State{PrevErrX: errX}
	if err := t.send(cyc.Command); err != nil {
		return cyc, next, err
	}
	return cyc, next, nil
}

// send pushes one command to the sink. On failure it attempts a safe stop
// before returning the wrapped error.
func (t *Tracker) send(c Command) error {
	if err := t.sink.SendRC(c.Lateral, c.ForwardBack, c.Vertical, c.Yaw); err != nil {
		if stopErr := t.sink.SendRC(0, 0, 0, 0); stopErr != nil {
			monitoring.Logf("[WARN] safe stop after send failure also failed: %v", stopErr)
		}
		return &SendError{Command: c, Wrapped: err}
	}
	return nil
}

// Stop sends the all-zero hold command.
func (t *Tracker) Stop() error {
	return t.sink.SendRC(0, 0, 0, 0)
}

// Gains returns the yaw gains currently in effect.
func (t *Tracker) Gains() control.YawPID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gains
}

// Params returns the tunable parameters for live adjustment.
func (t *Tracker) Params() map[string]float64 {
	g := t.Gains()
	return map[string]float64{"kp": g.Kp, "kd": g.Kd, "ki": g.Ki}
}

// SetParam adjusts one tunable parameter by name. Gains may be retuned while
// a loop is running; the next cycle picks the new value up.
func (t *Tracker) SetParam(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must be >= 0", ErrInvalidConfig, name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	switch name {
	case "kp":
		t.gains.Kp = value
	case "kd":
		t.gains.Kd = value
	case "ki":
		t.gains.Ki = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// sleep blocks for d on the given clock, returning early only when ctx is
// canceled first.
func sleep(ctx context.Context, c timeutil.Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := c.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
