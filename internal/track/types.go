package track

import (
	"context"
	"fmt"
	"time"
)

// Unknown is the identity label the recognizer assigns to faces that match
// no reference image.
const Unknown = "unknown"

// Detection is one face candidate reported for a frame: its identity label,
// bounding-box center and area in frame pixels, and the recognition distance
// (lower is a more confident match).
type Detection struct {
	Identity string
	X        int
	Y        int
	Area     int
	Distance float64
}

// Target is the selected tracking target in frame coordinates. The zero
// value is the no-target sentinel; center (0,0) and area 0 always travel
// together.
type Target struct {
	X    int
	Y    int
	Area int
}

// NoTarget returns the sentinel target.
func NoTarget() Target { return Target{} }

// None reports whether t is the no-target sentinel.
func (t Target) None() bool { return t.Area == 0 }

// Command is one four-axis RC frame. Axis values are speeds in [-100, 100];
// positive forward/back moves toward the target, positive yaw rotates
// clockwise.
type Command struct {
	Lateral     int
	ForwardBack int
	Vertical    int
	Yaw         int
}

// Stop is the all-zero hold command.
func Stop() Command { return Command{} }

// IsStop reports whether every axis of c is zero.
func (c Command) IsStop() bool { return c == Command{} }

// Mode labels what a control cycle was doing.
type Mode int

const (
	ModeTracking Mode = iota
	ModeSearching
)

func (m Mode) String() string {
	switch m {
	case ModeTracking:
		return "tracking"
	case ModeSearching:
		return "searching"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode label back to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "tracking":
		return ModeTracking, nil
	case "searching":
		return ModeSearching, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// State is the controller state threaded through consecutive cycles. It is
// updated exactly once per cycle; losing the target resets it.
type State struct {
	PrevErrX int
}

// Cycle is the outcome of one control cycle.
type Cycle struct {
	Target  Target
	Mode    Mode
	ErrX    int
	Command Command
}

// Record is a Cycle stamped with its sequence number and loop-relative time.
type Record struct {
	Seq int
	T   time.Duration
	Cycle
}

// Observer receives each record as the loop produces it.
type Observer interface {
	OnCycle(rec Record)
}

// Source delivers the detections of consecutive frames to the loop. A frame
// with no detections is normal; errors end the flight.
type Source interface {
	NextFrame(ctx context.Context) ([]Detection, error)
}

// Sink accepts RC commands, one per control cycle. Implementations must
// tolerate the terminal all-zero command arriving after any failure.
type Sink interface {
	SendRC(lateral, forwardBack, vertical, yaw int) error
}
