// Package vehicle provides the flight-control boundary: the interface the
// tracking loop flies against, a kinematic simulated quadcopter, and the
// preflight checks that gate takeoff.
package vehicle

import (
	"errors"
	"fmt"
	"io"
)

// Vehicle is the full flight boundary used by flight sequencing. SendRC is
// the per-cycle command channel; the remaining calls bracket a flight.
type Vehicle interface {
	SendRC(lateral, forwardBack, vertical, yaw int) error
	Battery() (int, error)
	TakeOff() error
	MoveUp(cm int) error
	Land() error
}

// Flight state errors.
var (
	// ErrLowBattery indicates the battery is below the takeoff threshold.
	ErrLowBattery = errors.New("vehicle: battery below takeoff threshold")

	// ErrNotFlying indicates a motion command before takeoff or after landing.
	ErrNotFlying = errors.New("vehicle: not flying")

	// ErrAlreadyFlying indicates a second takeoff without landing.
	ErrAlreadyFlying = errors.New("vehicle: already flying")

	// ErrBadCommand indicates an RC component outside [-100, 100].
	ErrBadCommand = errors.New("vehicle: rc component out of range")
)

// Preflight refuses to fly on a battery below minPercent. The returned error
// carries the measured level so the operator sees why the flight was refused.
func Preflight(v Vehicle, minPercent int) error {
	pct, err := v.Battery()
	if err != nil {
		return fmt.Errorf("read battery: %w", err)
	}
	if pct < minPercent {
		return fmt.Errorf("%w: %d%% < %d%%", ErrLowBattery, pct, minPercent)
	}
	return nil
}

// Trace wraps a vehicle and narrates every call to w; dry runs use it to
// show the command stream without hiding the underlying vehicle's behavior.
type Trace struct {
	Inner Vehicle
	W     io.Writer
}

func (t *Trace) SendRC(lat, fb, vert, yaw int) error {
	fmt.Fprintf(t.W, "rc %d %d %d %d\n", lat, fb, vert, yaw)
	return t.Inner.SendRC(lat, fb, vert, yaw)
}

func (t *Trace) Battery() (int, error) {
	pct, err := t.Inner.Battery()
	if err == nil {
		fmt.Fprintf(t.W, "battery %d%%\n", pct)
	}
	return pct, err
}

func (t *Trace) TakeOff() error {
	fmt.Fprintln(t.W, "takeoff")
	return t.Inner.TakeOff()
}

func (t *Trace) MoveUp(cm int) error {
	fmt.Fprintf(t.W, "up %d\n", cm)
	return t.Inner.MoveUp(cm)
}

func (t *Trace) Land() error {
	fmt.Fprintln(t.W, "land")
	return t.Inner.Land()
}
