package control

// MaxSpeed bounds every RC axis command.
const MaxSpeed = 100

// Clamp returns v saturated into [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// YawPID turns the drone toward the target from its horizontal offset in the
// camera frame. Only the proportional and derivative terms act; Ki is carried
// on the type so gain sets round-trip through config unchanged, but the
// integral term is not implemented.
type YawPID struct {
	Kp float64
	Kd float64
	Ki float64
}

// Compute returns the yaw speed for a target centered at targetX in a frame
// frameWidth pixels wide, and the error to thread into the next cycle. The
// error is targetX - frameWidth/2 in whole pixels; the PD sum is truncated
// toward zero and saturated to [-MaxSpeed, MaxSpeed].
func (p YawPID) Compute(targetX, frameWidth, prevErr int) (speed, errX int) {
	errX = targetX - frameWidth/2
	raw := p.Kp*float64(errX) + p.Kd*float64(errX-prevErr)
	return Clamp(int(raw), -MaxSpeed, MaxSpeed), errX
}
