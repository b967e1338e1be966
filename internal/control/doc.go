// Package control provides the per-axis feedback controllers for visual
// target tracking.
//
// Controllers are stateless value types; the one piece of state the control
// law needs (the previous yaw error) is threaded explicitly by the caller:
//
//   - [YawPID]: proportional-derivative rotation controller on horizontal
//     pixel error
//   - [RangeBand]: three-band forward/back controller on apparent target area
//
// # Usage
//
//	pid := control.YawPID{Kp: 0.4, Kd: 0.4}
//	yaw, errX := pid.Compute(target.X, 360, prevErrX)
//
// All speeds are whole RC units saturated to [-100, 100].
package control
