// Package track implements the closed-loop visual tracking controller.
//
// The package defines the core types and the per-cycle control flow for
// keeping one recognized person centered in the camera frame at a fixed
// range:
//
//   - [Detection]: one recognized face candidate in a frame
//   - [Selector]: best-recognition-match-wins target selection
//   - [Tracker]: one control cycle (select, yaw PD, range band, send)
//   - [Loop]: repeated cycles against a perception source
//   - [Record]: per-cycle outcome delivered to observers
//
// # Example
//
//	tk, _ := track.NewTracker(cfg, lib.Names(), veh, timeutil.RealClock{})
//	loop := track.NewLoop(tk, source, timeutil.RealClock{}, 40*time.Millisecond)
//	final, err := loop.Run(ctx)
//
// # Thread Safety
//
// Tracker and Loop instances are not thread-safe; one goroutine drives a
// flight. Gain retuning through [Tracker.SetParam] is the only operation
// safe to call concurrently with a running loop.
package track
