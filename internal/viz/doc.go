// Package viz renders a live cockpit for simulated tracking flights in the
// terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Cockpit]: live flight view with telemetry and gain tuning
//   - [Canvas]: Braille-based pixel canvas rendering the camera frame
//
// The camera frame shows the crosshair, the near and far edges of the
// range band, every detection of the current frame, and the locked target
// with its off-center error vector. The side panel carries flight
// telemetry, a centering-error sparkline, and the controller gains, which
// can be retuned while the flight runs.
//
// # Key Bindings
//
//	Space - Pause/Resume flight
//	R     - Restart flight from takeoff
//	Tab   - Select gain
//	Up/K  - Raise selected gain
//	Down/J- Lower selected gain
//	Q     - Quit
//
// The flight runs on a virtual clock stepped once per frame tick, so a
// paused view holds the flight mid-cycle and search settle delays play at
// frame cadence.
package viz
