// Package sim plays scripted scenarios against the simulated vehicle,
// rendering what its camera would detect each frame so the full control
// loop can run without hardware.
package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/tonytyler99/uavtrack/internal/control"
	"github.com/tonytyler99/uavtrack/internal/timeutil"
	"github.com/tonytyler99/uavtrack/internal/track"
	"github.com/tonytyler99/uavtrack/internal/vehicle"
)

// ErrScenarioDone ends a run once the scenario duration has elapsed.
var ErrScenarioDone = errors.New("sim: scenario complete")

const (
	hfovDeg    = 80.0
	vfovDeg    = 60.0
	areaScale  = 2.5e8 // px^2 * cm^2; a face covers ~4000 px^2 at 250 cm
	faceHeight = 170.0 // cm above ground
	minRange   = 60.0  // closer than this the face overflows the frame
)

type WorldConfig struct {
	FrameWidth  int
	FrameHeight int
	Seed        int64
}

// World advances the vehicle by however much clock time passed since the
// previous frame, then projects every visible actor into frame coordinates.
// Search settles and loop pacing therefore move the world exactly as far as
// they take.
type World struct {
	sc    Scenario
	veh   *vehicle.Sim
	clock timeutil.Clock
	cfg   WorldConfig
	rng   *rand.Rand

	started bool
	startT  time.Time
	lastT   time.Time
}

func NewWorld(sc Scenario, veh *vehicle.Sim, clock timeutil.Clock, cfg WorldConfig) *World {
	return &World{
		sc:    sc,
		veh:   veh,
		clock: clock,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NextFrame implements the loop's frame source.
func (w *World) NextFrame(ctx context.Context) ([]track.Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	now := w.clock.Now()
	if !w.started {
		w.started = true
		w.startT = now
		w.lastT = now
	}
	elapsed := now.Sub(w.startT)
	if w.sc.Duration > 0 && elapsed >= w.sc.Duration {
		return nil, ErrScenarioDone
	}

	w.veh.Tick(now.Sub(w.lastT))
	w.lastT = now

	t := elapsed.Seconds()
	var dets []track.Detection
	for _, a := range w.sc.Actors {
		if a.hidden(t) {
			continue
		}
		ax, ay := a.Path(t)
		d, ok := w.project(ax, ay)
		if !ok {
			continue
		}
		d.Identity = a.Name
		if !a.Known {
			d.Identity = track.Unknown
		}
		d.Distance = a.Dist
		dets = append(dets, d)
	}
	return dets, nil
}

// Elapsed is the scenario time consumed so far.
func (w *World) Elapsed() time.Duration {
	if !w.started {
		return 0
	}
	return w.clock.Now().Sub(w.startT)
}

// project maps a ground position to a frame detection. The camera sits at
// the vehicle pose looking level along its heading.
func (w *World) project(ax, ay float64) (track.Detection, bool) {
	vx, vy, heading, height := w.veh.Pose()

	dx := ax - vx
	dy := ay - vy
	dist := math.Hypot(dx, dy)
	if dist < minRange {
		return track.Detection{}, false
	}

	bearing := math.Atan2(dx, dy) * 180 / math.Pi
	rel := wrapDeg(bearing - heading)
	if math.Abs(rel) >= hfovDeg/2 {
		return track.Detection{}, false
	}
	elev := math.Atan2(faceHeight-height, dist) * 180 / math.Pi
	if math.Abs(elev) >= vfovDeg/2 {
		return track.Detection{}, false
	}

	halfW := float64(w.cfg.FrameWidth) / 2
	halfH := float64(w.cfg.FrameHeight) / 2
	x := halfW + rel/(hfovDeg/2)*halfW
	y := halfH - elev/(vfovDeg/2)*halfH
	area := areaScale / (dist * dist)

	// detector noise: a couple of pixels of box wander, a few percent of area
	xi := int(x) + w.rng.Intn(5) - 2
	yi := int(y) + w.rng.Intn(5) - 2
	ai := int(area * (0.97 + 0.06*w.rng.Float64()))

	xi = control.Clamp(xi, 0, w.cfg.FrameWidth-1)
	yi = control.Clamp(yi, 0, w.cfg.FrameHeight-1)
	if ai < 1 {
		ai = 1
	}
	return track.Detection{X: xi, Y: yi, Area: ai}, true
}

func wrapDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg >= 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return deg
}
