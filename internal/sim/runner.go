package sim

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/metrics"
	"github.com/tonytyler99/uavtrack/internal/monitoring"
	"github.com/tonytyler99/uavtrack/internal/timeutil"
	"github.com/tonytyler99/uavtrack/internal/track"
	"github.com/tonytyler99/uavtrack/internal/vehicle"
)

// Pose is a vehicle pose sample: ground position in cm, heading in degrees
// clockwise from +y, height in cm.
type Pose struct {
	X       float64
	Y       float64
	Heading float64
	Height  float64
}

// Result collects everything one scenario run produced. Records and Path
// are index-aligned.
type Result struct {
	Scenario string
	Records  []track.Record
	Path     []Pose
	Metrics  map[string]float64
	Duration time.Duration
	Battery  int
}

// Runner flies scenarios on a virtual clock: preflight, takeoff, the full
// control loop against the world, landing. Runs never block on real time.
type Runner struct {
	vehCfg    vehicle.SimConfig
	observers []track.Observer
}

func NewRunner() *Runner {
	return &Runner{vehCfg: vehicle.DefaultSimConfig()}
}

// SetVehicle overrides the simulated airframe used for subsequent runs.
func (r *Runner) SetVehicle(cfg vehicle.SimConfig) {
	r.vehCfg = cfg
}

// AddObserver registers an extra per-cycle observer for subsequent runs.
func (r *Runner) AddObserver(o track.Observer) {
	r.observers = append(r.observers, o)
}

// Run flies one scenario to completion. A scenario that plays out its full
// duration returns a nil error; cancellation and flight failures return the
// partial result alongside the error.
func (r *Runner) Run(ctx context.Context, sc Scenario, cfg *config.Config) (*Result, error) {
	names := make([]string, 0, len(cfg.Faces))
	for name := range cfg.Faces {
		names = append(names, name)
	}
	sort.Strings(names)
	sc = sc.Bind(names)

	clock := timeutil.NewSimClock(time.Unix(0, 0))
	veh := vehicle.NewSim(r.vehCfg)

	if err := vehicle.Preflight(veh, cfg.Safety.MinBattery); err != nil {
		return nil, err
	}
	if err := veh.TakeOff(); err != nil {
		return nil, err
	}
	if cfg.Safety.TakeoffHeight > 0 {
		if err := veh.MoveUp(cfg.Safety.TakeoffHeight); err != nil {
			return nil, err
		}
	}

	tracker, err := track.NewTracker(cfg.Tracker(), names, veh, clock)
	if err != nil {
		return nil, err
	}
	world := NewWorld(sc, veh, clock, WorldConfig{
		FrameWidth:  cfg.Frame.Width,
		FrameHeight: cfg.Frame.Height,
		Seed:        cfg.Seed,
	})

	res := &Result{Scenario: sc.Name}
	set := metrics.Standard()

	loop := track.NewLoop(tracker, world, clock, cfg.FrameInterval())
	loop.AddObserver(&capture{veh: veh, res: res})
	loop.AddObserver(set)
	for _, o := range r.observers {
		loop.AddObserver(o)
	}

	start := clock.Now()
	_, runErr := loop.Run(ctx)
	res.Duration = clock.Since(start)
	res.Metrics = set.Values()
	if pct, err := veh.Battery(); err == nil {
		res.Battery = pct
	}
	if err := veh.Land(); err != nil {
		monitoring.Logf("[WARN] landing failed: %v", err)
	}

	if runErr != nil && !errors.Is(runErr, ErrScenarioDone) {
		return res, runErr
	}
	return res, nil
}

// capture snapshots the record stream and the vehicle pose per cycle.
type capture struct {
	veh *vehicle.Sim
	res *Result
}

func (c *capture) OnCycle(rec track.Record) {
	c.res.Records = append(c.res.Records, rec)
	x, y, heading, height := c.veh.Pose()
	c.res.Path = append(c.res.Path, Pose{X: x, Y: y, Heading: heading, Height: height})
}
