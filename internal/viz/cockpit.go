package viz

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/metrics"
	"github.com/tonytyler99/uavtrack/internal/sim"
	"github.com/tonytyler99/uavtrack/internal/timeutil"
	"github.com/tonytyler99/uavtrack/internal/track"
	"github.com/tonytyler99/uavtrack/internal/vehicle"
)

const (
	canvasWidth  = 60
	canvasHeight = 18
	historyCap   = 600
)

type TickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Cockpit is the live view of one simulated flight: it steps the world and
// the tracker one control cycle per frame tick and paints the camera frame
// on a braille canvas with a telemetry panel alongside.
//
// The flight runs on a virtual clock, so pausing the view also pauses the
// flight, and search settle delays play at frame cadence instead of
// holding the screen.
type Cockpit struct {
	cfg      *config.Config
	scenario sim.Scenario
	interval time.Duration

	clock   *timeutil.SimClock
	veh     *vehicle.Sim
	world   *sim.World
	tracker *track.Tracker
	st      track.State
	start   time.Time

	canvas   *Canvas
	seq      int
	last     track.Record
	lastDets []track.Detection
	errHist  []float64
	set      metrics.Set

	paramKeys     []string
	initialParams map[string]float64
	selected      int

	running bool
	done    bool
	err     error
}

// NewCockpit builds the view and performs the takeoff sequence so the
// first tick already sees the world from flight height.
func NewCockpit(sc sim.Scenario, cfg *config.Config) (Cockpit, error) {
	c := Cockpit{
		cfg:      cfg,
		scenario: sc,
		interval: cfg.FrameInterval(),
		canvas:   NewCanvas(canvasWidth, canvasHeight),
	}

	c.initialParams = map[string]float64{"kp": cfg.PID.Kp, "kd": cfg.PID.Kd, "ki": cfg.PID.Ki}
	c.paramKeys = make([]string, 0, len(c.initialParams))
	for k := range c.initialParams {
		c.paramKeys = append(c.paramKeys, k)
	}
	sort.Strings(c.paramKeys)

	if err := c.rebuild(); err != nil {
		return Cockpit{}, err
	}
	return c, nil
}

// rebuild starts a fresh flight: new vehicle, clock, world and tracker.
func (c *Cockpit) rebuild() error {
	names := make([]string, 0, len(c.cfg.Faces))
	for name := range c.cfg.Faces {
		names = append(names, name)
	}
	sort.Strings(names)

	clock := timeutil.NewSimClock(time.Unix(0, 0))
	veh := vehicle.NewSim(vehicle.DefaultSimConfig())
	if err := vehicle.Preflight(veh, c.cfg.Safety.MinBattery); err != nil {
		return err
	}
	if err := veh.TakeOff(); err != nil {
		return err
	}
	if err := veh.MoveUp(c.cfg.Safety.TakeoffHeight); err != nil {
		return err
	}

	tracker, err := track.NewTracker(c.cfg.Tracker(), names, veh, clock)
	if err != nil {
		return err
	}

	c.clock = clock
	c.veh = veh
	c.world = sim.NewWorld(c.scenario.Bind(names), veh, clock, sim.WorldConfig{
		FrameWidth:  c.cfg.Frame.Width,
		FrameHeight: c.cfg.Frame.Height,
		Seed:        c.cfg.Seed,
	})
	c.tracker = tracker
	c.st = track.State{}
	c.start = clock.Now()
	c.seq = 0
	c.last = track.Record{}
	c.lastDets = nil
	c.errHist = c.errHist[:0]
	c.set = metrics.Standard()
	c.running = true
	c.done = false
	c.err = nil

	c.draw()
	return nil
}

func (c Cockpit) Init() tea.Cmd {
	return tick(c.interval)
}

func (c Cockpit) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			_ = c.tracker.Stop()
			return c, tea.Quit
		case " ":
			if !c.done {
				c.running = !c.running
			}
		case "r":
			if err := c.rebuild(); err != nil {
				c.err = err
				c.done = true
				c.running = false
			}
		case "tab":
			c.selected = (c.selected + 1) % len(c.paramKeys)
		case "up", "k":
			c.adjustParam(1.05)
		case "down", "j":
			c.adjustParam(0.95)
		}
	case TickMsg:
		if c.running && !c.done {
			c.step()
		}
		c.draw()
		return c, tick(c.interval)
	}
	return c, nil
}

// adjustParam retunes the selected gain by a factor. A gain sitting at
// zero gets a small starting nudge on the way up, since scaling zero
// would pin it there.
func (c *Cockpit) adjustParam(factor float64) {
	if len(c.paramKeys) == 0 {
		return
	}
	key := c.paramKeys[c.selected]
	val := c.tracker.Params()[key]
	next := val * factor
	if val == 0 && factor > 1 {
		next = 0.05
	}
	if err := c.tracker.SetParam(key, next); err != nil {
		c.err = err
	}
}

// step advances the flight by one control cycle: next frame, tracker
// step, then the frame-pacing sleep, exactly as the flight loop orders
// them.
func (c *Cockpit) step() {
	dets, err := c.world.NextFrame(context.Background())
	if err != nil {
		c.finish(err)
		return
	}

	cyc, next, err := c.tracker.Step(context.Background(), dets, c.st)
	c.st = next

	rec := track.Record{Seq: c.seq, T: c.clock.Since(c.start), Cycle: cyc}
	c.seq++
	c.last = rec
	c.lastDets = dets
	c.set.OnCycle(rec)
	if cyc.Mode == track.ModeTracking {
		c.errHist = append(c.errHist, float64(cyc.ErrX))
		if len(c.errHist) > historyCap {
			c.errHist = c.errHist[1:]
		}
	}

	if err != nil {
		c.finish(err)
		return
	}
	c.clock.Sleep(c.interval)
}

// finish ends the flight: safe stop, land, and record how it ended.
func (c *Cockpit) finish(err error) {
	c.running = false
	c.done = true
	if !errors.Is(err, sim.ErrScenarioDone) {
		c.err = err
	}
	_ = c.tracker.Stop()
	_ = c.veh.Land()
}

// draw repaints the camera frame: border, center crosshair, the range
// band rendered as the box sizes a face would have at the band edges,
// every detection, and the locked target with its error vector.
func (c *Cockpit) draw() {
	c.canvas.Clear()

	sw, sh := c.canvas.Width*2, c.canvas.Height*4
	scaleX := float64(sw-1) / float64(c.cfg.Frame.Width)
	scaleY := float64(sh-1) / float64(c.cfg.Frame.Height)
	px := func(x int) int { return int(float64(x) * scaleX) }
	py := func(y int) int { return int(float64(y) * scaleY) }

	c.canvas.Rect(0, 0, sw-1, sh-1)

	cx, cy := px(c.cfg.Frame.Width/2), py(c.cfg.Frame.Height/2)
	c.canvas.Cross(cx, cy, 3)

	for _, area := range []int{c.cfg.Range.Min, c.cfg.Range.Max} {
		side := math.Sqrt(float64(area))
		hw := int(side / 2 * scaleX)
		hh := int(side / 2 * scaleY)
		c.canvas.Rect(cx-hw, cy-hh, cx+hw, cy+hh)
	}

	for _, d := range c.lastDets {
		c.canvas.Marker(px(d.X), py(d.Y), 1)
	}

	if t := c.last.Target; !t.None() {
		side := math.Sqrt(float64(t.Area))
		hw := int(side / 2 * scaleX)
		hh := int(side / 2 * scaleY)
		tx, ty := px(t.X), py(t.Y)
		c.canvas.Rect(tx-hw, ty-hh, tx+hw, ty+hh)
		c.canvas.DrawLine(cx, cy, tx, ty)
		c.canvas.Marker(tx, ty, 1)
	}
}
