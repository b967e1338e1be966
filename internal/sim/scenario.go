package sim

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PathFunc gives an actor's ground position in cm at scenario time t seconds.
// The vehicle starts at the origin facing +y.
type PathFunc func(t float64) (x, y float64)

// Window is a half-open span of scenario seconds during which an actor is
// not detected at all.
type Window struct {
	From float64
	To   float64
}

// Actor is one person in a scenario. Known actors are reported under their
// name with the given recognition distance; unknown ones under the
// recognizer's catch-all label regardless of name.
type Actor struct {
	Name   string
	Known  bool
	Dist   float64
	Path   PathFunc
	Vanish []Window
}

func (a Actor) hidden(t float64) bool {
	for _, w := range a.Vanish {
		if t >= w.From && t < w.To {
			return true
		}
	}
	return false
}

// Scenario scripts the people moving around the vehicle for a fixed span.
type Scenario struct {
	Name        string
	Description string
	Duration    time.Duration
	Actors      []Actor
}

// Bind renames the known actors, in order, to the given identity labels so
// a scenario can play against whatever reference library is loaded.
func (s Scenario) Bind(names []string) Scenario {
	if len(names) == 0 {
		return s
	}
	actors := make([]Actor, len(s.Actors))
	copy(actors, s.Actors)
	i := 0
	for j := range actors {
		if !actors[j].Known {
			continue
		}
		actors[j].Name = names[i%len(names)]
		i++
	}
	s.Actors = actors
	return s
}

// Registry maps scenario names to builders.
type Registry struct {
	scenarios map[string]func() Scenario
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]func() Scenario)}

	r.scenarios["stand"] = Stand
	r.scenarios["walk"] = Walk
	r.scenarios["orbit"] = Orbit
	r.scenarios["vanish"] = Vanish
	r.scenarios["decoy"] = Decoy
	r.scenarios["pace"] = Pace
	r.scenarios["standoff"] = Standoff

	return r
}

func (r *Registry) Get(name string) (Scenario, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	fn, ok := r.scenarios[name]
	if !ok {
		return ""
	}
	return fn().Description
}

// Stand places one person ahead and slightly off-center, holding still.
func Stand() Scenario {
	return Scenario{
		Name:        "stand",
		Description: "one person holding still, slightly off-center",
		Duration:    10 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.35, Path: fixed(30, 260)},
		},
	}
}

// Walk has the person cross the field of view on a straight line.
func Walk() Scenario {
	return Scenario{
		Name:        "walk",
		Description: "one person walking across on a straight line",
		Duration:    12 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.35, Path: line(-120, 320, 40, 0)},
		},
	}
}

// Orbit circles the person around the vehicle at tracking range.
func Orbit() Scenario {
	return Scenario{
		Name:        "orbit",
		Description: "one person circling the vehicle at constant range",
		Duration:    15 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.35, Path: circle(280, 12, 0)},
		},
	}
}

// Vanish hides the person twice, long enough for the search rotation to
// engage but short enough that it can still reacquire.
func Vanish() Scenario {
	return Scenario{
		Name:        "vanish",
		Description: "person drops out twice and must be reacquired",
		Duration:    12 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.35, Path: fixed(0, 260),
				Vanish: []Window{{From: 3, To: 4.2}, {From: 7, To: 8.2}}},
		},
	}
}

// Decoy surrounds the primary with a worse-matching known face and an
// unrecognized stranger.
func Decoy() Scenario {
	return Scenario{
		Name:        "decoy",
		Description: "primary among a worse-matching face and a stranger",
		Duration:    10 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.38, Path: fixed(40, 250)},
			{Name: "second", Known: true, Dist: 0.55, Path: fixed(-60, 300)},
			{Name: "stranger", Known: false, Dist: 0.9, Path: fixed(90, 200)},
		},
	}
}

// Pace oscillates the person left and right at walking speed.
func Pace() Scenario {
	return Scenario{
		Name:        "pace",
		Description: "one person pacing left and right",
		Duration:    20 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.35, Path: func(t float64) (float64, float64) {
				return 120 * math.Sin(0.5*t), 280
			}},
		},
	}
}

// Standoff starts the person beyond tracking range so the vehicle has to
// close in before holding distance.
func Standoff() Scenario {
	return Scenario{
		Name:        "standoff",
		Description: "person starts far out; vehicle closes to hold range",
		Duration:    12 * time.Second,
		Actors: []Actor{
			{Name: "primary", Known: true, Dist: 0.35, Path: fixed(0, 380)},
		},
	}
}

func fixed(x, y float64) PathFunc {
	return func(float64) (float64, float64) { return x, y }
}

func line(x0, y0, vx, vy float64) PathFunc {
	return func(t float64) (float64, float64) { return x0 + vx*t, y0 + vy*t }
}

// circle keeps the actor at the given radius from the origin, advancing the
// bearing clockwise in degrees per second.
func circle(radius, degPerSec, startDeg float64) PathFunc {
	return func(t float64) (float64, float64) {
		a := (startDeg + degPerSec*t) * math.Pi / 180
		return radius * math.Sin(a), radius * math.Cos(a)
	}
}
