// Package tune sweeps controller gains against a scripted scenario and
// reports the combination that minimizes a flight metric.
package tune

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/metrics"
	"github.com/tonytyler99/uavtrack/internal/sim"
)

// DefaultMetric ranks candidates by mean pixel error while tracking.
const DefaultMetric = "centering_error"

// GridSearch enumerates every combination of the named parameters over
// their value ranges. Names and ranges are index-aligned.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Gains builds the (kp, kd) grid the tune command sweeps.
func Gains(kps, kds []float64) *GridSearch {
	return NewGridSearch([]string{"kp", "kd"}, [][]float64{kps, kds})
}

// Candidates returns every parameter combination, outer parameters varying
// slowest. Each map is an independent copy.
func (g *GridSearch) Candidates() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		combo := make(map[string]float64, len(current))
		for k, v := range current {
			combo[k] = v
		}
		*out = append(*out, combo)
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		g.enumerate(depth+1, next, out)
	}
}

// Apply overlays gain parameters onto a copy of base and validates the
// result. Recognized names are kp, kd and ki.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	for name, val := range params {
		switch name {
		case "kp":
			cfg.PID.Kp = val
		case "kd":
			cfg.PID.Kd = val
		case "ki":
			cfg.PID.Ki = val
		default:
			return nil, fmt.Errorf("tune: unknown parameter %q", name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 1 || lo == hi {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Trial is one flown candidate and the score its flight earned.
type Trial struct {
	Params map[string]float64
	Score  float64
}

// Outcome is a finished sweep: every trial in enumeration order plus the
// winner. Lower scores are better; ties keep the earlier trial.
type Outcome struct {
	Metric string
	Trials []Trial
	Best   Trial
}

// Sweep flies scenario sc once per candidate of grid, scoring each flight
// by metric (DefaultMetric when empty). Candidate flights share the seed
// and run concurrently; base is never modified.
func Sweep(ctx context.Context, sc sim.Scenario, base *config.Config, grid *GridSearch, metric string) (*Outcome, error) {
	if metric == "" {
		metric = DefaultMetric
	}
	if _, ok := metrics.Standard().Values()[metric]; !ok {
		return nil, fmt.Errorf("tune: unknown metric %q", metric)
	}

	candidates := grid.Candidates()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("tune: no candidates to try")
	}

	// Build and validate every config up front so a bad range fails
	// before any flight.
	cfgs := make([]*config.Config, len(candidates))
	for i, params := range candidates {
		cfg, err := Apply(base, params)
		if err != nil {
			return nil, err
		}
		cfgs[i] = cfg
	}

	results := make([]*sim.Result, len(candidates))
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = sim.NewRunner().Run(ctx, sc, cfgs[idx])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := &Outcome{Metric: metric, Trials: make([]Trial, len(candidates))}
	best := math.Inf(1)
	for i, res := range results {
		out.Trials[i] = Trial{Params: candidates[i], Score: res.Metrics[metric]}
		if out.Trials[i].Score < best {
			best = out.Trials[i].Score
			out.Best = out.Trials[i]
		}
	}
	return out, nil
}
