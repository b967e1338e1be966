// Package automation scripts batches of simulated flights from mission
// files and runs repeated-trial robustness checks.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/flightlog"
	"github.com/tonytyler99/uavtrack/internal/monitoring"
	"github.com/tonytyler99/uavtrack/internal/sim"
	"github.com/tonytyler99/uavtrack/internal/tune"
)

// Mission is a scripted sequence of simulated flights.
type Mission struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one flight of a mission. Zero-valued fields keep the mission
// base config; Gains uses the tune parameter names (kp, kd, ki).
type Step struct {
	Scenario string             `yaml:"scenario"`
	Duration float64            `yaml:"duration"` // seconds, 0 keeps the scenario's own
	Preset   string             `yaml:"preset"`
	Gains    map[string]float64 `yaml:"gains"`
	Seed     int64              `yaml:"seed"`
	SaveAs   string             `yaml:"save_as"`
}

// LoadMission reads and validates a mission file.
func LoadMission(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mission: %w", err)
	}

	var m Mission
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mission: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every step names a scenario and keeps durations
// non-negative. Scenario names are resolved at run time.
func (m *Mission) Validate() error {
	if len(m.Steps) == 0 {
		return fmt.Errorf("mission %q: no steps", m.Name)
	}
	for i, s := range m.Steps {
		if s.Scenario == "" {
			return fmt.Errorf("mission %q: step %d: missing scenario", m.Name, i+1)
		}
		if s.Duration < 0 {
			return fmt.Errorf("mission %q: step %d: negative duration", m.Name, i+1)
		}
	}
	return nil
}

// StepResult pairs a finished step with its flight outcome. FlightID is
// set only when the step was persisted.
type StepResult struct {
	Step     Step
	Result   *sim.Result
	FlightID string
}

// stepConfig resolves the effective config for one step. A preset replaces
// the mission base wholesale; gains and seed overlay whichever won.
func stepConfig(base *config.Config, step Step) (*config.Config, error) {
	var cfg *config.Config
	if step.Preset != "" {
		if cfg = config.GetPreset(step.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", step.Preset)
		}
	} else {
		cfg = base.Clone()
	}
	if len(step.Gains) > 0 {
		var err error
		if cfg, err = tune.Apply(cfg, step.Gains); err != nil {
			return nil, err
		}
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	return cfg, nil
}

// RunMission flies every step in order. Steps are persisted to store when
// it is non-nil; a failing step returns the results so far with the error.
func RunMission(ctx context.Context, m *Mission, reg *sim.Registry, base *config.Config, store *flightlog.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(m.Steps))

	for i, step := range m.Steps {
		monitoring.Logf("mission %s: step %d/%d: %s", m.Name, i+1, len(m.Steps), step.Scenario)

		sc, err := reg.Get(step.Scenario)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Duration > 0 {
			sc.Duration = time.Duration(step.Duration * float64(time.Second))
		}

		cfg, err := stepConfig(base, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := sim.NewRunner().Run(ctx, sc, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: res}
		if store != nil {
			sr.FlightID, err = saveStep(store, m, step, cfg, res)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

func saveStep(store *flightlog.Store, m *Mission, step Step, cfg *config.Config, res *sim.Result) (string, error) {
	source := step.SaveAs
	if source == "" {
		source = fmt.Sprintf("mission:%s/%s", m.Name, step.Scenario)
	}

	snapshot, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	return store.SaveFlight(flightlog.Flight{
		Source:   source,
		Config:   string(snapshot),
		Duration: res.Duration,
		Metrics:  res.Metrics,
	}, res.Records)
}

// MonteCarlo repeats one scenario under different sensor-noise seeds to
// estimate how reliably the controller keeps its lock.
type MonteCarlo struct {
	Scenario string
	Trials   int
	Seed     int64 // base seed for trial seeds; 0 draws from the clock

	// MaxSearchFraction is the largest time_in_search a trial may score
	// and still count as locked. Zero means the default of 0.25.
	MaxSearchFraction float64
}

// TrialResult is one Monte Carlo flight.
type TrialResult struct {
	Trial   int
	Seed    int64
	Metrics map[string]float64
	Locked  bool
}

// RunMonteCarlo flies mc.Trials runs of the scenario, each with a fresh
// world seed, and classifies each trial by the lock criterion.
func RunMonteCarlo(ctx context.Context, mc *MonteCarlo, reg *sim.Registry, base *config.Config) ([]TrialResult, error) {
	if mc.Trials <= 0 {
		return nil, fmt.Errorf("monte carlo: trials must be > 0, got %d", mc.Trials)
	}
	sc, err := reg.Get(mc.Scenario)
	if err != nil {
		return nil, err
	}

	maxSearch := mc.MaxSearchFraction
	if maxSearch == 0 {
		maxSearch = 0.25
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]TrialResult, 0, mc.Trials)
	for trial := 0; trial < mc.Trials; trial++ {
		cfg := base.Clone()
		cfg.Seed = rng.Int63()

		res, err := sim.NewRunner().Run(ctx, sc, cfg)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial+1, err)
		}

		results = append(results, TrialResult{
			Trial:   trial,
			Seed:    cfg.Seed,
			Metrics: res.Metrics,
			Locked:  res.Metrics["time_in_search"] <= maxSearch,
		})

		if (trial+1)%10 == 0 {
			monitoring.Logf("monte carlo: %d/%d trials complete", trial+1, mc.Trials)
		}
	}

	return results, nil
}

// LockStats counts locked and lost trials.
func LockStats(results []TrialResult) (locked, lost int) {
	for _, r := range results {
		if r.Locked {
			locked++
		} else {
			lost++
		}
	}
	return
}
