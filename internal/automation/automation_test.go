package automation

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/flightlog"
	"github.com/tonytyler99/uavtrack/internal/monitoring"
	"github.com/tonytyler99/uavtrack/internal/sim"
)

func muteLogs(t *testing.T) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
}

func writeMission(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mission.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMission(t *testing.T) {
	path := writeMission(t, `name: nightly
description: regression flights
steps:
  - scenario: walk
    duration: 20
    gains:
      kp: 0.5
      kd: 0.3
    save_as: walk-tuned
  - scenario: vanish
    preset: outdoor
    seed: 7
`)

	m, err := LoadMission(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "nightly" {
		t.Errorf("expected name nightly, got %q", m.Name)
	}
	if len(m.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(m.Steps))
	}
	if m.Steps[0].Scenario != "walk" || m.Steps[0].Duration != 20 || m.Steps[0].SaveAs != "walk-tuned" {
		t.Errorf("step 0 parsed wrong: %+v", m.Steps[0])
	}
	if m.Steps[0].Gains["kp"] != 0.5 {
		t.Errorf("expected kp=0.5, got %g", m.Steps[0].Gains["kp"])
	}
	if m.Steps[1].Preset != "outdoor" || m.Steps[1].Seed != 7 {
		t.Errorf("step 1 parsed wrong: %+v", m.Steps[1])
	}
}

func TestLoadMissionRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"no steps", "name: empty\n", "no steps"},
		{"missing scenario", "steps:\n  - duration: 5\n", "missing scenario"},
		{"negative duration", "steps:\n  - scenario: walk\n    duration: -1\n", "negative duration"},
		{"bad yaml", "steps: [\n", "parse mission"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMission(writeMission(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissionMissingFile(t *testing.T) {
	if _, err := LoadMission(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStepConfig(t *testing.T) {
	base := config.DefaultConfig()

	cfg, err := stepConfig(base, Step{Scenario: "walk", Preset: "snappy", Gains: map[string]float64{"kp": 0.7}, Seed: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PID.Kp != 0.7 {
		t.Errorf("expected gains overlay kp=0.7, got %g", cfg.PID.Kp)
	}
	if cfg.PID.Kd != 0.5 {
		t.Errorf("expected preset kd=0.5, got %g", cfg.PID.Kd)
	}
	if cfg.Seed != 9 {
		t.Errorf("expected seed 9, got %d", cfg.Seed)
	}
	if base.PID.Kp != config.DefaultKp || base.Seed != 42 {
		t.Errorf("base config mutated: %+v", base)
	}

	if _, err := stepConfig(base, Step{Scenario: "walk", Preset: "bogus"}); err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("expected unknown preset error, got %v", err)
	}
}

func TestRunMissionFliesStepsInOrder(t *testing.T) {
	muteLogs(t)

	m := &Mission{Name: "smoke", Steps: []Step{
		{Scenario: "stand", Duration: 2},
		{Scenario: "walk", Duration: 2},
	}}

	results, err := RunMission(context.Background(), m, sim.NewRegistry(), config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(results))
	}
	for i, sr := range results {
		if sr.Step.Scenario != m.Steps[i].Scenario {
			t.Errorf("step %d: expected scenario %s, got %s", i, m.Steps[i].Scenario, sr.Step.Scenario)
		}
		if sr.Result == nil || len(sr.Result.Records) != 50 {
			t.Errorf("step %d: expected 50 records for a 2s flight, got %+v", i, sr.Result)
		}
		if sr.FlightID != "" {
			t.Errorf("step %d: expected no flight id without a store, got %s", i, sr.FlightID)
		}
	}
}

func TestRunMissionPersistsFlights(t *testing.T) {
	muteLogs(t)

	store, err := flightlog.Open(filepath.Join(t.TempDir(), "flights.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := &Mission{Name: "nightly", Steps: []Step{
		{Scenario: "stand", Duration: 2, SaveAs: "nightly-stand"},
		{Scenario: "stand", Duration: 2},
	}}

	results, err := RunMission(context.Background(), m, sim.NewRegistry(), config.DefaultConfig(), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := store.LoadFlight(results[0].FlightID)
	if err != nil {
		t.Fatalf("load first flight: %v", err)
	}
	if f.Source != "nightly-stand" {
		t.Errorf("expected source nightly-stand, got %q", f.Source)
	}
	if f.Cycles != 50 {
		t.Errorf("expected 50 cycles, got %d", f.Cycles)
	}
	if _, ok := f.Metrics["centering_error"]; !ok {
		t.Errorf("expected metrics saved, got %v", f.Metrics)
	}
	if !strings.Contains(f.Config, "kp:") {
		t.Errorf("expected config snapshot in flight, got %q", f.Config)
	}

	f2, err := store.LoadFlight(results[1].FlightID)
	if err != nil {
		t.Fatalf("load second flight: %v", err)
	}
	if f2.Source != "mission:nightly/stand" {
		t.Errorf("expected derived source label, got %q", f2.Source)
	}

	records, err := store.LoadCycles(results[0].FlightID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 50 {
		t.Errorf("expected 50 stored cycles, got %d", len(records))
	}
}

func TestRunMissionUnknownScenario(t *testing.T) {
	muteLogs(t)

	m := &Mission{Name: "bad", Steps: []Step{{Scenario: "bogus"}}}
	results, err := RunMission(context.Background(), m, sim.NewRegistry(), config.DefaultConfig(), nil)
	if err == nil || !strings.Contains(err.Error(), "unknown scenario") {
		t.Errorf("expected unknown scenario error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no completed steps, got %d", len(results))
	}
}

func TestRunMonteCarlo(t *testing.T) {
	muteLogs(t)

	mc := &MonteCarlo{Scenario: "stand", Trials: 3, Seed: 99}
	results, err := RunMonteCarlo(context.Background(), mc, sim.NewRegistry(), config.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(results))
	}

	seeds := map[int64]bool{}
	for _, r := range results {
		seeds[r.Seed] = true
		if !r.Locked {
			t.Errorf("trial %d: expected lock held on stand, metrics %v", r.Trial, r.Metrics)
		}
		if r.Metrics["time_in_search"] != 0 {
			t.Errorf("trial %d: expected zero search time, got %g", r.Trial, r.Metrics["time_in_search"])
		}
	}
	if len(seeds) != 3 {
		t.Errorf("expected distinct trial seeds, got %v", seeds)
	}

	locked, lost := LockStats(results)
	if locked != 3 || lost != 0 {
		t.Errorf("expected 3 locked / 0 lost, got %d/%d", locked, lost)
	}
}

func TestRunMonteCarloRejectsZeroTrials(t *testing.T) {
	mc := &MonteCarlo{Scenario: "stand"}
	if _, err := RunMonteCarlo(context.Background(), mc, sim.NewRegistry(), config.DefaultConfig()); err == nil {
		t.Error("expected error for zero trials")
	}
}

func TestLockStats(t *testing.T) {
	results := []TrialResult{{Locked: true}, {Locked: false}, {Locked: true}}
	locked, lost := LockStats(results)
	if locked != 2 || lost != 1 {
		t.Errorf("expected 2/1, got %d/%d", locked, lost)
	}
}
