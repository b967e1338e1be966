package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tonytyler99/uavtrack/internal/analysis"
	"github.com/tonytyler99/uavtrack/internal/automation"
	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/export"
	"github.com/tonytyler99/uavtrack/internal/flightlog"
	"github.com/tonytyler99/uavtrack/internal/metrics"
	"github.com/tonytyler99/uavtrack/internal/monitoring"
	"github.com/tonytyler99/uavtrack/internal/perception"
	"github.com/tonytyler99/uavtrack/internal/report"
	"github.com/tonytyler99/uavtrack/internal/sim"
	"github.com/tonytyler99/uavtrack/internal/timeutil"
	"github.com/tonytyler99/uavtrack/internal/track"
	"github.com/tonytyler99/uavtrack/internal/tune"
	"github.com/tonytyler99/uavtrack/internal/vehicle"
	"github.com/tonytyler99/uavtrack/internal/viz"
)

var (
	dataDir    string
	duration   float64
	kp         float64
	kd         float64
	ki         float64
	fps        int
	seed       int64
	configFile string
	preset     string
	dryRun     bool
	svgOut     string
	reportOut  string
	// Tune sweep bounds
	kpMin   float64
	kpMax   float64
	kpSteps int
	kdMin   float64
	kdMax   float64
	kdSteps int
	metric  string
	tuneOut string
	// Robustness trials
	trials    int
	maxSearch float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uavtrack",
		Short: "closed-loop face tracking flight controller",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the live cockpit when no command given
			if err := runLive(cmd, nil); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".uavtrack", "data directory")

	flyCmd := &cobra.Command{
		Use:   "fly [scenario]",
		Short: "fly a tracking flight in real time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFly,
	}
	addConfigFlags(flyCmd)
	flyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "narrate every vehicle command")

	simCmd := &cobra.Command{
		Use:   "sim [scenario]",
		Short: "fly a scenario headless on the virtual clock",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSim,
	}
	addConfigFlags(simCmd)
	simCmd.Flags().StringVar(&svgOut, "svg", "", "write the ground track to an SVG file")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "fly a scenario in the interactive cockpit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	replayCmd := &cobra.Command{
		Use:   "replay [flight]",
		Short: "re-run the controller over a recorded flight",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	replayCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional yaw gain")
	replayCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative yaw gain")
	replayCmd.Flags().Float64Var(&ki, "ki", 0, "integral yaw gain")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded flights",
		RunE:  listFlights,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [flight]",
		Short: "plot a recorded flight in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotFlight,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [flight]",
		Short: "error statistics and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeFlight,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [flight]",
		Short: "export flight cycles to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [flight]",
		Short: "export a flight with its cycles to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	reportCmd := &cobra.Command{
		Use:   "report [flight]",
		Short: "render a flight as an HTML chart page",
		Args:  cobra.ExactArgs(1),
		RunE:  reportFlight,
	}
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default <flight>.html)")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid-search gains over a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&kpMin, "kp-min", 0.2, "lowest kp to try")
	tuneCmd.Flags().Float64Var(&kpMax, "kp-max", 0.6, "highest kp to try")
	tuneCmd.Flags().IntVar(&kpSteps, "kp-steps", 3, "kp grid points")
	tuneCmd.Flags().Float64Var(&kdMin, "kd-min", 0.2, "lowest kd to try")
	tuneCmd.Flags().Float64Var(&kdMax, "kd-max", 0.6, "highest kd to try")
	tuneCmd.Flags().IntVar(&kdSteps, "kd-steps", 3, "kd grid points")
	tuneCmd.Flags().StringVar(&metric, "metric", tune.DefaultMetric, "metric to minimize")
	tuneCmd.Flags().StringVar(&tuneOut, "out", "", "write the winning config to a file")

	batchCmd := &cobra.Command{
		Use:   "batch [mission.yaml]",
		Short: "fly a scripted mission of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addConfigFlags(batchCmd)

	robustnessCmd := &cobra.Command{
		Use:   "robustness [scenario]",
		Short: "repeated randomized trials of one scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRobustness,
	}
	addConfigFlags(robustnessCmd)
	robustnessCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	robustnessCmd.Flags().Float64Var(&maxSearch, "max-search", 0.25, "searching fraction above which a trial counts as lost")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := sim.NewRegistry()
			fmt.Println("scenarios:")
			for _, name := range reg.List() {
				fmt.Printf("  %-10s %s\n", name, reg.Describe(name))
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s kp=%.2f kd=%.2f search=%d range=%d..%d\n",
					name, p.PID.Kp, p.PID.Kd, p.Search.Speed, p.Range.Min, p.Range.Max)
			}
			return nil
		},
	}

	rootCmd.AddCommand(flyCmd, simCmd, liveCmd, replayCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, reportCmd, tuneCmd, batchCmd, robustnessCmd,
		scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addConfigFlags registers the flags every flight-flying command shares.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", 0, "flight duration in seconds (0 = scenario default)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional yaw gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative yaw gain")
	cmd.Flags().Float64Var(&ki, "ki", 0, "integral yaw gain")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "control cycles per second")
	cmd.Flags().Int64Var(&seed, "seed", 42, "world random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers preset, config file, and explicitly set flags over the
// defaults, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("kp") {
		cfg.PID.Kp = kp
	}
	if cmd.Flags().Changed("kd") {
		cfg.PID.Kd = kd
	}
	if cmd.Flags().Changed("ki") {
		cfg.PID.Ki = ki
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pickScenario resolves the positional scenario argument, defaulting to
// stand, and applies the --time override.
func pickScenario(args []string) (sim.Scenario, error) {
	name := "stand"
	if len(args) > 0 {
		name = args[0]
	}
	sc, err := sim.NewRegistry().Get(name)
	if err != nil {
		return sim.Scenario{}, err
	}
	if duration > 0 {
		sc.Duration = time.Duration(duration * float64(time.Second))
	}
	return sc, nil
}

func openStore() (*flightlog.Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return flightlog.Open(filepath.Join(dataDir, "flights.db"))
}

// loadFlight fetches one flight and its cycles by id prefix.
func loadFlight(idPrefix string) (*flightlog.Flight, []track.Record, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	f, err := store.LoadFlight(idPrefix)
	if err != nil {
		return nil, nil, err
	}
	records, err := store.LoadCycles(f.ID)
	if err != nil {
		return nil, nil, err
	}
	return f, records, nil
}

func saveFlight(source string, cfg *config.Config, dur time.Duration, vals map[string]float64, records []track.Record) (string, error) {
	store, err := openStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	snapshot, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return store.SaveFlight(flightlog.Flight{
		Source:   source,
		Config:   string(snapshot),
		Duration: dur,
		Metrics:  vals,
	}, records)
}

func printMetrics(vals map[string]float64) {
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.3f\n", name, vals[name])
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runFly(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := pickScenario(args)
	if err != nil {
		return err
	}

	lib, err := perception.LoadLibrary(cfg.Faces)
	if err != nil {
		return fmt.Errorf("reference library: %w", err)
	}
	names := lib.Names()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	airframe := vehicle.NewSim(vehicle.DefaultSimConfig())
	var veh vehicle.Vehicle = airframe
	if dryRun {
		veh = &vehicle.Trace{Inner: airframe, W: os.Stdout}
	}

	if err := vehicle.Preflight(veh, cfg.Safety.MinBattery); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}
	if err := veh.TakeOff(); err != nil {
		return err
	}
	landed := false
	defer func() {
		if !landed {
			if err := veh.Land(); err != nil {
				monitoring.Logf("[WARN] landing failed: %v", err)
			}
		}
	}()
	if cfg.Safety.TakeoffHeight > 0 {
		if err := veh.MoveUp(cfg.Safety.TakeoffHeight); err != nil {
			return err
		}
	}

	clock := timeutil.RealClock{}
	tracker, err := track.NewTracker(cfg.Tracker(), names, veh, clock)
	if err != nil {
		return err
	}
	world := sim.NewWorld(sc.Bind(names), airframe, clock, sim.WorldConfig{
		FrameWidth:  cfg.Frame.Width,
		FrameHeight: cfg.Frame.Height,
		Seed:        cfg.Seed,
	})

	recorder := flightlog.NewRecorder()
	set := metrics.Standard()
	loop := track.NewLoop(tracker, world, clock, cfg.FrameInterval())
	loop.AddObserver(recorder)
	loop.AddObserver(set)

	fmt.Printf("flying %s for %s (ctrl-c to land)\n", sc.Name, sc.Duration)
	start := time.Now()
	_, runErr := loop.Run(ctx)
	elapsed := time.Since(start)

	if err := veh.Land(); err != nil {
		monitoring.Logf("[WARN] landing failed: %v", err)
	}
	landed = true

	switch {
	case runErr == nil, errors.Is(runErr, sim.ErrScenarioDone):
		fmt.Printf("landed after %s\n", elapsed.Round(time.Millisecond))
	case errors.Is(runErr, context.Canceled):
		fmt.Printf("interrupted, landed after %s\n", elapsed.Round(time.Millisecond))
	default:
		return runErr
	}

	if pct, err := veh.Battery(); err == nil {
		fmt.Printf("battery: %d%%\n", pct)
	}

	id, err := saveFlight("fly:"+sc.Name, cfg, elapsed, set.Values(), recorder.Records())
	if err != nil {
		return err
	}
	fmt.Printf("flight id: %s\n", id)
	fmt.Printf("cycles: %d\n", recorder.Len())
	printMetrics(set.Values())
	return nil
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := pickScenario(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("flying %s...\n", sc.Name)
	start := time.Now()
	res, err := sim.NewRunner().Run(ctx, sc, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("flight time: %s\n", res.Duration.Round(time.Millisecond))
	fmt.Printf("cycles: %d\n", len(res.Records))
	fmt.Printf("battery: %d%%\n", res.Battery)

	id, err := saveFlight("sim:"+sc.Name, cfg, res.Duration, res.Metrics, res.Records)
	if err != nil {
		return err
	}
	fmt.Printf("flight id: %s\n", id)

	if svgOut != "" {
		svg := export.GroundTrackSVG(res, sc, 800, 600)
		if err := os.WriteFile(svgOut, []byte(svg), 0o644); err != nil {
			return err
		}
		fmt.Printf("ground track: %s\n", svgOut)
	}

	printMetrics(res.Metrics)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := pickScenario(args)
	if err != nil {
		return err
	}

	c, err := viz.NewCockpit(sc, cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(c)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// runReplay feeds a recorded flight's target track back through the
// controller, so different gains can be compared against the same
// observations. The flight's own config is the baseline; gain flags
// override it.
func runReplay(cmd *cobra.Command, args []string) error {
	f, records, err := loadFlight(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("flight %s has no cycles", shortID(f.ID))
	}

	cfg := config.DefaultConfig()
	if f.Config != "" {
		if err := yaml.Unmarshal([]byte(f.Config), cfg); err != nil {
			return fmt.Errorf("flight config: %w", err)
		}
	}
	if cmd.Flags().Changed("kp") {
		cfg.PID.Kp = kp
	}
	if cmd.Flags().Changed("kd") {
		cfg.PID.Kd = kd
	}
	if cmd.Flags().Changed("ki") {
		cfg.PID.Ki = ki
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Faces))
	for name := range cfg.Faces {
		names = append(names, name)
	}
	sort.Strings(names)
	ident := names[0]

	frames := make([][]track.Detection, len(records))
	for i, rec := range records {
		if rec.Target.None() {
			continue
		}
		frames[i] = []track.Detection{{
			Identity: ident,
			X:        rec.Target.X,
			Y:        rec.Target.Y,
			Area:     rec.Target.Area,
		}}
	}

	clock := timeutil.NewSimClock(time.Unix(0, 0))
	veh := vehicle.NewSim(vehicle.DefaultSimConfig())
	if err := veh.TakeOff(); err != nil {
		return err
	}
	tracker, err := track.NewTracker(cfg.Tracker(), names, veh, clock)
	if err != nil {
		return err
	}

	set := metrics.Standard()
	loop := track.NewLoop(tracker, perception.NewScript(frames), clock, cfg.FrameInterval())
	loop.AddObserver(set)

	_, runErr := loop.Run(context.Background())
	if runErr != nil && !errors.Is(runErr, perception.ErrScriptOver) {
		return runErr
	}
	if err := veh.Land(); err != nil {
		monitoring.Logf("[WARN] landing failed: %v", err)
	}

	fmt.Printf("replayed %s (%d cycles, kp=%.2f kd=%.2f)\n", shortID(f.ID), len(records), cfg.PID.Kp, cfg.PID.Kd)

	replayed := set.Values()
	names = names[:0]
	for name := range replayed {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tRECORDED\tREPLAYED")
	for _, name := range names {
		recorded := "-"
		if v, ok := f.Metrics[name]; ok {
			recorded = fmt.Sprintf("%.3f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\n", name, recorded, replayed[name])
	}
	return w.Flush()
}

func listFlights(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	flights, err := store.ListFlights()
	if err != nil {
		return err
	}
	if len(flights) == 0 {
		fmt.Println("no flights found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tSTARTED\tCYCLES\tDURATION\tERR_PX")
	for _, f := range flights {
		errPx := "-"
		if v, ok := f.Metrics["centering_error"]; ok {
			errPx = fmt.Sprintf("%.1f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(f.ID),
			f.Source,
			f.StartedAt.Format("2006-01-02 15:04:05"),
			f.Cycles,
			f.Duration.Round(time.Millisecond),
			errPx,
		)
	}
	return w.Flush()
}

func plotFlight(cmd *cobra.Command, args []string) error {
	f, records, err := loadFlight(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("flight: %s\n", shortID(f.ID))
	fmt.Printf("source: %s\n", f.Source)
	fmt.Printf("samples: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(track.Record) float64
	}{
		{"err_x (px, + is target right of center)", func(r track.Record) float64 { return float64(r.ErrX) }},
		{"yaw command", func(r track.Record) float64 { return float64(r.Command.Yaw) }},
		{"forward/back command", func(r track.Record) float64 { return float64(r.Command.ForwardBack) }},
	}
	for _, s := range series {
		data := make([]float64, len(records))
		for i, rec := range records {
			data[i] = s.value(rec)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	searching := 0
	for _, rec := range records {
		if rec.Mode == track.ModeSearching {
			searching++
		}
	}
	fmt.Printf("searching: %d/%d cycles (%.0f%%)\n", searching, len(records),
		100*float64(searching)/float64(len(records)))
	return nil
}

func analyzeFlight(cmd *cobra.Command, args []string) error {
	f, records, err := loadFlight(args[0])
	if err != nil {
		return err
	}

	errs := analysis.TrackingError(records)
	if len(errs) == 0 {
		return fmt.Errorf("flight %s has no tracking cycles", shortID(f.ID))
	}

	fmt.Printf("flight: %s\n", shortID(f.ID))
	fmt.Printf("source: %s\n\n", f.Source)
	fmt.Printf("centering error: %s\n\n", metrics.Summarize(errs))

	sampleHz := float64(config.DefaultFPS)
	if last := records[len(records)-1].T; last > 0 && len(records) > 1 {
		sampleHz = float64(len(records)-1) / last.Seconds()
	}

	spec := analysis.NewSpectrum(errs, sampleHz)
	if len(spec.Power) > 1 {
		graph := asciigraph.Plot(spec.Power,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("error power spectrum"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if freq, power := spec.Dominant(); freq > 0 {
		fmt.Printf("dominant oscillation: %.3f hz (power %.1f)\n", freq, power)
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, records, err := loadFlight(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to export")
	}
	return flightlog.ExportCSV(os.Stdout, records)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	f, records, err := loadFlight(args[0])
	if err != nil {
		return err
	}
	return flightlog.ExportJSON(os.Stdout, *f, records)
}

func reportFlight(cmd *cobra.Command, args []string) error {
	f, records, err := loadFlight(args[0])
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		out = shortID(f.ID) + ".html"
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := report.WriteFlightReport(file, *f, records); err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", out)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := pickScenario(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grid := tune.Gains(tune.Span(kpMin, kpMax, kpSteps), tune.Span(kdMin, kdMax, kdSteps))
	fmt.Printf("sweeping %d candidates over %s...\n", len(grid.Candidates()), sc.Name)

	start := time.Now()
	out, err := tune.Sweep(ctx, sc, cfg, grid, metric)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KP\tKD\t%s\n", out.Metric)
	for _, trial := range out.Trials {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\n", trial.Params["kp"], trial.Params["kd"], trial.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: kp=%.3f kd=%.3f (%s %.3f)\n",
		out.Best.Params["kp"], out.Best.Params["kd"], out.Metric, out.Best.Score)

	if tuneOut != "" {
		best, err := tune.Apply(cfg, out.Best.Params)
		if err != nil {
			return err
		}
		if err := config.Save(tuneOut, best); err != nil {
			return err
		}
		fmt.Printf("config written to %s\n", tuneOut)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	m, err := automation.LoadMission(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := automation.RunMission(ctx, m, sim.NewRegistry(), cfg, store)

	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tSCENARIO\tCYCLES\tERR_PX\tSEARCH\tFLIGHT")
		for i, res := range results {
			fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.0f%%\t%s\n",
				i+1,
				res.Step.Scenario,
				len(res.Result.Records),
				res.Result.Metrics["centering_error"],
				100*res.Result.Metrics["time_in_search"],
				shortID(res.FlightID),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return runErr
}

func runRobustness(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	name := "stand"
	if len(args) > 0 {
		name = args[0]
	}

	mc := &automation.MonteCarlo{
		Scenario:          name,
		Trials:            trials,
		MaxSearchFraction: maxSearch,
	}
	if cmd.Flags().Changed("seed") {
		mc.Seed = seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := automation.RunMonteCarlo(ctx, mc, sim.NewRegistry(), cfg)

	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TRIAL\tSEED\tERR_PX\tSEARCH\tLOCKED")
		for _, tr := range results {
			fmt.Fprintf(w, "%d\t%d\t%.1f\t%.0f%%\t%v\n",
				tr.Trial,
				tr.Seed,
				tr.Metrics["centering_error"],
				100*tr.Metrics["time_in_search"],
				tr.Locked,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		locked, lost := automation.LockStats(results)
		fmt.Printf("\nlocked %d/%d trials (%d lost)\n", locked, locked+lost, lost)
	}
	return runErr
}
