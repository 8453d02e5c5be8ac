package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigid2d/internal/automation"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/experiment"
	"github.com/san-kum/rigid2d/internal/export"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/storage"
	"github.com/san-kum/rigid2d/internal/viz"
	"github.com/spf13/cobra"
)

const (
	svgWidth  = 800
	svgHeight = 800
)

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "rigid2d",
	}), nil
}

// resolveScene applies the preset, then the scene file, then any flag the
// user set explicitly.
func resolveScene(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("sample") {
		cfg.Sample = sampleEvery
	}
	if flags.Changed("resolve-rects") {
		cfg.ResolveRects = resolveRects
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runExperiment(cmd *cobra.Command) (*config.Config, *sim.Result, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := resolveScene(cmd)
	if err != nil {
		return nil, nil, err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running scene", "scene", cfg.Name, "ticks", cfg.Ticks, "integrator", cfg.Integrator)
	result, err := exp.Run(ctx)
	return cfg, result, err
}

func boundaryLabel(cfg *config.Config) string {
	bd, err := cfg.WorldBoundary()
	if err != nil || bd == nil {
		return ""
	}
	return fmt.Sprintf("%s (%.0f, %.0f) r=%.0f", bd.Mode, bd.Center.X, bd.Center.Y, bd.Radius)
}

func runScene(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg, result, err := runExperiment(cmd)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:      cfg.Name,
		Gravity:    cfg.Gravity,
		Dt:         cfg.Dt,
		Integrator: cfg.Integrator,
		Boundary:   boundaryLabel(cfg),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	for _, rerr := range result.Errors {
		fmt.Printf("error: %v\n", rerr)
	}
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScene(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the live view owns the terminal, so the simulation logs nowhere
	reg := experiment.NewRegistry()
	build := func() (*sim.Simulation, error) {
		return experiment.Build(cfg, reg, nil)
	}
	return viz.Run(cfg.Name, build, cfg.FPS)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tGRAVITY\tDT\tINTEG\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%.2f\t%s\t%dc/%dr\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Gravity,
			run.Dt,
			run.Integrator,
			run.Circles,
			run.Rects,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	cols := columns
	if len(cols) == 0 {
		switch {
		case meta.Circles > 0:
			cols = []string{"c0_x", "c0_y"}
		case meta.Rects > 0:
			cols = []string{"r0_x", "r0_y"}
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states.Rows))

	for _, col := range cols {
		data, ok := states.Column(col)
		if !ok {
			return fmt.Errorf("unknown column: %s (available: %v)", col, states.Header[1:])
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs tick"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	src, err := os.Open(st.StatesPath(runID))
	if err != nil {
		return err
	}
	defer src.Close()

	path := outPath
	if path == "" {
		path = runID + ".csv"
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, result, err := runExperiment(cmd)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = cfg.Name + ".json"
	}
	info := export.Info{Scene: cfg.Name, Integrator: cfg.Integrator, Gravity: cfg.Gravity, Dt: cfg.Dt}
	if err := export.ExportJSON(path, info, result); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", len(result.Frames), path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, result, err := runExperiment(cmd)
	if err != nil {
		return err
	}
	if len(result.Frames) == 0 {
		return fmt.Errorf("no frames to render")
	}
	bd, err := cfg.WorldBoundary()
	if err != nil {
		return err
	}

	final := result.Frames[len(result.Frames)-1]
	trails := make([][]dynamo.Vec2, len(final.Circles))
	for _, f := range result.Frames {
		for i, c := range f.Circles {
			trails[i] = append(trails[i], c.Position)
		}
	}

	path := outPath
	if path == "" {
		path = cfg.Name + ".svg"
	}
	svg := export.FrameWithTrailsToSVG(&final, bd, trails, svgWidth, svgHeight)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("rendered tick %d to %s\n", final.Tick, path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRAVITY\tCIRCLES\tRECTS\tBOUNDARY")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%d\t%s\n", name, p.Gravity, len(p.Circles), len(p.Rects), boundaryLabel(p))
	}
	return w.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScene(cmd)
	if err != nil {
		return err
	}
	s, err := experiment.Build(cfg, experiment.NewRegistry(), nil)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d circles, %d rects)...\n", cfg.Name, s.NumCircles(), s.NumRects())

	start := time.Now()
	for i := 0; i < cfg.Ticks; i++ {
		s.Tick()
	}
	elapsed := time.Since(start)

	fmt.Printf("ticks: %d\n", cfg.Ticks)
	fmt.Printf("time: %v\n", elapsed)
	fmt.Printf("per tick: %v\n", elapsed/time.Duration(max(cfg.Ticks, 1)))
	fmt.Printf("ticks/sec: %.0f\n", float64(cfg.Ticks)/elapsed.Seconds())
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s scene to %s\n", preset, args[0])
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	for i, res := range results {
		fmt.Printf("step %d: %d ticks\n", i+1, res.TicksTaken)
		printMetrics(os.Stdout, res.Metrics)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScene(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Scene:     cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK_ENERGY\tCONTACTS\tMAX_OVERLAP\tFAILED\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%v\n", r.ParamValue, r.PeakEnergy, r.MeanContacts, r.MaxOverlap, r.Failed)
	}
	return w.Flush()
}
