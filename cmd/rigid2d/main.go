package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir      string
	logLevel     string
	configFile   string
	preset       string
	ticks        int
	gravity      float64
	dt           float64
	integrator   string
	sampleEvery  int
	frameRate    int
	resolveRects bool
	outPath      string
	columns      []string
	scenarioFile string
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rigid2d",
		Short:        "2d rigid body sandbox",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigid2d", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and store the result",
		RunE:  runScene,
	}
	sceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scene in the terminal live view",
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored state columns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to plot (default: first body x and y)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "copy a run's states to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <run_id>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "run a scene and export every sampled frame to JSON",
		RunE:  exportJSON,
	}
	sceneFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <scene>.json)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "run a scene and render the final frame with trails to SVG",
		RunE:  exportSVG,
	}
	sceneFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <scene>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the tick loop on a scene",
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a scene file from a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "falling", "preset to start from")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "rerun a scene across a range of gravity or dt",
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to sweep (gravity, dt)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, benchCmd, initConfigCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "falling", "scene preset")
	cmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity along +y")
	cmd.Flags().Float64Var(&dt, "dt", 1, "integration step in ticks")
	cmd.Flags().StringVar(&integrator, "integrator", "symplectic", "integrator (symplectic, euler)")
	cmd.Flags().IntVar(&sampleEvery, "sample", 1, "keep every n-th frame")
	cmd.Flags().BoolVar(&resolveRects, "resolve-rects", false, "resolve rectangle overlaps")
}
