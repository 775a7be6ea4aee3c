package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/metrics"
	"github.com/san-kum/sixdof/internal/rigid"
	"github.com/san-kum/sixdof/internal/sim"
	"github.com/san-kum/sixdof/internal/storage"
	"github.com/san-kum/sixdof/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	mass       float64
	gravity    float64
	thrust     float64
	burnTime   float64
	configFile string
	preset     string
	numRuns    int
	spread     float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sixdof",
		Short: "6dof rigid body flight simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sixdof", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a trajectory",
		RunE:  runTrajectory,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrator",
		RunE:  benchIntegrator,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a trajectory with live visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run perturbed trajectories in parallel",
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of trajectories")
	ensembleCmd.Flags().Float64Var(&spread, "spread", 0.05, "initial tip-off rate spread (rad/s)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, benchCmd, liveCmd, ensembleCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "initial mass")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration")
	cmd.Flags().Float64Var(&thrust, "thrust", 0, "thrust magnitude along body z")
	cmd.Flags().Float64Var(&burnTime, "burn-time", 0, "thrust burn time")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves preset, config file and flags in that order; flags the
// user set explicitly win over both.
func buildConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "file"
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("mass") {
		cfg.Body.Mass = mass
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Loads.Gravity = gravity
	}
	if cmd.Flags().Changed("thrust") || cmd.Flags().Changed("burn-time") {
		cfg.Loads.Thrust = &config.ThrustConfig{Magnitude: thrust, BurnTime: burnTime}
	}

	return cfg, name, nil
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, name, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	body, err := cfg.NewBody()
	if err != nil {
		return err
	}

	s := sim.New(cfg.LoadModel())
	s.AddMetric(metrics.NewApogee())
	s.AddMetric(metrics.NewMaxSpeed())
	s.AddMetric(metrics.NewAngularMomentumDrift())

	fmt.Printf("running %s trajectory...\n", name)
	start := time.Now()

	result, err := s.Run(context.Background(), body, cfg.SimConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg.SimConfig(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for metric, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", metric, val)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
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

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(states))

	// altitude, vertical speed, spin rate and mass tell most of the story
	captions := map[int]string{
		2:  "altitude pz [m]",
		5:  "vertical speed vz [m/s]",
		12: "spin rate wz [rad/s]",
		13: "mass [kg]",
	}

	for _, varIdx := range []int{2, 5, 12, 13} {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[varIdx]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, storage.StateColumns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Samples:    make([]sim.Sample, len(states)),
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	for i, s := range states {
		if len(s) < len(storage.StateColumns) {
			continue
		}
		result.Samples[i] = sim.Sample{
			Time:            times[i],
			Position:        r3.Vec{X: s[0], Y: s[1], Z: s[2]},
			Velocity:        r3.Vec{X: s[3], Y: s[4], Z: s[5]},
			Orientation:     quat.Number{Real: s[6], Imag: s[7], Jmag: s[8], Kmag: s[9]},
			AngularVelocity: r3.Vec{X: s[10], Y: s[11], Z: s[12]},
			Mass:            s[13],
		}
	}

	cfg := sim.Config{Dt: meta.Dt, Duration: meta.Duration, Seed: meta.Seed}
	return storage.ExportJSONStdout(meta.Name, cfg, result)
}

func benchIntegrator(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset("launch")

	durations := []float64{1.0, 10.0, 100.0}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Println("benchmarking launch trajectory")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, stepSize := range dts {
			body, err := cfg.NewBody()
			if err != nil {
				return err
			}

			simCfg := sim.Config{Dt: stepSize, Duration: dur, Seed: 42}

			start := time.Now()
			result, err := sim.New(cfg.LoadModel()).Run(context.Background(), body, simCfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, stepSize, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	body, err := cfg.NewBody()
	if err != nil {
		return err
	}

	return tui.RunLive(name, body, cfg.LoadModel(), cfg.SimConfig())
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// tip-off rates are drawn up front; factories run concurrently
	rng := rand.New(rand.NewSource(cfg.Seed))
	tipoffs := make([][3]float64, numRuns)
	for i := range tipoffs {
		tipoffs[i] = [3]float64{
			cfg.Body.AngularVelocity[0] + rng.NormFloat64()*spread,
			cfg.Body.AngularVelocity[1] + rng.NormFloat64()*spread,
			cfg.Body.AngularVelocity[2],
		}
	}
	factory := func(run int) (*rigid.Body, error) {
		perturbed := *cfg
		perturbed.Body.AngularVelocity = tipoffs[run]
		return perturbed.NewBody()
	}

	fmt.Printf("running %d perturbed %s trajectories...\n", numRuns, name)
	start := time.Now()

	e := sim.NewEnsemble(factory, cfg.LoadModel(), numRuns)
	results, err := e.Run(context.Background(), cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tFINAL X\tFINAL Y\tFINAL Z\tMAX |V|")

	for i, r := range results {
		last := r.Samples[len(r.Samples)-1]
		maxSpeed := 0.0
		for _, s := range r.Samples {
			if v := r3.Norm(s.Velocity); v > maxSpeed {
				maxSpeed = v
			}
		}
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			i, last.Position.X, last.Position.Y, last.Position.Z, maxSpeed)
	}

	return w.Flush()
}
