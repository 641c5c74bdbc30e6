package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/polymorph-sim/polymorph-sim/sim"
	"github.com/polymorph-sim/polymorph-sim/sim/output"
	"github.com/polymorph-sim/polymorph-sim/sim/trace"
)

var (
	// CLI flags for the run command
	seed              int64   // Seed for all random draws (0 = time-based)
	logLevel          string  // Log verbosity level
	configPath        string  // YAML parameter file overlaying the defaults
	outputPath        string  // CSV file for per-generation proportions
	dbPath            string  // SQLite run history
	replicates        int     // Number of independent runs
	quiet             bool    // Suppress per-stage console progress
	traceLevel        string  // Stages kept in the in-memory run trace
	generations       int     // Overrides generations
	eggsPerGeneration int     // Overrides eggs_per_generation
	freqDepCoef       float64 // Overrides mating.frequency_dependence
	stopWhenFixated   bool    // Overrides stop_when_fixated
	proportionFemales float64 // Overrides proportion_females
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "polymorph-sim",
	Short: "Multi-generation simulator of a two-allele polymorphism",
}

// runCmd executes the simulation using parameters from YAML and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the polymorphism simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		params, err := loadParams(cmd, configPath)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}

		level, err := parseTraceLevel(traceLevel)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		runSeed := seed
		if runSeed == 0 {
			runSeed = time.Now().UnixNano()
		}
		logrus.Infof("Using seed %d (pass --seed %d to replay)", runSeed, runSeed)

		startTime := time.Now()
		opts := runOptions{
			OutputPath: outputPath,
			DBPath:     dbPath,
			Replicates: replicates,
			Quiet:      quiet,
			TraceLevel: level,
		}
		if err := runSimulation(os.Stdout, params, runSeed, opts); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// runOptions selects the reporting collaborators of a run.
type runOptions struct {
	OutputPath string
	DBPath     string
	Replicates int
	Quiet      bool
	TraceLevel trace.TraceLevel
}

// parseTraceLevel validates a --trace-level value.
func parseTraceLevel(name string) (trace.TraceLevel, error) {
	if !trace.IsValidTraceLevel(name) {
		return "", fmt.Errorf("invalid trace level %q (want none, adults or all)", name)
	}
	return trace.TraceLevel(name), nil
}

// runSimulation runs the replicates and prints a summary to out.
func runSimulation(out io.Writer, params *sim.Params, runSeed int64, opts runOptions) error {
	if opts.Replicates < 1 {
		opts.Replicates = 1
	}

	var history *output.History
	if opts.DBPath != "" {
		h, err := output.OpenHistory(opts.DBPath)
		if err != nil {
			return err
		}
		defer h.Close()
		history = h
	}

	traces := make([]*sim.TraceReporter, 0, opts.Replicates)
	factory := func(i int, key sim.SimulationKey) (sim.Reporter, func() error, error) {
		var reps sim.Reporters
		var closers []func() error

		if !opts.Quiet {
			prefix := ""
			if opts.Replicates > 1 {
				prefix = fmt.Sprintf("[rep %d] ", i)
			}
			reps = append(reps, output.NewConsoleReporter(out, prefix))
		}

		tr := sim.NewTraceReporter(opts.TraceLevel)
		traces = append(traces, tr)
		reps = append(reps, tr)

		if opts.OutputPath != "" {
			csvRep, err := output.CreateCSVReporter(replicatePath(opts.OutputPath, i, opts.Replicates))
			if err != nil {
				return nil, nil, err
			}
			reps = append(reps, csvRep)
			closers = append(closers, csvRep.Close)
		}
		if history != nil {
			hr, err := history.NewRun(key, i)
			if err != nil {
				return nil, nil, errors.Join(err, closeAll(closers))
			}
			logrus.Debugf("replicate %d recorded as run %s", i, hr.RunID())
			reps = append(reps, hr)
		}
		return reps, func() error { return closeAll(closers) }, nil
	}

	results, err := sim.RunReplicates(params, sim.NewSimulationKey(runSeed), opts.Replicates, factory)
	if err != nil {
		return err
	}

	if len(results) == 1 {
		if !results[0].Completed() {
			logrus.Warnf("Run stopped early at generation %d of %d: %s",
				results[0].Generations, params.Generations, results[0].Reason)
		}
		results[0].Print(out)
		printTraceSummary(out, trace.Summarize(traces[0].Trace))
		return nil
	}
	printReplicateSummary(out, sim.SummarizeReplicates(results))
	return nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// replicatePath returns path unchanged for a single run, otherwise inserts
// "_rep<i>" before the extension.
func replicatePath(path string, i, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_rep%d%s", strings.TrimSuffix(path, ext), i, ext)
}

func printTraceSummary(out io.Writer, s *trace.TraceSummary) {
	if s.AdultStages == 0 {
		return
	}
	fmt.Fprintf(out, "Adult pool size    : min %d / mean %.1f / max %d\n", s.MinAdults, s.MeanAdults, s.MaxAdults)
	fmt.Fprintf(out, "Adult B frequency  : %.4f -> %.4f\n", s.FirstAdultB, s.LastAdultB)
}

func printReplicateSummary(out io.Writer, s *sim.ReplicateSummary) {
	fmt.Fprintln(out, "=== Replicate Summary ===")
	fmt.Fprintf(out, "Runs               : %d\n", s.Runs)
	for _, reason := range []sim.TerminationReason{
		sim.ReasonCompleted, sim.ReasonFixated, sim.ReasonDegenerateMatingWeights, sim.ReasonExtinct,
	} {
		fmt.Fprintf(out, "  %-25s: %d\n", reason, s.ByReason[reason])
	}
	fmt.Fprintf(out, "Fixated on A / B   : %d / %d\n", s.FixedA, s.FixedB)
	fmt.Fprintf(out, "Final B frequency  : %.4f ± %.4f\n", s.MeanB, s.StdDevB)
	if s.NoAdults > 0 {
		fmt.Fprintf(out, "  (%d runs without mature adults excluded)\n", s.NoAdults)
	}
	fmt.Fprintf(out, "Generations run    : %.2f ± %.2f\n", s.MeanGens, s.StdDevGens)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for all random draws (0 = time-based)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML parameter file overlaying the built-in defaults")
	runCmd.Flags().StringVar(&outputPath, "output", "", "CSV file for per-generation genotype proportions")
	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database recording run history")
	runCmd.Flags().IntVar(&replicates, "replicates", 1, "Number of independent runs, executed one after another")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress per-stage progress lines")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelAdults), "Stages kept for the run summary (none, adults, all)")

	// Parameter overrides; applied only when set explicitly
	runCmd.Flags().IntVar(&generations, "generations", 5, "Number of generations")
	runCmd.Flags().IntVar(&eggsPerGeneration, "eggs-per-generation", 1000, "Egg carrying capacity per generation")
	runCmd.Flags().Float64Var(&freqDepCoef, "freq-dep", 0.0, "Male frequency-dependence coefficient (0 disables)")
	runCmd.Flags().BoolVar(&stopWhenFixated, "stop-when-fixated", true, "Stop once an allele is fixated in the egg pool")
	runCmd.Flags().Float64Var(&proportionFemales, "proportion-females", 0.5, "Probability that an egg is female")

	defaultsCmd.Flags().StringVar(&configPath, "config", "", "YAML parameter file overlaying the built-in defaults")

	historyCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database recording run history")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Show the stages of this run instead of the run list")
	_ = historyCmd.MarkFlagRequired("db")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(historyCmd)
}
