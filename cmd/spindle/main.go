package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/spindle/internal/config"
	"github.com/unbound-force/spindle/internal/dial"
	"github.com/unbound-force/spindle/internal/mutate"
	"github.com/unbound-force/spindle/internal/report"
	"github.com/unbound-force/spindle/internal/trace"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

// defaultInstructions is the built-in instruction list, used when no
// file argument is given.
//
//go:embed instructions.txt
var defaultInstructions string

func main() {
	root := &cobra.Command{
		Use:   "spindle",
		Short: "Spindle — a dial-password kata with a testing toolbelt",
		Long: `Spindle replays direction+distance instructions around a 0-99
dial and counts how many land exactly on zero. The same tiny core is
exercised three ways: example tables, fuzz targets, and a built-in
mutation tester.`,
		Version: version,
	}

	root.AddCommand(newCountCmd())
	root.AddCommand(newTraceCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newMutateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInstructions returns the instruction tokens from a file, or
// from the embedded default list when file is empty.
func readInstructions(file string) ([]string, error) {
	text := defaultInstructions
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading instructions: %w", err)
		}
		text = string(data)
	}
	return dial.Lines(text), nil
}

// countParams holds the parsed flags for the count command.
type countParams struct {
	file       string
	configPath string
	start      int64
	startSet   bool
	stdout     io.Writer
	stderr     io.Writer
}

// runCount is the extracted, testable body of the count command.
func runCount(p countParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}
	start := cfg.Dial.Start
	if p.startSet {
		start = p.start
	}

	tokens, err := readInstructions(p.file)
	if err != nil {
		return err
	}

	logger.Info("counting zero crossings", "instructions", len(tokens), "start", start)

	count := dial.Count(tokens, start)

	// The label value goes through Number formatting so a NaN value
	// would print verbatim. The tally itself is an incremented
	// integer and can never actually be NaN.
	fmt.Fprintf(p.stdout, "The password is: %s\n", dial.Int(int64(count)))
	return nil
}

func newCountCmd() *cobra.Command {
	var (
		start      int64
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Count instructions that land the dial on zero",
		Long: `Replay an instruction list (one token per line, blank lines
ignored) and print how many instructions land the dial exactly on
position zero. With no file argument the built-in list is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runCount(countParams{
				file:       file,
				configPath: configPath,
				start:      start,
				startSet:   cmd.Flags().Changed("start"),
				stdout:     os.Stdout,
				stderr:     os.Stderr,
			})
		},
	}

	cmd.Flags().Int64Var(&start, "start", dial.DefaultStart,
		"starting dial position")
	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: .spindle.yaml if present)")

	return cmd
}

// traceParams holds the parsed flags for the trace command.
type traceParams struct {
	file        string
	configPath  string
	format      string
	formatSet   bool
	start       int64
	startSet    bool
	interactive bool
	stdout      io.Writer
	stderr      io.Writer
}

// runTrace is the extracted, testable body of the trace command.
func runTrace(p traceParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if p.formatSet {
		format = p.format
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}

	start := cfg.Dial.Start
	if p.startSet {
		start = p.start
	}

	tokens, err := readInstructions(p.file)
	if err != nil {
		return err
	}

	logger.Info("replaying instructions", "instructions", len(tokens), "start", start)

	res := trace.Run(tokens, start)

	if p.interactive {
		return runInteractiveTrace(res)
	}

	switch format {
	case "json":
		return report.WriteJSON(p.stdout, res)
	default:
		return report.WriteText(p.stdout, res)
	}
}

func newTraceCmd() *cobra.Command {
	var (
		start       int64
		format      string
		configPath  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Replay instructions step by step",
		Long: `Replay an instruction list and report every intermediate
position, including the NaN contamination a malformed token causes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runTrace(traceParams{
				file:        file,
				configPath:  configPath,
				format:      format,
				formatSet:   cmd.Flags().Changed("format"),
				start:       start,
				startSet:    cmd.Flags().Changed("start"),
				interactive: interactive,
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	cmd.Flags().Int64Var(&start, "start", dial.DefaultStart,
		"starting dial position")
	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: .spindle.yaml if present)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing the trace")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for trace output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of spindle trace --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}

// mutateParams holds the parsed flags for the mutate command.
type mutateParams struct {
	patterns    []string
	configPath  string
	format      string
	formatSet   bool
	minScore    float64
	minScoreSet bool
	timeout     time.Duration
	timeoutSet  bool
	moduleDir   string
	stdout      io.Writer
	stderr      io.Writer
}

// runMutate is the extracted, testable body of the mutate command.
func runMutate(p mutateParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if p.formatSet {
		format = p.format
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}

	minScore := cfg.Mutate.MinScore
	if p.minScoreSet {
		minScore = p.minScore
	}
	if minScore < 0 || minScore > 100 {
		return fmt.Errorf("invalid min-score %.1f: must be in [0, 100]", minScore)
	}

	timeout := time.Duration(cfg.Mutate.TestTimeout)
	if p.timeoutSet {
		timeout = p.timeout
	}

	logger.Info("running mutation tests", "patterns", p.patterns)

	rpt, err := mutate.Run(context.Background(), mutate.Options{
		Patterns:    p.patterns,
		ModuleDir:   p.moduleDir,
		TestTimeout: timeout,
		MinScore:    minScore,
	})
	if err != nil {
		return err
	}

	logger.Info("mutation run complete",
		"mutants", rpt.Summary.Total, "survived", rpt.Summary.Survived)

	switch format {
	case "json":
		err = mutate.WriteJSON(p.stdout, rpt)
	default:
		err = mutate.WriteText(p.stdout, rpt)
	}
	if err != nil {
		return err
	}

	printMutateSummary(p.stderr, rpt)

	return rpt.CheckThreshold()
}

// printMutateSummary prints a one-line CI summary to stderr when a
// score threshold is set.
func printMutateSummary(w io.Writer, rpt *mutate.Report) {
	if rpt.Summary.MinScore <= 0 {
		return
	}
	status := "PASS"
	if rpt.Summary.Score < rpt.Summary.MinScore {
		status = "FAIL"
	}
	fmt.Fprintf(w, "Mutation score: %.1f%%/%.1f%% (%s)\n",
		rpt.Summary.Score, rpt.Summary.MinScore, status)
}

func newMutateCmd() *cobra.Command {
	var (
		format     string
		configPath string
		minScore   float64
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mutate [packages...]",
		Short: "Run mutation tests against the package tests",
		Long: `Flip arithmetic and comparison operators in the target packages
one at a time and run the test suite against each mutant. A mutant
that survives marks behavior the tests never pin down. Defaults to
./... when no packages are given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			moduleDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}
			return runMutate(mutateParams{
				patterns:    patterns,
				configPath:  configPath,
				format:      format,
				formatSet:   cmd.Flags().Changed("format"),
				minScore:    minScore,
				minScoreSet: cmd.Flags().Changed("min-score"),
				timeout:     timeout,
				timeoutSet:  cmd.Flags().Changed("timeout"),
				moduleDir:   moduleDir,
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: .spindle.yaml if present)")
	cmd.Flags().Float64Var(&minScore, "min-score", 0,
		"fail if the mutation score is below this (0 = no limit)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute,
		"per-mutant go test timeout")

	return cmd
}
