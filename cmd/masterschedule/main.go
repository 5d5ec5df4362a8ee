// Command masterschedule runs the master-schedule constraint-optimization
// pipeline: Input Adapter, Model Builder, Solver Driver, Greedy Fallback,
// and Result Materializer, wired into a single batch CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sreevallabh04/masterschedule/internal/config"
	"github.com/sreevallabh04/masterschedule/internal/ingest"
	"github.com/sreevallabh04/masterschedule/internal/logging"
	"github.com/sreevallabh04/masterschedule/internal/pipeline"
)

var (
	inputPath   string
	inputFormat string
	outputDir   string
	timeBudget  time.Duration
	logLevel    string
)

func main() {
	root := &cobra.Command{
		Use:   "masterschedule",
		Short: "Secondary-school master-schedule constraint-optimization solver",
		Long: "masterschedule turns student requests, course offerings, and room\n" +
			"capacities into a per-student timetable, a per-teacher timetable,\n" +
			"and per-section rosters, via ILP with a deterministic greedy fallback.",
	}

	cmdSolve := &cobra.Command{
		Use:   "solve",
		Short: "run the full pipeline and write student/teacher schedules, statistics, and a report",
		RunE:  runSolve,
	}
	cmdSolve.Flags().StringVar(&inputPath, "in", "", "path to the input document, or directory of CSV files with --format csv (required)")
	cmdSolve.Flags().StringVar(&inputFormat, "format", "json", "input format: json (single document) or csv (directory of per-collection files)")
	cmdSolve.Flags().StringVar(&outputDir, "out", "", "directory to write output artifacts to (defaults to OUTPUT_DIR)")
	cmdSolve.Flags().DurationVar(&timeBudget, "time-budget", 0, "solver time budget (defaults to SOLVER_TIME_BUDGET)")
	cmdSolve.Flags().StringVar(&logLevel, "log-level", "", "log level override (defaults to LOG_LEVEL)")
	_ = cmdSolve.MarkFlagRequired("in")
	root.AddCommand(cmdSolve)

	cmdValidate := &cobra.Command{
		Use:   "validate",
		Short: "check an input document for structural problems without solving",
		RunE:  runValidate,
	}
	cmdValidate.Flags().StringVar(&inputPath, "in", "", "path to the input document, or directory of CSV files with --format csv (required)")
	cmdValidate.Flags().StringVar(&inputFormat, "format", "json", "input format: json (single document) or csv (directory of per-collection files)")
	_ = cmdValidate.MarkFlagRequired("in")
	root.AddCommand(cmdValidate)

	cmdReport := &cobra.Command{
		Use:   "report",
		Short: "print the Markdown report from a prior solve's output directory",
		RunE:  runReport,
	}
	cmdReport.Flags().StringVar(&outputDir, "out", "", "output directory from a prior solve (required)")
	_ = cmdReport.MarkFlagRequired("out")
	root.AddCommand(cmdReport)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if timeBudget > 0 {
		cfg.Solver.TimeBudget = timeBudget
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	runID := logging.NewRunID()
	logger = logging.WithRun(logger, runID)

	input, err := loadInput()
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}

	ctx := context.Background()
	output, err := pipeline.Run(ctx, input, cfg, runID, logger)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	artifacts := []struct {
		name string
		data interface{}
	}{
		{"student_schedules.json", output.StudentSchedules},
		{"teacher_schedules.json", output.TeacherSchedules},
		{"rosters.json", output.Roster},
		{"statistics.json", output.Statistics},
	}
	for _, artifact := range artifacts {
		if err := writeJSON(filepath.Join(cfg.OutputDir, artifact.name), artifact.data); err != nil {
			return fmt.Errorf("writing %s: %w", artifact.name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, "report.md"), []byte(output.Report), 0o644); err != nil {
		return fmt.Errorf("writing report.md: %w", err)
	}

	logger.Info("solve complete", zap.String("approach", output.Approach))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	input, err := loadInput()
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}
	if input.Empty() {
		fmt.Println("input is structurally empty (no requests or no courses)")
		return nil
	}
	fmt.Printf("input OK: %d courses, %d requests, %d rooms, %d teachers\n",
		len(input.Courses), len(input.Requests), len(input.Rooms), len(input.Teachers))
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(filepath.Join(outputDir, "report.md"))
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func loadInput() (ingest.NormalizedInput, error) {
	switch inputFormat {
	case "json":
		return ingest.LoadJSON(inputPath)
	case "csv":
		return ingest.LoadCSVDir(inputPath)
	default:
		return ingest.NormalizedInput{}, fmt.Errorf("unknown input format %q (want json or csv)", inputFormat)
	}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
