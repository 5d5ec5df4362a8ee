// Package pipeline orchestrates one end-to-end scheduler run: Input
// Adapter, Model Builder, Solver Driver, Greedy Fallback, and Result
// Materializer, wired together with the ambient logging, metrics, and
// error-handling stack.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/builder"
	"github.com/sreevallabh04/masterschedule/internal/config"
	"github.com/sreevallabh04/masterschedule/internal/greedy"
	"github.com/sreevallabh04/masterschedule/internal/ingest"
	"github.com/sreevallabh04/masterschedule/internal/materialize"
	"github.com/sreevallabh04/masterschedule/internal/metrics"
	schedmodel "github.com/sreevallabh04/masterschedule/internal/model"
	"github.com/sreevallabh04/masterschedule/internal/report"
	"github.com/sreevallabh04/masterschedule/internal/schederrors"
	"github.com/sreevallabh04/masterschedule/internal/solver"
)

// Statistics is the JSON-serializable fulfillment statistics bundle
// written alongside the schedules.
type Statistics struct {
	FulfilledRequired      int `json:"fulfilled_required"`
	UnfulfilledRequired    int `json:"unfulfilled_required"`
	FulfilledRequested     int `json:"fulfilled_requested"`
	UnfulfilledRequested   int `json:"unfulfilled_requested"`
	FulfilledRecommended   int `json:"fulfilled_recommended"`
	UnfulfilledRecommended int `json:"unfulfilled_recommended"`
	TotalRequests          int `json:"total_requests"`
}

// Output bundles every artifact one Run produces.
type Output struct {
	RunID string `json:"run_id"`

	StudentSchedules map[string]map[block.Block]string                       `json:"student_schedules"`
	TeacherSchedules map[string]map[block.Block][]materialize.TeacherSection `json:"teacher_schedules"`
	Roster           map[string]map[block.Block][]string                     `json:"roster"`

	Statistics Statistics `json:"statistics"`
	Approach   string     `json:"approach"`
	Report     string     `json:"-"`

	AdapterStats adapter.Stats `json:"adapter_stats"`
}

// Run executes the full pipeline over input and returns Output, or a
// *schederrors.Error on any fatal failure.
func Run(ctx context.Context, input ingest.NormalizedInput, cfg *config.Config, runID string, logger *zap.Logger) (*Output, error) {
	m := metrics.New()

	weights := schedmodel.Weights{
		Required:    cfg.Defaults.RequiredWeight,
		Requested:   cfg.Defaults.RequestedWeight,
		Recommended: cfg.Defaults.RecommendedWeight,
	}

	proj, adapterStats, err := adapter.Adapt(input, cfg.Defaults, logger)
	if err != nil {
		return nil, schederrors.Wrap(err, schederrors.ErrInputStructural.Code, "input adapter failed")
	}
	logger.Info("adapter complete",
		zap.Int("students", len(proj.StudentOrder)),
		zap.Int("courses", len(proj.CourseOrder)),
		zap.Int("rows_skipped", adapterStats.RowsSkipped),
		zap.Int("defaults_applied", adapterStats.DefaultsApplied),
	)

	built, err := builder.Build(proj, weights)
	if err != nil {
		return nil, schederrors.Wrap(err, schederrors.ErrInputStructural.Code, "model builder failed")
	}

	start := time.Now()
	solveResult, err := solver.Solve(ctx, built, cfg.Solver.TimeBudget)
	m.ObserveSolve(time.Since(start))
	if err != nil {
		return nil, schederrors.Wrap(err, schederrors.ErrSolverNonOptimal.Code, "solver driver failed")
	}

	assignment := solveResult.Assignment
	approach := "ILP, optimal"
	if solveResult.Status != solver.StatusOptimal {
		logger.Warn("solver did not reach optimality, falling back to greedy construction",
			zap.String("status", solveResult.Status.String()))
		assignment = greedy.Build(proj)
		approach = "ILP " + solveResult.Status.String() + ", greedy fallback"
	}

	if err := schedmodel.Validate(assignment, proj.Requests, proj.Permitted, proj.Capacity, proj.Teacher); err != nil {
		return nil, schederrors.Wrap(err, schederrors.ErrSolverNonOptimal.Code, "assignment failed invariant validation")
	}

	res := materialize.Materialize(proj, assignment, len(built.Keys), m)

	fulfilled, unfulfilled := m.Snapshot()
	stats := Statistics{
		FulfilledRequired:      int(fulfilled[schedmodel.Required.String()]),
		UnfulfilledRequired:    int(unfulfilled[schedmodel.Required.String()]),
		FulfilledRequested:     int(fulfilled[schedmodel.Requested.String()]),
		UnfulfilledRequested:   int(unfulfilled[schedmodel.Requested.String()]),
		FulfilledRecommended:   int(fulfilled[schedmodel.Recommended.String()]),
		UnfulfilledRecommended: int(unfulfilled[schedmodel.Recommended.String()]),
	}
	for _, p := range schedmodel.Priorities() {
		stats.TotalRequests += res.ByPriority[p].Total
	}

	markdown := report.Render(proj, res, approach)

	return &Output{
		RunID:            runID,
		StudentSchedules: res.StudentSchedule,
		TeacherSchedules: res.TeacherSchedule,
		Roster:           res.Roster,
		Statistics:       stats,
		Approach:         approach,
		Report:           markdown,
		AdapterStats:     adapterStats,
	}, nil
}
