// Package solver drives the ILP solve: it invokes the HiGHS-backed MIP
// solver, interprets its status, and thresholds variable values into a
// 0/1 assignment when the solution is optimal.
package solver

import (
	"context"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/sreevallabh04/masterschedule/internal/builder"
	"github.com/sreevallabh04/masterschedule/internal/model"
)

// Status is the normalized solver outcome, collapsing the provider's
// status into five buckets.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
	StatusOther
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time-limit"
	default:
		return "other"
	}
}

// Result is the outcome of one Solve call.
type Result struct {
	Status         Status
	Assignment     *model.Assignment
	ObjectiveValue float64
}

// Solve runs the built model through the HiGHS provider within
// timeBudget. On any non-optimal status the caller is expected to invoke
// the Greedy Fallback; Solve itself never falls back.
func Solve(ctx context.Context, built *builder.Built, timeBudget time.Duration) (*Result, error) {
	if len(built.Keys) == 0 {
		return &Result{Status: StatusOptimal, Assignment: model.NewAssignment()}, nil
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeBudget {
			timeBudget = remaining
		}
	}
	if timeBudget <= 0 {
		return &Result{Status: StatusTimeLimit}, nil
	}

	mipSolver, err := mip.NewSolver(mip.Highs, built.Model)
	if err != nil {
		return nil, err
	}

	options := mip.SolveOptions{Duration: timeBudget}

	solution, err := mipSolver.Solve(options)
	if err != nil {
		return nil, err
	}

	status := classify(solution)
	if status != StatusOptimal {
		return &Result{Status: status}, nil
	}

	assignment := model.NewAssignment()
	for _, key := range built.Keys {
		if solution.Value(built.Vars.Get(key)) >= 0.5 {
			assignment.Place(key.Student, key.Course, key.Block)
		}
	}

	return &Result{
		Status:         StatusOptimal,
		Assignment:     assignment,
		ObjectiveValue: solution.ObjectiveValue(),
	}, nil
}

func classify(solution mip.Solution) Status {
	switch {
	case solution.IsOptimal():
		return StatusOptimal
	case solution.IsSubOptimal() && !solution.HasValues():
		return StatusInfeasible
	case solution.IsSubOptimal():
		return StatusTimeLimit
	default:
		return StatusOther
	}
}
