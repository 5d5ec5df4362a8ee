// Package greedy implements the Greedy Fallback: a deterministic,
// priority-ordered, first-fit constructor invoked whenever the Solver
// Driver fails to return an optimal solution within its time budget.
package greedy

import (
	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/model"
)

// state tracks the running placements the constructive pass must respect,
// mirroring the four hard-constraint families checked in model.Validate.
type state struct {
	studentBlock map[string]map[block.Block]bool
	courseBlock  map[string]map[block.Block]int
	teacherBlock map[string]map[block.Block]string
}

func newState() *state {
	return &state{
		studentBlock: make(map[string]map[block.Block]bool),
		courseBlock:  make(map[string]map[block.Block]int),
		teacherBlock: make(map[string]map[block.Block]string),
	}
}

// Build runs the three-pass constructive placement over proj, honoring
// priority order (required, then requested, then recommended) and a
// stable per-student, first-arrival course order within each pass. It
// never backtracks: once a course is skipped for a student in a pass, it
// is not retried.
func Build(proj *adapter.Projections) *model.Assignment {
	assignment := model.NewAssignment()
	st := newState()

	for _, priority := range model.Priorities() {
		for _, student := range proj.StudentOrder {
			for _, course := range proj.Requests[student][priority] {
				b, ok := firstFeasibleBlock(proj, st, student, course)
				if !ok {
					continue
				}
				place(st, student, course, b, proj.Teacher[course])
				assignment.Place(student, course, b)
			}
		}
	}

	return assignment
}

// firstFeasibleBlock scans course's permitted blocks in canonical order
// and returns the first one that violates none of the three placement-
// time hard constraints: the student is free there, the section has a
// free seat, and the teacher has no other course active there.
func firstFeasibleBlock(proj *adapter.Projections, st *state, student, course string) (block.Block, bool) {
	teacher := proj.Teacher[course]
	capacity := proj.Capacity[course]

	for _, b := range proj.Permitted[course] {
		if st.studentBlock[student][b] {
			continue
		}
		if st.courseBlock[course][b] >= capacity {
			continue
		}
		if occupant, ok := st.teacherBlock[teacher][b]; ok && occupant != course {
			continue
		}
		return b, true
	}
	return "", false
}

func place(st *state, student, course string, b block.Block, teacher string) {
	if st.studentBlock[student] == nil {
		st.studentBlock[student] = make(map[block.Block]bool)
	}
	st.studentBlock[student][b] = true

	if st.courseBlock[course] == nil {
		st.courseBlock[course] = make(map[block.Block]int)
	}
	st.courseBlock[course][b]++

	if teacher == "" {
		return
	}
	if st.teacherBlock[teacher] == nil {
		st.teacherBlock[teacher] = make(map[block.Block]string)
	}
	st.teacherBlock[teacher][b] = course
}
