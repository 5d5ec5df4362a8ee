// Package model defines the opaque-id entities the scheduler operates on:
// students, courses, teachers, and prioritized requests.
package model

import (
	"fmt"
	"sort"

	"github.com/sreevallabh04/masterschedule/internal/block"
)

// Priority is a request's urgency tier. Weight must be strictly
// decreasing from Required to Recommended.
type Priority int

const (
	Required Priority = iota
	Requested
	Recommended
)

// Weights holds the objective-contribution weight for each priority tier.
// Required must dominate: one fulfilled required request must outweigh
// any realistic number of fulfilled recommended requests for a single
// student.
type Weights struct {
	Required    float64
	Requested   float64
	Recommended float64
}

// DefaultWeights is the standard 100/10/1 tiering.
func DefaultWeights() Weights {
	return Weights{Required: 100, Requested: 10, Recommended: 1}
}

// Of returns the weight for priority p under w.
func (w Weights) Of(p Priority) float64 {
	switch p {
	case Required:
		return w.Required
	case Requested:
		return w.Requested
	case Recommended:
		return w.Recommended
	default:
		return 0
	}
}

// String renders a priority the way input/output records spell it.
func (p Priority) String() string {
	switch p {
	case Required:
		return "required"
	case Requested:
		return "requested"
	case Recommended:
		return "recommended"
	default:
		return "unknown"
	}
}

// ParsePriority resolves a raw priority string, degrading to Requested for
// anything unrecognized, per the Input Adapter's defaulting contract.
func ParsePriority(raw string) Priority {
	switch raw {
	case "required", "Required", "REQUIRED":
		return Required
	case "requested", "Requested", "REQUESTED":
		return Requested
	case "recommended", "Recommended", "RECOMMENDED":
		return Recommended
	default:
		return Requested
	}
}

// Priorities lists the three tiers in rank order, highest first. Pass
// ordering is defined in terms of this slice.
func Priorities() []Priority {
	return []Priority{Required, Requested, Recommended}
}

// Assignment is the chosen (student, course, block) placement, regardless
// of whether it came from the ILP solver or the greedy fallback. It is the
// sole input to the Result Materializer.
type Assignment struct {
	// placedAt[student][course] = block. A (student, course) pair appears
	// at most once, satisfying the at-most-one-block-per-course invariant
	// by construction.
	placedAt map[string]map[string]block.Block
}

// NewAssignment returns an empty Assignment.
func NewAssignment() *Assignment {
	return &Assignment{placedAt: make(map[string]map[string]block.Block)}
}

// Place records that student is assigned to course at b. Callers (the
// solver's extraction step and the greedy fallback) are responsible for
// only ever proposing feasible placements; Validate catches anything
// that slips through.
func (a *Assignment) Place(student, course string, b block.Block) {
	courses, ok := a.placedAt[student]
	if !ok {
		courses = make(map[string]block.Block)
		a.placedAt[student] = courses
	}
	courses[course] = b
}

// BlockOf returns the block student is assigned to course at, if any.
func (a *Assignment) BlockOf(student, course string) (block.Block, bool) {
	courses, ok := a.placedAt[student]
	if !ok {
		return "", false
	}
	b, ok := courses[course]
	return b, ok
}

// Students returns every student with at least one placement, in no
// particular order; callers that need stable order should sort against an
// external ordering (the adapter's student-arrival order).
func (a *Assignment) Students() []string {
	out := make([]string, 0, len(a.placedAt))
	for s := range a.placedAt {
		out = append(out, s)
	}
	return out
}

// CoursesFor returns the courses placed for student, in no particular
// order.
func (a *Assignment) CoursesFor(student string) []string {
	courses, ok := a.placedAt[student]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(courses))
	for c := range courses {
		out = append(out, c)
	}
	return out
}

// Validate checks a's placements against the four hard constraints plus
// the per-request-origin and permitted-block invariants. It is used by
// tests and by the pipeline's defensive check after both the solver and
// the greedy fallback, since a hard constraint violation in any output
// is a bug by definition.
func Validate(a *Assignment, requests map[string]map[Priority][]string, permitted map[string][]block.Block, capacity map[string]int, teacherOf map[string]string) error {
	studentBlock := make(map[string]map[block.Block]string)
	roster := make(map[string]map[block.Block][]string)
	teacherBlockCourse := make(map[string]map[block.Block]string)

	requestedCourses := func(student string) map[string]bool {
		set := make(map[string]bool)
		for _, p := range Priorities() {
			for _, c := range requests[student][p] {
				set[c] = true
			}
		}
		return set
	}

	students := a.Students()
	sort.Strings(students)
	for _, student := range students {
		allowed := requestedCourses(student)
		for _, course := range a.CoursesFor(student) {
			b, _ := a.BlockOf(student, course)

			if !allowed[course] {
				return fmt.Errorf("model: student %s assigned course %s that was never requested", student, course)
			}
			permittedBlocks := permitted[course]
			if !blockPermitted(b, permittedBlocks) {
				return fmt.Errorf("model: student %s assigned course %s at block %s which is not permitted", student, course, b)
			}

			if studentBlock[student] == nil {
				studentBlock[student] = make(map[block.Block]string)
			}
			if existing, ok := studentBlock[student][b]; ok && existing != course {
				return fmt.Errorf("model: student %s has two courses (%s, %s) at block %s", student, existing, course, b)
			}
			studentBlock[student][b] = course

			if roster[course] == nil {
				roster[course] = make(map[block.Block][]string)
			}
			roster[course][b] = append(roster[course][b], student)

			teacher := teacherOf[course]
			if teacher != "" {
				if teacherBlockCourse[teacher] == nil {
					teacherBlockCourse[teacher] = make(map[block.Block]string)
				}
				if existing, ok := teacherBlockCourse[teacher][b]; ok && existing != course {
					return fmt.Errorf("model: teacher %s double-booked between %s and %s at block %s", teacher, existing, course, b)
				}
				teacherBlockCourse[teacher][b] = course
			}
		}
	}

	for course, byBlock := range roster {
		cap := capacity[course]
		for b, students := range byBlock {
			if len(students) > cap {
				return fmt.Errorf("model: course %s at block %s has %d students, exceeding capacity %d", course, b, len(students), cap)
			}
		}
	}

	return nil
}

func blockPermitted(b block.Block, permitted []block.Block) bool {
	for _, p := range permitted {
		if p == b {
			return true
		}
	}
	return false
}
