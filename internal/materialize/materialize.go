// Package materialize turns a (Projections, Assignment) pair into the
// Result Materializer's output: student and teacher timetables, section
// rosters, and fulfillment statistics. It never makes scheduling
// decisions; it only reports what the solver or the greedy fallback
// already decided.
package materialize

import (
	"sort"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/metrics"
	"github.com/sreevallabh04/masterschedule/internal/model"
)

// TeacherSection is one active section a teacher conducts in a given
// block. For a correct assignment every teacher-block list holds at most
// one of these; the list shape is the output contract, not a hedge.
type TeacherSection struct {
	Course       string `json:"course"`
	StudentCount int    `json:"student_count"`
}

// PriorityStats counts requests fulfilled and left unfulfilled for one
// priority tier.
type PriorityStats struct {
	Fulfilled   int
	Unfulfilled int
	Total       int
}

// Result is everything the Markdown report and the JSON statistics
// bundle are built from.
type Result struct {
	// StudentSchedule[student][block] is the course placed there; free
	// blocks are absent, not empty strings.
	StudentSchedule map[string]map[block.Block]string
	// TeacherSchedule[teacher][block] lists the teacher's active sections
	// there. Blocks with no active section are absent.
	TeacherSchedule map[string]map[block.Block][]TeacherSection
	// Roster[course][block] lists the students seated there.
	Roster map[string]map[block.Block][]string

	ByPriority map[model.Priority]PriorityStats

	StudentOrder []string
	CourseOrder  []string
	TeacherOrder []string
}

// Materialize computes Result from proj and assignment. If m is non-nil
// its fulfillment counters and variable-count gauge are populated as a
// side effect.
func Materialize(proj *adapter.Projections, assignment *model.Assignment, variableCount int, m *metrics.Run) *Result {
	res := &Result{
		StudentSchedule: make(map[string]map[block.Block]string),
		TeacherSchedule: make(map[string]map[block.Block][]TeacherSection),
		Roster:          make(map[string]map[block.Block][]string),
		ByPriority:      make(map[model.Priority]PriorityStats),
		StudentOrder:    proj.StudentOrder,
		CourseOrder:     proj.CourseOrder,
	}

	teacherSeen := make(map[string]bool)
	var teacherOrder []string
	for _, course := range proj.CourseOrder {
		teacher := proj.Teacher[course]
		if teacher != "" && !teacherSeen[teacher] {
			teacherSeen[teacher] = true
			teacherOrder = append(teacherOrder, teacher)
		}
	}
	sort.Strings(teacherOrder)
	res.TeacherOrder = teacherOrder

	for _, student := range proj.StudentOrder {
		res.StudentSchedule[student] = make(map[block.Block]string)
		for _, course := range assignment.CoursesFor(student) {
			b, ok := assignment.BlockOf(student, course)
			if !ok {
				continue
			}
			res.StudentSchedule[student][b] = course

			if res.Roster[course] == nil {
				res.Roster[course] = make(map[block.Block][]string)
			}
			res.Roster[course][b] = append(res.Roster[course][b], student)
		}
	}

	for course, byBlock := range res.Roster {
		for b := range byBlock {
			sort.Strings(res.Roster[course][b])
		}
	}

	// Teacher timetables come off the finished rosters so the per-section
	// student counts are final. Course-arrival order keeps the section
	// lists stable.
	for _, course := range proj.CourseOrder {
		teacher := proj.Teacher[course]
		if teacher == "" {
			continue
		}
		for _, b := range block.All() {
			students := res.Roster[course][b]
			if len(students) == 0 {
				continue
			}
			if res.TeacherSchedule[teacher] == nil {
				res.TeacherSchedule[teacher] = make(map[block.Block][]TeacherSection)
			}
			res.TeacherSchedule[teacher][b] = append(res.TeacherSchedule[teacher][b],
				TeacherSection{Course: course, StudentCount: len(students)})
		}
	}

	for _, priority := range model.Priorities() {
		stats := PriorityStats{}
		for _, student := range proj.StudentOrder {
			for _, course := range proj.Requests[student][priority] {
				stats.Total++
				if _, ok := assignment.BlockOf(student, course); ok {
					stats.Fulfilled++
					if m != nil {
						m.Fulfilled.WithLabelValues(priority.String()).Inc()
					}
				} else {
					stats.Unfulfilled++
					if m != nil {
						m.Unfulfilled.WithLabelValues(priority.String()).Inc()
					}
				}
			}
		}
		res.ByPriority[priority] = stats
	}

	if m != nil {
		m.VariableCount.Set(float64(variableCount))
	}

	return res
}
