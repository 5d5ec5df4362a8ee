// Package report renders the Markdown write-up of one scheduler run.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/materialize"
	"github.com/sreevallabh04/masterschedule/internal/model"
)

// Render produces the full Markdown report. approach is a short
// free-text description of how the assignment in res was produced
// ("ILP, optimal" or "ILP time-limit, greedy fallback"), surfaced in
// the Approach section.
func Render(proj *adapter.Projections, res *materialize.Result, approach string) string {
	var b strings.Builder

	writeIntroduction(&b, proj)
	writeApproach(&b, approach)
	writeOverallStatistics(&b, res)
	writePriorityBreakdown(&b, res)
	writeCoursePopularity(&b, proj, res)
	writeBlockUtilization(&b, proj, res)
	writeStudentSatisfaction(&b, proj, res)
	writeBlockwiseStudentView(&b, res)
	writeBlockwiseTeacherView(&b, res)
	writeSampleStudents(&b, res)
	writeSampleTeachers(&b, res)

	return b.String()
}

func writeIntroduction(b *strings.Builder, proj *adapter.Projections) {
	fmt.Fprintf(b, "# Master Schedule Report\n\n")
	fmt.Fprintf(b, "## Introduction\n\n")
	fmt.Fprintf(b, "This report summarizes one run of the master-schedule solver over %d "+
		"students and %d courses.\n\n", len(proj.StudentOrder), len(proj.CourseOrder))
}

func writeApproach(b *strings.Builder, approach string) {
	fmt.Fprintf(b, "## Approach\n\n")
	fmt.Fprintf(b, "Assignment strategy: %s.\n\n", approach)
}

func writeOverallStatistics(b *strings.Builder, res *materialize.Result) {
	fmt.Fprintf(b, "## Overall Statistics\n\n")

	var fulfilled, unfulfilled, total int
	for _, p := range model.Priorities() {
		stats := res.ByPriority[p]
		fulfilled += stats.Fulfilled
		unfulfilled += stats.Unfulfilled
		total += stats.Total
	}

	fmt.Fprintf(b, "| Metric | Value |\n")
	fmt.Fprintf(b, "|---|---|\n")
	fmt.Fprintf(b, "| Total requests | %d |\n", total)
	fmt.Fprintf(b, "| Fulfilled | %d |\n", fulfilled)
	fmt.Fprintf(b, "| Unfulfilled | %d |\n", unfulfilled)
	fmt.Fprintf(b, "| Students | %d |\n", len(res.StudentOrder))
	fmt.Fprintf(b, "| Courses | %d |\n", len(res.CourseOrder))
	fmt.Fprintf(b, "| Teachers | %d |\n\n", len(res.TeacherOrder))
}

func writePriorityBreakdown(b *strings.Builder, res *materialize.Result) {
	fmt.Fprintf(b, "## Priority Breakdown\n\n")
	fmt.Fprintf(b, "| Priority | Fulfilled | Unfulfilled | Total |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	for _, p := range model.Priorities() {
		stats := res.ByPriority[p]
		fmt.Fprintf(b, "| %s | %d | %d | %d |\n", p.String(), stats.Fulfilled, stats.Unfulfilled, stats.Total)
	}
	fmt.Fprintf(b, "\n")
}

func writeCoursePopularity(b *strings.Builder, proj *adapter.Projections, res *materialize.Result) {
	fmt.Fprintf(b, "## Course Popularity\n\n")

	type row struct {
		course string
		count  int
	}
	var rows []row
	for _, course := range proj.CourseOrder {
		count := 0
		for _, byBlock := range res.Roster[course] {
			count += len(byBlock)
		}
		rows = append(rows, row{course, count})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].count > rows[j].count })
	if len(rows) > 10 {
		rows = rows[:10]
	}

	fmt.Fprintf(b, "| Course | Enrollment |\n")
	fmt.Fprintf(b, "|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %d |\n", r.course, r.count)
	}
	fmt.Fprintf(b, "\n")
}

func writeBlockUtilization(b *strings.Builder, proj *adapter.Projections, res *materialize.Result) {
	fmt.Fprintf(b, "## Block Utilization\n\n")
	fmt.Fprintf(b, "| Block | Students Placed |\n")
	fmt.Fprintf(b, "|---|---|\n")
	for _, blk := range block.All() {
		count := 0
		for _, student := range proj.StudentOrder {
			if _, ok := res.StudentSchedule[student][blk]; ok {
				count++
			}
		}
		fmt.Fprintf(b, "| %s | %d |\n", blk, count)
	}
	fmt.Fprintf(b, "\n")
}

func writeStudentSatisfaction(b *strings.Builder, proj *adapter.Projections, res *materialize.Result) {
	fmt.Fprintf(b, "## Student Satisfaction Metrics\n\n")
	fmt.Fprintf(b, "| Student | Fulfilled | Requested | Satisfaction |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	for _, student := range proj.StudentOrder {
		total := 0
		for _, p := range model.Priorities() {
			total += len(proj.Requests[student][p])
		}
		fulfilled := fulfilledCount(proj, res, student)
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(fulfilled) / float64(total)
		}
		fmt.Fprintf(b, "| %s | %d | %d | %.1f%% |\n", student, fulfilled, total, pct)
	}
	fmt.Fprintf(b, "\n")

	writeGradeBreakdown(b, proj, res)
}

// writeGradeBreakdown aggregates satisfaction by grade level when the
// input carried one. Grade is informational only; it never gated any
// assignment.
func writeGradeBreakdown(b *strings.Builder, proj *adapter.Projections, res *materialize.Result) {
	if len(proj.Grade) == 0 {
		return
	}

	type tally struct {
		students  int
		fulfilled int
		total     int
	}
	byGrade := make(map[string]*tally)
	var grades []string
	for _, student := range proj.StudentOrder {
		grade := proj.Grade[student]
		if grade == "" {
			grade = "ungraded"
		}
		t, ok := byGrade[grade]
		if !ok {
			t = &tally{}
			byGrade[grade] = t
			grades = append(grades, grade)
		}
		t.students++
		t.fulfilled += fulfilledCount(proj, res, student)
		for _, p := range model.Priorities() {
			t.total += len(proj.Requests[student][p])
		}
	}
	sort.Strings(grades)

	fmt.Fprintf(b, "### By Grade Level\n\n")
	fmt.Fprintf(b, "| Grade | Students | Fulfilled | Requested | Satisfaction |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|\n")
	for _, grade := range grades {
		t := byGrade[grade]
		pct := 0.0
		if t.total > 0 {
			pct = 100 * float64(t.fulfilled) / float64(t.total)
		}
		fmt.Fprintf(b, "| %s | %d | %d | %d | %.1f%% |\n", grade, t.students, t.fulfilled, t.total, pct)
	}
	fmt.Fprintf(b, "\n")
}

func fulfilledCount(proj *adapter.Projections, res *materialize.Result, student string) int {
	placed := make(map[string]bool)
	for _, c := range res.StudentSchedule[student] {
		placed[c] = true
	}
	count := 0
	for _, p := range model.Priorities() {
		for _, course := range proj.Requests[student][p] {
			if placed[course] {
				count++
			}
		}
	}
	return count
}

func writeBlockwiseStudentView(b *strings.Builder, res *materialize.Result) {
	fmt.Fprintf(b, "## Block-wise Student View\n\n")
	for _, blk := range block.All() {
		fmt.Fprintf(b, "### %s\n\n", blk)
		fmt.Fprintf(b, "| Student | Course |\n")
		fmt.Fprintf(b, "|---|---|\n")
		for _, student := range res.StudentOrder {
			course, ok := res.StudentSchedule[student][blk]
			if !ok || course == "" {
				fmt.Fprintf(b, "| %s | Free |\n", student)
				continue
			}
			fmt.Fprintf(b, "| %s | %s |\n", student, course)
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeBlockwiseTeacherView(b *strings.Builder, res *materialize.Result) {
	fmt.Fprintf(b, "## Block-wise Teacher View\n\n")
	for _, blk := range block.All() {
		fmt.Fprintf(b, "### %s\n\n", blk)
		fmt.Fprintf(b, "| Teacher | Course | Students |\n")
		fmt.Fprintf(b, "|---|---|---|\n")
		for _, teacher := range res.TeacherOrder {
			sections := res.TeacherSchedule[teacher][blk]
			if len(sections) == 0 {
				fmt.Fprintf(b, "| %s | Free | |\n", teacher)
				continue
			}
			for _, section := range sections {
				fmt.Fprintf(b, "| %s | %s | %d |\n", teacher, section.Course, section.StudentCount)
			}
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeSampleStudents(b *strings.Builder, res *materialize.Result) {
	fmt.Fprintf(b, "## Sample Individual Student Schedules\n\n")
	for _, student := range firstN(res.StudentOrder, 5) {
		fmt.Fprintf(b, "### %s\n\n", student)
		fmt.Fprintf(b, "| Block | Course |\n")
		fmt.Fprintf(b, "|---|---|\n")
		for _, blk := range block.All() {
			course, ok := res.StudentSchedule[student][blk]
			if !ok || course == "" {
				fmt.Fprintf(b, "| %s | Free |\n", blk)
				continue
			}
			fmt.Fprintf(b, "| %s | %s |\n", blk, course)
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeSampleTeachers(b *strings.Builder, res *materialize.Result) {
	fmt.Fprintf(b, "## Sample Individual Teacher Schedules\n\n")
	for _, teacher := range firstN(res.TeacherOrder, 5) {
		fmt.Fprintf(b, "### %s\n\n", teacher)
		fmt.Fprintf(b, "| Block | Course | Students |\n")
		fmt.Fprintf(b, "|---|---|---|\n")
		for _, blk := range block.All() {
			sections := res.TeacherSchedule[teacher][blk]
			if len(sections) == 0 {
				fmt.Fprintf(b, "| %s | Free | |\n", blk)
				continue
			}
			for _, section := range sections {
				fmt.Fprintf(b, "| %s | %s | %d |\n", blk, section.Course, section.StudentCount)
			}
		}
		fmt.Fprintf(b, "\n")
	}
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
