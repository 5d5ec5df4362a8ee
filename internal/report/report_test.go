package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/materialize"
	"github.com/sreevallabh04/masterschedule/internal/model"
)

func TestRenderIncludesAllRequiredSections(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[model.Priority][]string{
			"s1": {model.Required: {"math"}},
		},
		Teacher:      map[string]string{"math": "t1"},
		StudentOrder: []string{"s1"},
		CourseOrder:  []string{"math"},
	}
	assignment := model.NewAssignment()
	assignment.Place("s1", "math", block.Block1A)
	res := materialize.Materialize(proj, assignment, 1, nil)

	out := Render(proj, res, "ILP, optimal")

	for _, heading := range []string{
		"## Introduction",
		"## Approach",
		"## Overall Statistics",
		"## Priority Breakdown",
		"## Course Popularity",
		"## Block Utilization",
		"## Student Satisfaction Metrics",
		"## Block-wise Student View",
		"## Block-wise Teacher View",
		"## Sample Individual Student Schedules",
		"## Sample Individual Teacher Schedules",
	} {
		assert.True(t, strings.Contains(out, heading), "missing section: %s", heading)
	}
}

func TestRenderGradeBreakdownWhenGradesPresent(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[model.Priority][]string{
			"s1": {model.Required: {"math"}},
		},
		Teacher:      map[string]string{"math": "t1"},
		Grade:        map[string]string{"s1": "9"},
		StudentOrder: []string{"s1"},
		CourseOrder:  []string{"math"},
	}
	assignment := model.NewAssignment()
	assignment.Place("s1", "math", block.Block1A)
	res := materialize.Materialize(proj, assignment, 1, nil)

	out := Render(proj, res, "ILP, optimal")
	assert.Contains(t, out, "### By Grade Level")
	assert.Contains(t, out, "| 9 | 1 | 1 | 1 | 100.0% |")
}

func TestRenderMarksFreeBlocksForUnplacedStudent(t *testing.T) {
	proj := &adapter.Projections{
		Requests:     map[string]map[model.Priority][]string{"s1": {}},
		StudentOrder: []string{"s1"},
	}
	res := materialize.Materialize(proj, model.NewAssignment(), 0, nil)

	out := Render(proj, res, "ILP, optimal")
	assert.Contains(t, out, "| s1 | Free |")
}
