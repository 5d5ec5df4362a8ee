package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/greedy"
	"github.com/sreevallabh04/masterschedule/internal/materialize"
	schedmodel "github.com/sreevallabh04/masterschedule/internal/model"
)

// mustBeFeasible fails the test when assignment violates any hard
// constraint; every scenario's output must pass regardless of how it was
// produced.
func mustBeFeasible(t *testing.T, proj *adapter.Projections, assignment *schedmodel.Assignment) {
	t.Helper()
	require.NoError(t, schedmodel.Validate(assignment, proj.Requests, proj.Permitted, proj.Capacity, proj.Teacher))
}

// These exercise the six end-to-end scenarios against the greedy
// fallback directly: a deterministic, solver-free path that still must
// satisfy every hard-constraint invariant the full pipeline promises.

func scenarioTrivialFeasibility() *adapter.Projections {
	return &adapter.Projections{
		Requests: map[string]map[schedmodel.Priority][]string{
			"S1": {schedmodel.Required: {"C"}},
		},
		Permitted:    map[string][]block.Block{"C": {block.Block1A}},
		Capacity:     map[string]int{"C": 10},
		Teacher:      map[string]string{"C": "T"},
		StudentOrder: []string{"S1"},
		CourseOrder:  []string{"C"},
	}
}

func TestScenarioTrivialFeasibility(t *testing.T) {
	proj := scenarioTrivialFeasibility()
	assignment := greedy.Build(proj)

	b, ok := assignment.BlockOf("S1", "C")
	require.True(t, ok)
	assert.Equal(t, block.Block1A, b)
	mustBeFeasible(t, proj, assignment)

	res := materialize.Materialize(proj, assignment, 0, nil)
	assert.Equal(t, 1, res.ByPriority[schedmodel.Required].Fulfilled)
	assert.Equal(t, 0, res.ByPriority[schedmodel.Required].Unfulfilled)
	assert.Equal(t, 0, res.ByPriority[schedmodel.Requested].Total)
	assert.Equal(t, 0, res.ByPriority[schedmodel.Recommended].Total)
}

func TestScenarioBlockConflictForcesChoice(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[schedmodel.Priority][]string{
			"S1": {schedmodel.Required: {"C1", "C2"}},
		},
		Permitted: map[string][]block.Block{
			"C1": {block.Block1A},
			"C2": {block.Block1A},
		},
		Capacity:     map[string]int{"C1": 10, "C2": 10},
		Teacher:      map[string]string{"C1": "T1", "C2": "T2"},
		StudentOrder: []string{"S1"},
		CourseOrder:  []string{"C1", "C2"},
	}

	assignment := greedy.Build(proj)

	_, c1 := assignment.BlockOf("S1", "C1")
	_, c2 := assignment.BlockOf("S1", "C2")
	assert.True(t, c1 != c2, "exactly one of C1/C2 should be assigned")
	mustBeFeasible(t, proj, assignment)

	res := materialize.Materialize(proj, assignment, 0, nil)
	assert.Equal(t, 1, res.ByPriority[schedmodel.Required].Fulfilled)
	assert.Equal(t, 1, res.ByPriority[schedmodel.Required].Unfulfilled)
}

func TestScenarioCapacityCap(t *testing.T) {
	requests := map[string]map[schedmodel.Priority][]string{}
	var order []string
	for i := 0; i < 5; i++ {
		student := string(rune('A' + i))
		order = append(order, student)
		requests[student] = map[schedmodel.Priority][]string{schedmodel.Required: {"C"}}
	}
	proj := &adapter.Projections{
		Requests:     requests,
		Permitted:    map[string][]block.Block{"C": {block.Block1A}},
		Capacity:     map[string]int{"C": 3},
		Teacher:      map[string]string{"C": "T"},
		StudentOrder: order,
		CourseOrder:  []string{"C"},
	}

	assignment := greedy.Build(proj)

	fulfilled := 0
	for _, student := range order {
		if _, ok := assignment.BlockOf(student, "C"); ok {
			fulfilled++
		}
	}
	assert.Equal(t, 3, fulfilled)
	mustBeFeasible(t, proj, assignment)

	res := materialize.Materialize(proj, assignment, 0, nil)
	assert.Equal(t, 3, res.ByPriority[schedmodel.Required].Fulfilled)
	assert.Equal(t, 2, res.ByPriority[schedmodel.Required].Unfulfilled)
	assert.Len(t, res.Roster["C"][block.Block1A], 3)
}

func TestScenarioTeacherExclusivity(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[schedmodel.Priority][]string{
			"S1": {schedmodel.Required: {"C1"}},
			"S2": {schedmodel.Required: {"C2"}},
		},
		Permitted: map[string][]block.Block{
			"C1": {block.Block1A, block.Block1B},
			"C2": {block.Block1A, block.Block1B},
		},
		Capacity:     map[string]int{"C1": 10, "C2": 10},
		Teacher:      map[string]string{"C1": "T", "C2": "T"},
		StudentOrder: []string{"S1", "S2"},
		CourseOrder:  []string{"C1", "C2"},
	}

	assignment := greedy.Build(proj)

	b1, ok1 := assignment.BlockOf("S1", "C1")
	b2, ok2 := assignment.BlockOf("S2", "C2")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.NotEqual(t, b1, b2, "the same teacher cannot teach both sections in the same block")
	mustBeFeasible(t, proj, assignment)
}

func TestScenarioPriorityDominance(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[schedmodel.Priority][]string{
			"S1": {
				schedmodel.Required:    {"C1"},
				schedmodel.Recommended: {"C2"},
			},
		},
		Permitted: map[string][]block.Block{
			"C1": {block.Block1A},
			"C2": {block.Block1A},
		},
		Capacity:     map[string]int{"C1": 10, "C2": 10},
		Teacher:      map[string]string{"C1": "T1", "C2": "T2"},
		StudentOrder: []string{"S1"},
		CourseOrder:  []string{"C1", "C2"},
	}

	assignment := greedy.Build(proj)

	_, c1 := assignment.BlockOf("S1", "C1")
	_, c2 := assignment.BlockOf("S1", "C2")
	assert.True(t, c1)
	assert.False(t, c2)
	mustBeFeasible(t, proj, assignment)

	res := materialize.Materialize(proj, assignment, 0, nil)
	assert.Equal(t, 1, res.ByPriority[schedmodel.Required].Fulfilled)
	assert.Equal(t, 1, res.ByPriority[schedmodel.Recommended].Unfulfilled)
}

func TestScenarioFallbackEquivalence(t *testing.T) {
	trivial := scenarioTrivialFeasibility()
	a1 := greedy.Build(trivial)
	b, ok := a1.BlockOf("S1", "C")
	require.True(t, ok)
	assert.Equal(t, block.Block1A, b)

	capped := func() *adapter.Projections {
		requests := map[string]map[schedmodel.Priority][]string{}
		var order []string
		for i := 0; i < 5; i++ {
			student := string(rune('A' + i))
			order = append(order, student)
			requests[student] = map[schedmodel.Priority][]string{schedmodel.Required: {"C"}}
		}
		return &adapter.Projections{
			Requests:     requests,
			Permitted:    map[string][]block.Block{"C": {block.Block1A}},
			Capacity:     map[string]int{"C": 3},
			Teacher:      map[string]string{"C": "T"},
			StudentOrder: order,
			CourseOrder:  []string{"C"},
		}
	}()
	a2 := greedy.Build(capped)
	fulfilled := 0
	for _, student := range capped.StudentOrder {
		if _, ok := a2.BlockOf(student, "C"); ok {
			fulfilled++
		}
	}
	assert.Equal(t, capped.Capacity["C"], fulfilled)
}
