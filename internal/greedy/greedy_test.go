package greedy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/model"
)

func TestBuildRespectsCapacity(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[model.Priority][]string{
			"s1": {model.Required: {"math"}},
			"s2": {model.Required: {"math"}},
			"s3": {model.Required: {"math"}},
		},
		Permitted:    map[string][]block.Block{"math": {block.Block1A}},
		Capacity:     map[string]int{"math": 2},
		Teacher:      map[string]string{"math": "t1"},
		StudentOrder: []string{"s1", "s2", "s3"},
	}

	assignment := Build(proj)

	placed := 0
	for _, s := range proj.StudentOrder {
		if _, ok := assignment.BlockOf(s, "math"); ok {
			placed++
		}
	}
	assert.Equal(t, 2, placed)
}

func TestBuildRespectsTeacherExclusivity(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[model.Priority][]string{
			"s1": {model.Required: {"math"}},
			"s2": {model.Required: {"science"}},
		},
		Permitted: map[string][]block.Block{
			"math":    {block.Block1A},
			"science": {block.Block1A, block.Block1B},
		},
		Capacity:     map[string]int{"math": 30, "science": 30},
		Teacher:      map[string]string{"math": "t1", "science": "t1"},
		StudentOrder: []string{"s1", "s2"},
	}

	assignment := Build(proj)

	mathBlock, ok := assignment.BlockOf("s1", "math")
	assert.True(t, ok)
	assert.Equal(t, block.Block1A, mathBlock)

	// s2 is free at 1A, so only the shared teacher keeps science out of it.
	scienceBlock, ok := assignment.BlockOf("s2", "science")
	assert.True(t, ok)
	assert.NotEqual(t, mathBlock, scienceBlock)
}

func TestBuildIsDeterministic(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[model.Priority][]string{
			"s1": {model.Required: {"math", "science"}, model.Requested: {"art"}},
			"s2": {model.Required: {"science"}, model.Recommended: {"math"}},
		},
		Permitted: map[string][]block.Block{
			"math":    {block.Block1A, block.Block2A},
			"science": {block.Block1A, block.Block1B},
			"art":     {block.Block2B},
		},
		Capacity:     map[string]int{"math": 30, "science": 30, "art": 30},
		Teacher:      map[string]string{"math": "t1", "science": "t2", "art": "t3"},
		StudentOrder: []string{"s1", "s2"},
	}

	first := Build(proj)
	second := Build(proj)

	for _, s := range proj.StudentOrder {
		for _, c := range []string{"math", "science", "art"} {
			b1, ok1 := first.BlockOf(s, c)
			b2, ok2 := second.BlockOf(s, c)
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, b1, b2)
		}
	}
}

func TestBuildPrioritizesRequiredOverRecommended(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[model.Priority][]string{
			"s1": {
				model.Required:    {"math"},
				model.Recommended: {"art"},
			},
		},
		Permitted: map[string][]block.Block{
			"math": {block.Block1A},
			"art":  {block.Block1A},
		},
		Capacity:     map[string]int{"math": 30, "art": 30},
		Teacher:      map[string]string{"math": "t1", "art": "t2"},
		StudentOrder: []string{"s1"},
	}

	assignment := Build(proj)

	_, ok := assignment.BlockOf("s1", "math")
	assert.True(t, ok)
	_, ok = assignment.BlockOf("s1", "art")
	assert.False(t, ok)
}
