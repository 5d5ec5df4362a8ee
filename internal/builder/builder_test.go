package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	schedmodel "github.com/sreevallabh04/masterschedule/internal/model"
)

func TestBuildProducesSparseVariableSupport(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[schedmodel.Priority][]string{
			"s1": {schedmodel.Required: {"math"}},
		},
		Permitted:    map[string][]block.Block{"math": {block.Block1A, block.Block1B}},
		Capacity:     map[string]int{"math": 30},
		Teacher:      map[string]string{"math": "t1"},
		StudentOrder: []string{"s1"},
		CourseOrder:  []string{"math"},
	}

	built, err := Build(proj, schedmodel.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, built.Keys, 2)

	for _, key := range built.Keys {
		assert.Equal(t, "s1", key.Student)
		assert.Equal(t, "math", key.Course)
	}
}

func TestBuildWithNoRequestsReturnsEmptyModel(t *testing.T) {
	proj := &adapter.Projections{
		Requests:     map[string]map[schedmodel.Priority][]string{},
		Permitted:    map[string][]block.Block{},
		Capacity:     map[string]int{},
		Teacher:      map[string]string{},
		StudentOrder: nil,
		CourseOrder:  nil,
	}

	built, err := Build(proj, schedmodel.DefaultWeights())
	require.NoError(t, err)
	assert.Empty(t, built.Keys)
}

func TestVariableSupportOnlyPermittedBlocks(t *testing.T) {
	proj := &adapter.Projections{
		Requests: map[string]map[schedmodel.Priority][]string{
			"s1": {schedmodel.Required: {"math"}},
		},
		Permitted:    map[string][]block.Block{"math": {block.Block3}},
		StudentOrder: []string{"s1"},
	}

	keys := variableSupport(proj)
	require.Len(t, keys, 1)
	assert.Equal(t, block.Block3, keys[0].Block)
}
