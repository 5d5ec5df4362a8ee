package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllIsCanonicalOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 7)
	assert.Equal(t, Block1A, all[0])
	assert.Equal(t, Block4B, all[len(all)-1])
}

func TestParse(t *testing.T) {
	b, err := Parse("2A")
	require.NoError(t, err)
	assert.Equal(t, Block2A, b)

	_, err = Parse("9Z")
	assert.Error(t, err)
}

func TestValidAndPosition(t *testing.T) {
	assert.True(t, Valid(Block3))
	assert.False(t, Valid(Block("nope")))

	assert.Equal(t, 0, Position(Block1A))
	assert.Equal(t, -1, Position(Block("nope")))
}

func TestSort(t *testing.T) {
	blocks := []Block{Block4B, Block1A, Block2B, Block1B}
	Sort(blocks)
	assert.Equal(t, []Block{Block1A, Block1B, Block2B, Block4B}, blocks)
}
