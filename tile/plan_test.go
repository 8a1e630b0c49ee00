package tile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(n int) []Key {
	k := make([]Key, n)
	for i := range k {
		k[i] = Key{uint8(i + 1), 0, 0, 0xff}
	}
	return k
}

func TestChunks(t *testing.T) {
	tables := map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4}
	for n, want := range tables {
		assert.Equal(t, want, chunks(n), "chunks(%d)", n)
	}
}

func TestPlan(t *testing.T) {
	colors := [][][]Key{
		{keys(0), keys(2), keys(7)},
		{keys(4), keys(3), keys(1)},
	}

	l, err := plan(colors, 3, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, l.layers)

	for f := range colors {
		for tl := range colors[f] {
			groups := l.groups[f][tl]
			require.Len(t, groups, l.layers)

			// The groups partition the tile's colors in order
			var union []Key
			seen := make(map[Key]bool)
			for _, g := range groups {
				assert.LessOrEqual(t, len(g), colorsPerLayer)
				for _, k := range g {
					assert.False(t, seen[k], "color %v appears in two layers", k)
					seen[k] = true
				}
				union = append(union, g...)
			}
			assert.Equal(t, len(colors[f][tl]), len(union))
			if len(union) > 0 {
				assert.Equal(t, colors[f][tl], union)
			}
		}
	}

	assert.Equal(t, Group(keys(7)[6:]), l.groups[0][2][2])
	assert.Empty(t, l.groups[1][0][2])
	assert.Empty(t, l.groups[0][0][0])
}

func TestPlanLayerCountIsMaximum(t *testing.T) {
	l, err := plan([][][]Key{{keys(1), keys(2)}, {keys(3)}}, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, l.layers)
	assert.Len(t, l.groups[0][0], 1)

	l, err = plan([][][]Key{{keys(0)}}, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, l.layers)
	assert.Empty(t, l.groups[0][0])
}

func TestPlanOverflow(t *testing.T) {
	colors := [][][]Key{
		{keys(6), keys(6), keys(6), keys(6)},
		{keys(6), keys(6), keys(6), keys(7)},
		{keys(9), keys(6), keys(6), keys(6)},
	}

	l, err := plan(colors, 2, 2)
	assert.Nil(t, l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLayerOverflow))

	var overflow *LayerOverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, LayerOverflowError{Frame: 1, TileX: 1, TileY: 1, Colors: 7, Budget: 6}, *overflow)
}
