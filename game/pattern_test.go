package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daubCells(card *Card, cells []coord) {
	for _, c := range cells {
		card[c.Row][c.Col].Daubed = true
	}
}

func TestFreshCardDistances(t *testing.T) {
	card := NewCard()

	// Only the free space is daubed, so the best lines are the ones
	// through the center: 4 more daubs needed.
	assert.Equal(t, 4, DistanceToWin(&card, PatternLine))
	assert.Equal(t, 24, DistanceToWin(&card, PatternBlackout))
	assert.Equal(t, 4, DistanceToWin(&card, "four_corners"))
	assert.Equal(t, 8, DistanceToWin(&card, "plus_shape"))
}

func TestCheckWinLine(t *testing.T) {
	card := NewCard()
	assert.False(t, CheckWin(&card, PatternLine))

	for col := 0; col < Size; col++ {
		card[0][col].Daubed = true
	}
	assert.True(t, CheckWin(&card, PatternLine))
	assert.Zero(t, DistanceToWin(&card, PatternLine))
}

func TestCheckWinShapes(t *testing.T) {
	for name, cells := range shapes {
		card := NewCard()
		daubCells(&card, cells)
		assert.True(t, CheckWin(&card, name), "shape %s should win once fully daubed", name)

		// Undaubing one non-free cell breaks the win.
		for _, c := range cells {
			if c.Row == Size/2 && c.Col == Size/2 {
				continue
			}
			card[c.Row][c.Col].Daubed = false
			assert.False(t, CheckWin(&card, name), "shape %s should not win with a hole", name)
			card[c.Row][c.Col].Daubed = true
			break
		}
	}
}

func TestCheckWinBlackout(t *testing.T) {
	card := NewCard()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			card[row][col].Daubed = true
		}
	}
	assert.True(t, CheckWin(&card, PatternBlackout))

	card[3][4].Daubed = false
	assert.False(t, CheckWin(&card, PatternBlackout))
	assert.Equal(t, 1, DistanceToWin(&card, PatternBlackout))
}

func TestWinMatchesDistance(t *testing.T) {
	patterns := append([]Pattern{PatternLine, PatternBlackout}, shapeNames...)
	for i := 0; i < 200; i++ {
		card := NewCard()
		for n := 0; n < rand.Intn(Size*Size); n++ {
			card[rand.Intn(Size)][rand.Intn(Size)].Daubed = true
		}
		for _, p := range patterns {
			assert.Equal(t, DistanceToWin(&card, p) == 0, CheckWin(&card, p),
				"CheckWin and DistanceToWin disagree for %s", p)
		}
	}
}

func TestShapeCatalog(t *testing.T) {
	require.Len(t, shapeNames, 16)
	for _, name := range shapeNames {
		cells, ok := shapes[name]
		require.True(t, ok, "catalog entry %s missing", name)
		require.NotEmpty(t, cells)
		for _, c := range cells {
			assert.GreaterOrEqual(t, c.Row, 0)
			assert.Less(t, c.Row, Size)
			assert.GreaterOrEqual(t, c.Col, 0)
			assert.Less(t, c.Col, Size)
		}
	}
}

func TestRandomShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, IsShape(RandomShape()))
	}
}
