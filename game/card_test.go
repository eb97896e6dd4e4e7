package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardColumnRanges(t *testing.T) {
	for i := 0; i < 50; i++ {
		card := NewCard()
		for col := 0; col < Size; col++ {
			seen := map[int]bool{}
			lo, hi := col*ColumnRange+1, (col+1)*ColumnRange
			for row := 0; row < Size; row++ {
				if row == Size/2 && col == Size/2 {
					continue
				}
				v := card[row][col].Value
				assert.GreaterOrEqual(t, v, lo, "column %d value below range", col)
				assert.LessOrEqual(t, v, hi, "column %d value above range", col)
				assert.False(t, seen[v], "duplicate %d in column %d", v, col)
				seen[v] = true
			}
		}
	}
}

func TestNewCardFreeSpace(t *testing.T) {
	card := NewCard()
	center := card[Size/2][Size/2]
	assert.Equal(t, FreeValue, center.Value)
	assert.True(t, center.Daubed)
	assert.True(t, card.IsDaubed(Size/2, Size/2))
	assert.Equal(t, 1, card.DaubedCount())
}

func TestDaub(t *testing.T) {
	card := NewCard()
	target := card[0][0].Value

	require.True(t, card.Daub(target))
	assert.True(t, card[0][0].Daubed)
	assert.Equal(t, 2, card.DaubedCount())

	// Already daubed: no change reported.
	assert.False(t, card.Daub(target))

	// Number not on the card.
	missing := 0
	present := map[int]bool{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			present[card[row][col].Value] = true
		}
	}
	for n := 1; n <= MaxNumber; n++ {
		if !present[n] {
			missing = n
			break
		}
	}
	require.NotZero(t, missing)
	assert.False(t, card.Daub(missing))
}

func TestColumnFor(t *testing.T) {
	assert.Equal(t, 0, ColumnFor(1))
	assert.Equal(t, 0, ColumnFor(15))
	assert.Equal(t, 1, ColumnFor(16))
	assert.Equal(t, 2, ColumnFor(45))
	assert.Equal(t, 4, ColumnFor(75))
}
