// Package game holds the pure bingo rules: cards, patterns and the
// room/game state machines. Nothing in here touches the database or
// the network.
package game

import "math/rand"

const (
	// Size is the width and height of a bingo card.
	Size = 5
	// FreeValue marks the free space in the middle of every card.
	FreeValue = 0
	// MaxNumber is the highest callable bingo number.
	MaxNumber = 75
	// ColumnRange is how many numbers belong to each letter column.
	ColumnRange = 15
)

// Cell is one square on a bingo card. Value is 1-75, or FreeValue for
// the center free space.
type Cell struct {
	Value  int  `json:"value"`
	Daubed bool `json:"daubed"`
}

// Card is a 5x5 bingo grid indexed [row][col]. Column c holds numbers
// from [15c+1, 15c+15] (B/I/N/G/O letter groups); the center cell is
// the pre-daubed free space.
type Card [Size][Size]Cell

// NewCard generates a card with five distinct numbers per column drawn
// from that column's letter-group range, and the free space daubed.
func NewCard() Card {
	var card Card
	for col := 0; col < Size; col++ {
		values := columnPool(col)
		rand.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
		for row := 0; row < Size; row++ {
			card[row][col] = Cell{Value: values[row]}
		}
	}
	card[Size/2][Size/2] = Cell{Value: FreeValue, Daubed: true}
	return card
}

// columnPool returns the 15 candidate values for column col.
func columnPool(col int) []int {
	values := make([]int, ColumnRange)
	for i := range values {
		values[i] = col*ColumnRange + i + 1
	}
	return values
}

// ColumnFor returns the column a number belongs to.
func ColumnFor(number int) int {
	return (number - 1) / ColumnRange
}

// Daub marks the cell holding number, if present and not yet daubed.
// Returns true when a cell actually changed.
func (c *Card) Daub(number int) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if c[row][col].Value == number && !c[row][col].Daubed {
				c[row][col].Daubed = true
				return true
			}
		}
	}
	return false
}

// DaubedCount returns how many cells are daubed, free space included.
func (c *Card) DaubedCount() int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if c.IsDaubed(row, col) {
				count++
			}
		}
	}
	return count
}

// IsDaubed reports whether a cell counts as daubed. The free space
// always does, whatever its stored flag says.
func (c *Card) IsDaubed(row, col int) bool {
	if row == Size/2 && col == Size/2 {
		return true
	}
	return c[row][col].Daubed
}
