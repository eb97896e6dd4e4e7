package game

import "math/rand"

// Pattern identifies a win condition. "line" means any of the 12
// standard lines, "blackout" means the full card, anything else is a
// named shape from the catalog below.
type Pattern string

const (
	PatternLine     Pattern = "line"
	PatternBlackout Pattern = "blackout"
)

type coord struct{ Row, Col int }

// shapes is the catalog of named patterns, each an explicit list of
// cells that must all be daubed.
var shapes = map[Pattern][]coord{
	"diagonal_down": {{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}},
	"diagonal_up":   {{4, 0}, {3, 1}, {2, 2}, {1, 3}, {0, 4}},
	"x_shape": {
		{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4},
		{4, 0}, {3, 1}, {1, 3}, {0, 4},
	},
	"four_corners":  {{0, 0}, {0, 4}, {4, 0}, {4, 4}},
	"top_row":       {{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
	"middle_row":    {{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}},
	"bottom_row":    {{4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}},
	"left_column":   {{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
	"middle_column": {{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}},
	"right_column":  {{0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4}},
	"plus_shape": {
		{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4},
		{0, 2}, {1, 2}, {3, 2}, {4, 2},
	},
	"t_shape": {
		{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4},
		{1, 2}, {2, 2}, {3, 2}, {4, 2},
	},
	"l_shape": {
		{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0},
		{4, 1}, {4, 2}, {4, 3}, {4, 4},
	},
	"frame": {
		{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4},
		{1, 0}, {1, 4}, {2, 0}, {2, 4}, {3, 0}, {3, 4},
		{4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4},
	},
	"diamond": {
		{0, 2}, {1, 1}, {1, 3}, {2, 0}, {2, 4},
		{3, 1}, {3, 3}, {4, 2},
	},
	"postage_stamp": {{0, 3}, {0, 4}, {1, 3}, {1, 4}},
}

// shapeNames is kept sorted-stable for uniform random selection.
var shapeNames = func() []Pattern {
	names := make([]Pattern, 0, len(shapes))
	for _, p := range []Pattern{
		"diagonal_down", "diagonal_up", "x_shape", "four_corners",
		"top_row", "middle_row", "bottom_row",
		"left_column", "middle_column", "right_column",
		"plus_shape", "t_shape", "l_shape", "frame", "diamond",
		"postage_stamp",
	} {
		names = append(names, p)
	}
	return names
}()

// lines is the 12 standard bingo lines: 5 rows, 5 columns, 2 diagonals.
var lines = func() [][]coord {
	var out [][]coord
	for row := 0; row < Size; row++ {
		line := make([]coord, Size)
		for col := 0; col < Size; col++ {
			line[col] = coord{row, col}
		}
		out = append(out, line)
	}
	for col := 0; col < Size; col++ {
		line := make([]coord, Size)
		for row := 0; row < Size; row++ {
			line[row] = coord{row, col}
		}
		out = append(out, line)
	}
	diag1 := make([]coord, Size)
	diag2 := make([]coord, Size)
	for i := 0; i < Size; i++ {
		diag1[i] = coord{i, i}
		diag2[i] = coord{i, Size - 1 - i}
	}
	return append(out, diag1, diag2)
}()

// RandomShape picks a named pattern uniformly from the catalog.
func RandomShape() Pattern {
	return shapeNames[rand.Intn(len(shapeNames))]
}

// IsShape reports whether p is a named catalog pattern.
func IsShape(p Pattern) bool {
	_, ok := shapes[p]
	return ok
}

// CheckWin reports whether card satisfies pattern.
func CheckWin(card *Card, pattern Pattern) bool {
	return DistanceToWin(card, pattern) == 0
}

// DistanceToWin is the minimum number of additional daubs needed for
// card to satisfy pattern: every undaubed cell for blackout, undaubed
// shape cells for a named shape, and the best of the 12 standard lines
// otherwise.
func DistanceToWin(card *Card, pattern Pattern) int {
	switch {
	case pattern == PatternBlackout:
		return Size*Size - card.DaubedCount()
	case IsShape(pattern):
		return missing(card, shapes[pattern])
	default:
		best := Size
		for _, line := range lines {
			if d := missing(card, line); d < best {
				best = d
			}
		}
		return best
	}
}

func missing(card *Card, cells []coord) int {
	count := 0
	for _, cell := range cells {
		if !card.IsDaubed(cell.Row, cell.Col) {
			count++
		}
	}
	return count
}
