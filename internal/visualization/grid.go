package visualization

import (
	"fmt"
	"io"
	"math"
	"strings"

	"slam-robot-sim/internal/common"
	"slam-robot-sim/internal/simulation"
)

// MaxGridColumns bounds the width and height of a rendered grid.
const MaxGridColumns = 50

const (
	robotGlyph    = 'o'
	landmarkGlyph = 'x'
	emptyGlyph    = '.'
)

// GridColumns returns the grid width for a world: one cell per world unit,
// capped at MaxGridColumns.
func GridColumns(worldSize float64) int {
	switch {
	case !(worldSize > 0):
		return 1
	case worldSize >= MaxGridColumns:
		return MaxGridColumns
	}
	return int(math.Ceil(worldSize))
}

// RenderGrid writes a cols x cols text picture of a world of the given size,
// with y growing upwards. Robots are drawn over landmarks sharing their cell.
func RenderGrid(w io.Writer, worldSize float64, cols int, objects []simulation.Object) error {
	if !(worldSize > 0) {
		return fmt.Errorf("world size must be positive, got %v", worldSize)
	}
	if cols <= 0 || cols > MaxGridColumns {
		return fmt.Errorf("grid columns must be in [1, %d], got %d", MaxGridColumns, cols)
	}

	grid := make([][]rune, cols)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(string(emptyGlyph), cols))
	}

	place := func(pos common.Vector, glyph rune) {
		col, ok := cellIndex(pos.X, worldSize, cols)
		if !ok {
			return
		}
		row, ok := cellIndex(pos.Y, worldSize, cols)
		if !ok {
			return
		}
		grid[cols-1-row][col] = glyph
	}

	for _, obj := range objects {
		if _, ok := obj.(simulation.Landmark); ok {
			place(obj.GetPosition(), landmarkGlyph)
		}
	}
	for _, obj := range objects {
		if _, ok := obj.(*simulation.Robot); ok {
			place(obj.GetPosition(), robotGlyph)
		}
	}

	var b strings.Builder
	border := "+" + strings.Repeat("-", cols) + "+\n"
	b.WriteString(border)
	for _, row := range grid {
		b.WriteByte('|')
		b.WriteString(string(row))
		b.WriteString("|\n")
	}
	b.WriteString(border)

	_, err := io.WriteString(w, b.String())
	return err
}

// cellIndex maps a coordinate in [0, worldSize] to one of cols cells. The far
// edge belongs to the last cell.
func cellIndex(v, worldSize float64, cols int) (int, bool) {
	if math.IsNaN(v) || v < 0 || v > worldSize {
		return 0, false
	}
	return min(int(math.Floor(v/worldSize*float64(cols))), cols-1), true
}
