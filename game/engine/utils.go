package engine

// Heights returns how many cells are filled in each column, bottom up.
// Floating tiles from random boards are not counted past the first gap.
func (b *Board) Heights() [Size]int {
	var heights [Size]int
	for column := 0; column < Size; column++ {
		row, ok := b.lowestEmpty(column)
		if !ok {
			row = Size
		}
		heights[column] = row
	}
	return heights
}

// Count returns the number of cells holding tile.
func (b *Board) Count(tile Tile) int {
	count := 0
	for column := 0; column < Size; column++ {
		for row := 0; row < Size; row++ {
			if b.cells[column][row] == tile {
				count++
			}
		}
	}
	return count
}

// Floating returns the non-empty cells that sit above an empty cell in their
// column. Boards built with Play never have any.
func (b *Board) Floating() []Position {
	var floating []Position
	for column := 0; column < Size; column++ {
		gap := false
		for row := 0; row < Size; row++ {
			switch {
			case b.cells[column][row] == Empty:
				gap = true
			case gap:
				floating = append(floating, Position{Column: column, Row: row})
			}
		}
	}
	return floating
}

// Rows returns the tiles row by row, top row first, left to right.
func (b *Board) Rows() [Size][Size]Tile {
	var rows [Size][Size]Tile
	for i := 0; i < Size; i++ {
		row := Size - 1 - i
		for column := 0; column < Size; column++ {
			rows[i][column] = b.Get(column, row)
		}
	}
	return rows
}
