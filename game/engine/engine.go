package engine

// Board is the 4x4 grid, indexed [column][row] with row 0 at the bottom.
// The zero value is an empty board.
type Board struct {
	cells [Size][Size]Tile
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// Get returns the tile at the 0-based column and row. Out of range
// coordinates read as Empty.
func (b *Board) Get(column, row int) Tile {
	if !inBounds(column, row) {
		return Empty
	}
	return b.cells[column][row]
}

// Set writes a tile without any game rule checks. It is meant for random
// boards and presets; moves go through Play. Out of range writes are ignored.
func (b *Board) Set(column, row int, tile Tile) {
	if !inBounds(column, row) {
		return
	}
	b.cells[column][row] = tile
}

// IsFull reports whether no cell is empty.
func (b *Board) IsFull() bool {
	for column := 0; column < Size; column++ {
		for row := 0; row < Size; row++ {
			if b.cells[column][row] == Empty {
				return false
			}
		}
	}
	return true
}

// Status classifies the board. Rows are checked first, then columns, then
// the two main diagonals; the first line of four decides the winner.
func (b *Board) Status() GameStatus {
	for row := 0; row < Size; row++ {
		if tile, ok := b.line(Position{0, row}, 1, 0); ok {
			return GameStatus{State: Won, Winner: tile}
		}
	}
	for column := 0; column < Size; column++ {
		if tile, ok := b.line(Position{column, 0}, 0, 1); ok {
			return GameStatus{State: Won, Winner: tile}
		}
	}
	if tile, ok := b.line(Position{0, Size - 1}, 1, -1); ok {
		return GameStatus{State: Won, Winner: tile}
	}
	if tile, ok := b.line(Position{Size - 1, Size - 1}, -1, -1); ok {
		return GameStatus{State: Won, Winner: tile}
	}

	if b.IsFull() {
		return GameStatus{State: Drawn}
	}
	return GameStatus{State: Ongoing}
}

// line walks Size cells from start and reports the mark filling all of them.
func (b *Board) line(start Position, dc, dr int) (Tile, bool) {
	first := b.cells[start.Column][start.Row]
	if first == Empty {
		return Empty, false
	}
	for i := 1; i < Size; i++ {
		if b.cells[start.Column+i*dc][start.Row+i*dr] != first {
			return Empty, false
		}
	}
	return first, true
}

func inBounds(column, row int) bool {
	return column >= 0 && column < Size && row >= 0 && row < Size
}
