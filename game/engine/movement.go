package engine

// Play drops tile into the 1-based column. The tile lands in the lowest
// empty row. The column is validated before the game state: an out of range
// column is ErrInvalidColumn even on a finished board, and a finished board
// is ErrGameOver even when the column is full. On error the board is left
// untouched.
//
// Play does not enforce turn order and does not reject Empty; callers are
// expected to pass one of Marks.
func (b *Board) Play(tile Tile, column int) error {
	_, err := b.PlayAt(tile, column)
	return err
}

// PlayAt is Play that also reports where the tile landed.
func (b *Board) PlayAt(tile Tile, column int) (Position, error) {
	if column < MinColumn || column > MaxColumn {
		return Position{}, ErrInvalidColumn
	}
	if b.Status().IsTerminal() {
		return Position{}, ErrGameOver
	}

	col := column - 1
	row, ok := b.lowestEmpty(col)
	if !ok {
		return Position{}, ErrColumnFull
	}
	b.cells[col][row] = tile
	return Position{Column: col, Row: row}, nil
}

// CanPlay reports whether Play would accept a move in the 1-based column.
func (b *Board) CanPlay(column int) bool {
	if column < MinColumn || column > MaxColumn {
		return false
	}
	if b.Status().IsTerminal() {
		return false
	}
	_, ok := b.lowestEmpty(column - 1)
	return ok
}

// PlayableColumns returns the 1-based columns that currently accept a move.
func (b *Board) PlayableColumns() []int {
	columns := make([]int, 0, Size)
	for column := MinColumn; column <= MaxColumn; column++ {
		if b.CanPlay(column) {
			columns = append(columns, column)
		}
	}
	return columns
}

func (b *Board) lowestEmpty(col int) (int, bool) {
	for row := 0; row < Size; row++ {
		if b.cells[col][row] == Empty {
			return row, true
		}
	}
	return 0, false
}
