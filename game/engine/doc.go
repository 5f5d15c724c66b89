// Package engine provides the core game logic for the Cookies & Milk
// connect-four board.
//
// The engine package implements the game mechanics including:
//   - A fixed 4x4 board of cookie, milk and empty tiles
//   - Gravity-fill move application with validation
//   - Win and draw detection over rows, columns and the two main diagonals
//   - A byte-exact emoji rendering of the board
//   - Random board generation from a caller supplied seeded source
//
// Core Types:
//
// Board is a plain value holding the grid. Its zero value is an empty board.
// GameStatus is derived from a Board on every call and never stored, so the
// status can not drift away from the cells it describes.
//
// Usage:
//
//	var board engine.Board
//	if err := board.Play(engine.Cookie, 1); err != nil {
//		if errors.Is(err, engine.ErrColumnFull) {
//			// pick another column
//		}
//	}
//	status := board.Status()
//	fmt.Print(board)
//
// Concurrency:
//
// The engine holds no locks and no global state. A Board shared between
// goroutines must be guarded by its owner; a check-then-play sequence is only
// atomic if the owner holds its lock across both calls.
//
// Game Rules:
//
// Either mark may be played into any column; turn order is the caller's
// business. A tile lands in the lowest empty row of its column. The game is
// won as soon as a row, column or main diagonal holds four tiles of the same
// mark, drawn when the board is full without such a line, and no move is
// accepted after that.
package engine
