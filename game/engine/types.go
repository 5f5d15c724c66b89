package engine

import (
	"fmt"
	"strings"
)

const (
	// Size is the width and height of the board.
	Size = 4

	// MinColumn and MaxColumn bound the 1-based column numbers accepted by Play.
	MinColumn = 1
	MaxColumn = Size
)

// Tile is the content of a single board cell.
type Tile uint8

const (
	Empty Tile = iota
	Cookie
	Milk
)

// Marks lists the two playable tiles.
var Marks = []Tile{Cookie, Milk}

// String returns the lowercase tile name.
func (t Tile) String() string {
	switch t {
	case Empty:
		return "empty"
	case Cookie:
		return "cookie"
	case Milk:
		return "milk"
	default:
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
}

// Emoji returns the glyph used when rendering the tile.
func (t Tile) Emoji() string {
	switch t {
	case Cookie:
		return "🍪"
	case Milk:
		return "🥛"
	default:
		return "⬛"
	}
}

// Letter returns the single character used in preset layouts.
func (t Tile) Letter() byte {
	switch t {
	case Cookie:
		return 'C'
	case Milk:
		return 'M'
	default:
		return '.'
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tile) MarshalText() ([]byte, error) {
	switch t {
	case Empty, Cookie, Milk:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("invalid tile %d", uint8(t))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. Unlike ParseTile it
// also accepts "empty".
func (t *Tile) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), "empty") {
		*t = Empty
		return nil
	}
	parsed, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTile maps a team name to its mark, ignoring case and surrounding
// space. Empty is never returned without an error.
func ParseTile(name string) (Tile, error) {
	tile, err := ParseTeam(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return Empty, fmt.Errorf("unknown team %q", name)
	}
	return tile, nil
}

// ParseTeam is the strict form of ParseTile: only exactly "cookie" and
// "milk" are accepted.
func ParseTeam(name string) (Tile, error) {
	switch name {
	case "cookie":
		return Cookie, nil
	case "milk":
		return Milk, nil
	default:
		return Empty, fmt.Errorf("unknown team %q", name)
	}
}

// State classifies a board.
type State string

const (
	Ongoing State = "ongoing"
	Drawn   State = "drawn"
	Won     State = "won"
)

// GameStatus is the classification of a board. Winner is set only when
// State is Won.
type GameStatus struct {
	State  State `json:"state"`
	Winner Tile  `json:"winner,omitempty"`
}

// IsTerminal reports whether no further move can be accepted.
func (s GameStatus) IsTerminal() bool {
	return s.State == Won || s.State == Drawn
}

func (s GameStatus) String() string {
	if s.State == Won {
		return fmt.Sprintf("won(%s)", s.Winner)
	}
	return string(s.State)
}

// MoveError is the closed set of reasons a move is rejected.
type MoveError string

func (e MoveError) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn MoveError = "invalid column"
	ErrColumnFull    MoveError = "column is full"
	ErrGameOver      MoveError = "game is over"
)

// Code returns a machine friendly identifier for the error.
func (e MoveError) Code() string {
	switch e {
	case ErrInvalidColumn:
		return "invalid_column"
	case ErrColumnFull:
		return "column_full"
	case ErrGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Position addresses a cell by 0-based column and row, row 0 at the bottom.
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}
