package engine

import "strings"

const (
	wallGlyph  = "⬜"
	bottomWall = "⬜⬜⬜⬜⬜⬜\n"
	noWinner   = "No winner.\n"
)

// String renders the board top row first, walled on both sides and
// underneath, followed by a result line once the game has ended.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(256)

	for _, row := range b.Rows() {
		sb.WriteString(wallGlyph)
		for _, tile := range row {
			sb.WriteString(tile.Emoji())
		}
		sb.WriteString(wallGlyph)
		sb.WriteByte('\n')
	}
	sb.WriteString(bottomWall)

	switch status := b.Status(); status.State {
	case Won:
		sb.WriteString(status.Winner.Emoji())
		sb.WriteString(" wins!\n")
	case Drawn:
		sb.WriteString(noWinner)
	}
	return sb.String()
}
