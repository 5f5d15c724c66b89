package engine

import "fmt"

// ParseLayout builds a board from Size rows of Size characters, top row
// first. '.' is empty, 'C' cookie and 'M' milk. An empty layout yields an
// empty board. Tiles are written directly, so floating tiles are accepted
// here and rejected, where it matters, by the caller via Floating.
func ParseLayout(layout []string) (Board, error) {
	b := NewBoard()
	if len(layout) == 0 {
		return b, nil
	}
	if len(layout) != Size {
		return b, fmt.Errorf("layout must have %d rows, got %d", Size, len(layout))
	}

	for i, line := range layout {
		if len(line) != Size {
			return b, fmt.Errorf("layout row %d must have %d characters, got %d", i+1, Size, len(line))
		}
		row := Size - 1 - i
		for column := 0; column < Size; column++ {
			switch ch := line[column]; ch {
			case '.':
				b.Set(column, row, Empty)
			case 'C', 'c':
				b.Set(column, row, Cookie)
			case 'M', 'm':
				b.Set(column, row, Milk)
			default:
				return b, fmt.Errorf("invalid character '%c' at row %d, col %d", ch, i+1, column+1)
			}
		}
	}
	return b, nil
}

// Layout is the inverse of ParseLayout.
func (b *Board) Layout() []string {
	rows := b.Rows()
	layout := make([]string, 0, Size)
	for _, row := range rows {
		line := make([]byte, Size)
		for column, tile := range row {
			line[column] = tile.Letter()
		}
		layout = append(layout, string(line))
	}
	return layout
}

// DefaultSeed seeds the random source of the classic preset.
const DefaultSeed int64 = 2024

// Preset describes how a session starts: a name, the seed of its random
// source and an optional starting layout.
type Preset struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Seed        int64    `json:"seed" yaml:"seed"`
	Layout      []string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// ClassicPreset is the empty board with the default seed.
func ClassicPreset() *Preset {
	return &Preset{
		Name:        "classic",
		Description: "Empty board, random boards seeded with 2024",
		Seed:        DefaultSeed,
	}
}

// Board returns the starting board of the preset.
func (p *Preset) Board() (Board, error) {
	return ParseLayout(p.Layout)
}

// ValidatePreset checks that a preset is usable as a session start: it must
// be named, its layout must parse and no tile may float, since a starting
// board has to be reachable by play.
func ValidatePreset(p *Preset) error {
	if p == nil {
		return fmt.Errorf("preset validation: preset is nil")
	}
	if p.Name == "" {
		return fmt.Errorf("preset validation: name is required")
	}
	b, err := p.Board()
	if err != nil {
		return fmt.Errorf("preset validation: %w", err)
	}
	if floating := b.Floating(); len(floating) > 0 {
		pos := floating[0]
		return fmt.Errorf("preset validation: tile at column %d, row %d floats above an empty cell",
			pos.Column+1, pos.Row+1)
	}
	return nil
}
