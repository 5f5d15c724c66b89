package engine

// Source is the random number source consumed by Random. *rand.Rand from
// math/rand/v2 satisfies it; seeding belongs to the caller.
type Source interface {
	IntN(n int) int
}

// Random fills a fresh board with tiles drawn uniformly from palette, one
// draw per cell, top row first and left to right. Gravity is ignored, so the
// result may hold floating tiles and need not be reachable by play. An empty
// palette means Marks.
func Random(src Source, palette ...Tile) Board {
	if len(palette) == 0 {
		palette = Marks
	}

	b := NewBoard()
	for row := Size - 1; row >= 0; row-- {
		for column := 0; column < Size; column++ {
			b.Set(column, row, palette[src.IntN(len(palette))])
		}
	}
	return b
}
