package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeights(t *testing.T) {
	b := mustLayout(t, "C...", "M...", "CM..", "MCM.")
	assert.Equal(t, [Size]int{4, 2, 1, 0}, b.Heights())
}

func TestCount(t *testing.T) {
	b := mustLayout(t, "....", "....", "CM..", "MCM.")
	assert.Equal(t, 2, b.Count(Cookie))
	assert.Equal(t, 3, b.Count(Milk))
	assert.Equal(t, 11, b.Count(Empty))
}

func TestFloating(t *testing.T) {
	played := mustLayout(t, "....", "C...", "MC..", "CMC.")
	assert.Empty(t, played.Floating())

	floating := mustLayout(t, ".C..", "....", "...M", "C...")
	assert.Equal(t, []Position{
		{Column: 1, Row: 3},
		{Column: 3, Row: 1},
	}, floating.Floating())
}

func TestRows(t *testing.T) {
	b := mustLayout(t, "C...", "....", "....", "...M")
	rows := b.Rows()
	assert.Equal(t, Cookie, rows[0][0])
	assert.Equal(t, Milk, rows[Size-1][Size-1])
}
