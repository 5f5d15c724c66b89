package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	b, err := ParseLayout([]string{"C...", "....", "....", "m..M"})
	require.NoError(t, err)

	assert.Equal(t, Cookie, b.Get(0, 3))
	assert.Equal(t, Milk, b.Get(0, 0))
	assert.Equal(t, Milk, b.Get(3, 0))
	assert.Equal(t, []string{"C...", "....", "....", "M..M"}, b.Layout())
}

func TestParseLayout_Empty(t *testing.T) {
	b, err := ParseLayout(nil)
	require.NoError(t, err)
	assert.Equal(t, Board{}, b)
}

func TestParseLayout_Errors(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		errMsg string
	}{
		{"too few rows", []string{"....", "...."}, "layout must have 4 rows"},
		{"short row", []string{"....", "...", "....", "...."}, "layout row 2 must have 4 characters"},
		{"bad character", []string{"....", "....", "..X.", "...."}, "invalid character 'X' at row 3, col 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout(tt.layout)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidatePreset(t *testing.T) {
	tests := []struct {
		name    string
		preset  *Preset
		wantErr string
	}{
		{"classic", ClassicPreset(), ""},
		{"with layout", &Preset{Name: "opening", Layout: []string{"....", "....", "M...", "CC.."}}, ""},
		{"nil", nil, "preset is nil"},
		{"no name", &Preset{}, "name is required"},
		{"bad layout", &Preset{Name: "x", Layout: []string{"...."}}, "layout must have 4 rows"},
		{"floating", &Preset{Name: "x", Layout: []string{"....", "C...", "....", "...."}}, "column 1, row 3 floats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePreset(tt.preset)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClassicPreset(t *testing.T) {
	p := ClassicPreset()
	assert.Equal(t, DefaultSeed, p.Seed)
	b, err := p.Board()
	require.NoError(t, err)
	assert.Equal(t, Board{}, b)
}
