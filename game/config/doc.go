// Package config loads Cookies & Milk presets from a directory of YAML files.
//
// A preset names a starting board and the seed of the session's random
// source:
//
//	name: Classic
//	description: Empty board, seed 2024
//	seed: 2024
//	layout:        # optional, top row first, '.' 'C' 'M'
//	  - "...."
//	  - "...."
//	  - "...."
//	  - "...."
//
// The file name without extension is the preset ID used when creating
// sessions. A missing seed defaults to 2024. When classic.yaml is absent the
// manager falls back to a built-in empty classic preset.
package config
