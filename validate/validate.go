// Command validate checks the preset YAML files in a configs directory
// (../configs by default, or the first argument). It checks:
//   - YAML structure, with unknown keys rejected
//   - a name and a 4x4 layout built only from '.', 'C' and 'M'
//   - gravity: no tile floats above an empty cell
//   - the starting board is still ongoing
//   - the cookie and milk counts differ by at most one
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/cookie-milk-connect4/game/config"
	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

// presetDocument mirrors the preset YAML schema for strict decoding.
type presetDocument struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Seed        *int64   `yaml:"seed"`
	Layout      []string `yaml:"layout"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages holds informational lines; otherwise it
// accumulates the problems that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Messages = append(r.Messages, "✓ "+fmt.Sprintf(format, args...))
}

// validatePreset loads and validates a single preset file.
func validatePreset(filePath string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(filePath),
		Valid:    true,
		Messages: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var doc presetDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		result.fail("Invalid YAML: %v", err)
		return result
	}

	if doc.Name == "" {
		result.fail("name is required")
	}
	if doc.Seed == nil {
		result.Messages = append(result.Messages, fmt.Sprintf("seed not set, %d will be used", engine.DefaultSeed))
	}

	board, err := engine.ParseLayout(doc.Layout)
	if err != nil {
		result.fail("Invalid layout: %v", err)
		return result
	}

	for _, pos := range board.Floating() {
		result.fail("Tile at column %d, row %d floats above an empty cell", pos.Column+1, pos.Row+1)
	}

	status := board.Status()
	if status.IsTerminal() {
		result.fail("Starting board is already %s", status)
	}

	cookies, milks := board.Count(engine.Cookie), board.Count(engine.Milk)
	if diff := cookies - milks; diff > 1 || diff < -1 {
		result.fail("Unbalanced start: %d cookies vs %d milk", cookies, milks)
	}

	// The loader applies its own checks; anything it rejects is invalid too.
	preset, err := config.Parse(data)
	if err != nil && result.Valid {
		result.fail("Rejected by loader: %v", err)
	}

	if result.Valid {
		result.info("Name: %s", preset.Name)
		result.info("Seed: %d", preset.Seed)
		result.info("Tiles: %d cookies, %d milk", cookies, milks)
		result.info("Playable columns: %d", len(board.PlayableColumns()))
	}

	return result
}

// validateDir validates every .yaml and .yml file in dir, in name order.
func validateDir(dir string) ([]ValidationResult, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no preset files found in %s", dir)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validatePreset(file))
	}
	return results, nil
}

// main validates each preset, printing a concise report and exiting with
// non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, err := validateDir(configDir)
	if err != nil {
		fmt.Printf("Error finding preset files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, msg := range result.Messages {
				fmt.Println("  " + msg)
			}
			continue
		}

		fmt.Println("❌ INVALID")
		allValid = false
		for _, msg := range result.Messages {
			if !strings.HasPrefix(msg, "✓") {
				fmt.Println("  ❌ " + msg)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
