// Command analyze prints quick, human-readable notes about the presets in a
// configs directory: tile counts, column heights, the starting status, which
// columns win on the spot for each team and the first random board a reset
// session would draw.
package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/wricardo/cookie-milk-connect4/game/config"
	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

// Analysis is the summary of one preset.
type Analysis struct {
	ID          string
	Name        string
	Seed        int64
	Cookies     int
	Milks       int
	Heights     [engine.Size]int
	Status      engine.GameStatus
	CookieWins  []int // 1-based columns
	MilkWins    []int // 1-based columns
	FirstRandom engine.Board
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", configDir, err)
		os.Exit(1)
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		fmt.Printf("Error listing presets: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.ConfigID)
		preset, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Printf("Error loading preset: %v\n", err)
			continue
		}
		analysis, err := analyzePreset(info.ConfigID, preset)
		if err != nil {
			fmt.Printf("Error analyzing preset: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analysis)
	}
}

func analyzePreset(id string, preset *engine.Preset) (Analysis, error) {
	board, err := preset.Board()
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		ID:          id,
		Name:        preset.Name,
		Seed:        preset.Seed,
		Cookies:     board.Count(engine.Cookie),
		Milks:       board.Count(engine.Milk),
		Heights:     board.Heights(),
		Status:      board.Status(),
		CookieWins:  winningColumns(board, engine.Cookie),
		MilkWins:    winningColumns(board, engine.Milk),
		FirstRandom: engine.Random(rand.New(rand.NewPCG(uint64(preset.Seed), uint64(preset.Seed)))),
	}, nil
}

// winningColumns lists the 1-based columns where placing tile ends the game
// with tile as the winner.
func winningColumns(board engine.Board, tile engine.Tile) []int {
	var columns []int
	for _, column := range board.PlayableColumns() {
		next := board
		if err := next.Play(tile, column); err != nil {
			continue
		}
		if status := next.Status(); status.State == engine.Won && status.Winner == tile {
			columns = append(columns, column+1)
		}
	}
	return columns
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Seed: %d\n", a.Seed)
	fmt.Fprintf(w, "Tiles: %d cookies, %d milk\n", a.Cookies, a.Milks)
	fmt.Fprintf(w, "Heights: %v\n", a.Heights)
	fmt.Fprintf(w, "Status: %s\n", a.Status)

	if a.Status.IsTerminal() {
		fmt.Fprintf(w, "⚠️  WARNING: the starting board is already decided\n")
	}

	switch {
	case len(a.CookieWins) > 0 && len(a.MilkWins) > 0:
		fmt.Fprintf(w, "⚠️  Both teams can win next move: cookie %v, milk %v\n", a.CookieWins, a.MilkWins)
	case len(a.CookieWins) > 0:
		fmt.Fprintf(w, "🍪 Cookie wins next move in column(s) %v\n", a.CookieWins)
	case len(a.MilkWins) > 0:
		fmt.Fprintf(w, "🥛 Milk wins next move in column(s) %v\n", a.MilkWins)
	default:
		fmt.Fprintf(w, "✅ No immediate wins\n")
	}

	fmt.Fprintf(w, "First random board after reset:\n%s", indent(a.FirstRandom.String(), "   "))
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}
