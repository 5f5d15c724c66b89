package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

func TestAnalyzePreset_Endgame(t *testing.T) {
	preset := &engine.Preset{
		Name: "Endgame",
		Seed: 4242,
		Layout: []string{
			"....",
			"....",
			"MM..",
			"CCC.",
		},
	}

	a, err := analyzePreset("endgame", preset)
	if err != nil {
		t.Fatalf("analyzePreset failed: %v", err)
	}

	if a.Cookies != 3 || a.Milks != 2 {
		t.Errorf("Expected 3 cookies and 2 milk, got %d and %d", a.Cookies, a.Milks)
	}
	if a.Heights != [engine.Size]int{2, 2, 1, 0} {
		t.Errorf("Unexpected heights %v", a.Heights)
	}
	if a.Status.State != engine.Ongoing {
		t.Errorf("Expected ongoing, got %s", a.Status)
	}
	if !reflect.DeepEqual(a.CookieWins, []int{4}) {
		t.Errorf("Expected cookie to win in column 4, got %v", a.CookieWins)
	}
	if len(a.MilkWins) != 0 {
		t.Errorf("Expected no milk wins, got %v", a.MilkWins)
	}
}

func TestAnalyzePreset_FirstRandomIsSeeded(t *testing.T) {
	first, err := analyzePreset("classic", engine.ClassicPreset())
	if err != nil {
		t.Fatalf("analyzePreset failed: %v", err)
	}
	second, err := analyzePreset("classic", engine.ClassicPreset())
	if err != nil {
		t.Fatalf("analyzePreset failed: %v", err)
	}

	if first.FirstRandom != second.FirstRandom {
		t.Error("Expected the same random board for the same seed")
	}
	if n := first.FirstRandom.Count(engine.Empty); n != 0 {
		t.Errorf("Expected a board without empty cells, got %d", n)
	}
}

func TestAnalyzePreset_InvalidLayout(t *testing.T) {
	_, err := analyzePreset("bad", &engine.Preset{Name: "Bad", Layout: []string{"...."}})
	if err == nil {
		t.Error("Expected error for an invalid layout")
	}
}

func TestWinningColumns(t *testing.T) {
	board, err := engine.ParseLayout([]string{
		"....",
		"M...",
		"M...",
		"MCCC",
	})
	if err != nil {
		t.Fatalf("ParseLayout failed: %v", err)
	}

	if got := winningColumns(board, engine.Milk); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Expected milk to win in column 1, got %v", got)
	}
	if got := winningColumns(board, engine.Cookie); len(got) != 0 {
		t.Errorf("Expected no cookie wins, got %v", got)
	}
	if board.Count(engine.Empty) != 10 {
		t.Error("winningColumns must not modify the board")
	}
}

func TestPrintAnalysis(t *testing.T) {
	a, err := analyzePreset("opening", &engine.Preset{
		Name:   "Opening",
		Seed:   12,
		Layout: []string{"....", "....", "....", "CM.."},
	})
	if err != nil {
		t.Fatalf("analyzePreset failed: %v", err)
	}

	var buf bytes.Buffer
	printAnalysis(&buf, a)
	out := buf.String()

	for _, want := range []string{
		"Name: Opening",
		"Seed: 12",
		"Tiles: 1 cookies, 1 milk",
		"Heights: [1 1 0 0]",
		"Status: ongoing",
		"✅ No immediate wins",
		"First random board after reset:\n   ⬜",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Count(out, "   ⬜") != engine.Size+1 {
		t.Errorf("Expected every board line to be indented, got:\n%s", out)
	}
}

func TestIndent(t *testing.T) {
	if got := indent("a\nb\n", "> "); got != "> a\n> b\n" {
		t.Errorf("indent = %q", got)
	}
}
