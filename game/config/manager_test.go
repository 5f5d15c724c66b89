package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

func writePresetFile(t *testing.T, dir, filename, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write preset file: %v", err)
	}
}

const classicYAML = `name: Classic
description: Empty board
seed: 2024
`

const openingYAML = `name: Opening
description: Cookie took the corner
seed: 7
layout:
  - "...."
  - "...."
  - "...."
  - "C..."
`

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writePresetFile(t, dir, "classic.yaml", classicYAML)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Classic" {
			t.Errorf("Expected classic.yaml as default, got %q", got)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing classic preset", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without preset files, got: %v", err)
		}
		def := manager.GetDefault()
		if def == nil || def.Name != "classic" || def.Seed != engine.DefaultSeed {
			t.Errorf("Expected built-in classic preset, got %+v", def)
		}
	})

	t.Run("broken classic preset", func(t *testing.T) {
		dir := t.TempDir()
		writePresetFile(t, dir, "classic.yaml", "name: [unterminated")

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if manager.GetDefault().Name != "classic" {
			t.Error("Expected built-in fallback for broken classic.yaml")
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "classic.yaml", classicYAML)
	writePresetFile(t, dir, "opening.yaml", openingYAML)
	writePresetFile(t, dir, "short.yml", "name: Short\n")
	writePresetFile(t, dir, "floating.yaml", "name: Floating\nlayout: [\"....\", \"C...\", \"....\", \"....\"]\n")
	writePresetFile(t, dir, "badchar.yaml", "name: Bad\nlayout: [\"....\", \"....\", \"....\", \"X...\"]\n")
	writePresetFile(t, dir, "noname.yaml", "seed: 3\n")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name     string
		id       string
		wantErr  error
		wantSeed int64
	}{
		{name: "classic", id: "classic", wantSeed: 2024},
		{name: "with extension", id: "opening.yaml", wantSeed: 7},
		{name: "yml file and default seed", id: "short", wantSeed: engine.DefaultSeed},
		{name: "missing", id: "nope", wantErr: ErrConfigNotFound},
		{name: "path traversal", id: "../classic", wantErr: ErrConfigNotFound},
		{name: "floating tile", id: "floating", wantErr: ErrInvalidConfig},
		{name: "bad character", id: "badchar", wantErr: ErrInvalidConfig},
		{name: "no name", id: "noname", wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, err := manager.LoadConfig(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig(%q) failed: %v", tt.id, err)
			}
			if preset.Seed != tt.wantSeed {
				t.Errorf("Expected seed %d, got %d", tt.wantSeed, preset.Seed)
			}
		})
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "opening.yaml", openingYAML)
	writePresetFile(t, dir, "classic.yaml", classicYAML)
	writePresetFile(t, dir, "broken.yaml", "name: [")
	writePresetFile(t, dir, "notes.txt", "not a preset")
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 presets, got %d", len(configs))
	}
	if configs[0].ConfigID != "classic" || configs[1].ConfigID != "opening" {
		t.Errorf("Expected presets sorted by ID, got %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[0].HasLayout || !configs[1].HasLayout {
		t.Error("HasLayout mismatch")
	}
	if configs[1].Filename != "opening.yaml" || configs[1].Seed != 7 {
		t.Errorf("Unexpected info: %+v", configs[1])
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	preset := &engine.Preset{
		Name:   "Saved",
		Seed:   0,
		Layout: []string{"....", "....", "M...", "CC.."},
	}
	if err := manager.SaveConfig("saved", preset); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	manager.RefreshCache()
	if manager.Count() != 0 {
		t.Errorf("Expected empty cache after refresh, got %d", manager.Count())
	}

	loaded, err := manager.LoadConfig("saved")
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
	if loaded.Seed != 0 {
		t.Errorf("Expected explicit seed 0 to survive a round trip, got %d", loaded.Seed)
	}
	if len(loaded.Layout) != 4 || loaded.Layout[3] != "CC.." {
		t.Errorf("Unexpected layout %v", loaded.Layout)
	}

	invalid := &engine.Preset{Name: ""}
	if err := manager.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", preset); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad id, got %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "opening.yaml", openingYAML)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := manager.SetDefault("opening"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "Opening" {
		t.Error("Default not updated")
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "classic.yaml", classicYAML)
	writePresetFile(t, dir, "opening.yaml", openingYAML)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "classic"
			if i%2 == 0 {
				id = "opening"
			}
			if _, err := manager.LoadConfig(id); err != nil {
				t.Errorf("LoadConfig(%s): %v", id, err)
			}
			if i%5 == 0 {
				manager.RefreshCache()
			}
		}(i)
	}
	wg.Wait()
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "opening.yaml", openingYAML)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	first, _ := manager.LoadConfig("opening")
	writePresetFile(t, dir, "opening.yaml", "name: Changed\n")
	second, _ := manager.LoadConfig("opening")
	if first != second {
		t.Error("Expected cached preset on second load")
	}

	manager.RefreshCache()
	third, err := manager.LoadConfig("opening")
	if err != nil {
		t.Fatal(err)
	}
	if third.Name != "Changed" {
		t.Errorf("Expected reloaded preset after refresh, got %q", third.Name)
	}
}
