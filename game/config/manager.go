package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
	"github.com/wricardo/cookie-milk-connect4/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	presetExt   = ".yaml"
	defaultName = "classic"
)

// presetFile is the on-disk shape. Seed is a pointer so a missing seed can
// fall back to engine.DefaultSeed while an explicit 0 is kept.
type presetFile struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Seed        *int64   `yaml:"seed,omitempty"`
	Layout      []string `yaml:"layout,omitempty"`
}

// Manager handles preset loading and caching
type Manager struct {
	configDir     string
	defaultPreset *engine.Preset
	presets       map[string]*engine.Preset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		presets:   make(map[string]*engine.Preset),
	}
	m.defaultPreset = m.resolveDefault()
	return m, nil
}

// LoadConfig loads a preset by ID, the file name without extension
func (m *Manager) LoadConfig(name string) (*engine.Preset, error) {
	id := strings.TrimSuffix(strings.TrimSuffix(name, presetExt), ".yml")
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: bad preset id %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if preset, exists := m.presets[id]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	preset, err := m.readPreset(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, exists := m.presets[id]; exists {
		return cached, nil
	}
	m.presets[id] = preset
	return preset, nil
}

func (m *Manager) readPreset(id string) (*engine.Preset, error) {
	data, err := os.ReadFile(filepath.Join(m.configDir, id+presetExt))
	if os.IsNotExist(err) {
		data, err = os.ReadFile(filepath.Join(m.configDir, id+".yml"))
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	preset, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return preset, nil
}

// Parse decodes and validates a preset document.
func Parse(data []byte) (*engine.Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	preset := &engine.Preset{
		Name:        file.Name,
		Description: file.Description,
		Seed:        engine.DefaultSeed,
		Layout:      file.Layout,
	}
	if file.Seed != nil {
		preset.Seed = *file.Seed
	}

	if err := engine.ValidatePreset(preset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return preset, nil
}

// ListConfigs returns information about all loadable presets, sorted by ID.
// Files that fail to load are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != presetExt && ext != ".yml") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ext)
		preset, err := m.LoadConfig(id)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping preset")
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        preset.Name,
			Description: preset.Description,
			Seed:        preset.Seed,
			HasLayout:   len(preset.Layout) > 0,
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by ID
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// RefreshCache drops every cached preset and re-resolves the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.presets = make(map[string]*engine.Preset)
	m.mu.Unlock()

	def := m.resolveDefault()

	m.mu.Lock()
	m.defaultPreset = def
	m.mu.Unlock()
}

// resolveDefault loads classic.yaml, falling back to the built-in classic
// preset when it is missing or broken.
func (m *Manager) resolveDefault() *engine.Preset {
	preset, err := m.LoadConfig(defaultName)
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			log.Warn().Err(err).Msg("classic preset unusable, using built-in")
		}
		return engine.ClassicPreset()
	}
	return preset
}

// SaveConfig validates and writes a preset to disk
func (m *Manager) SaveConfig(name string, preset *engine.Preset) error {
	if err := engine.ValidatePreset(preset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id := strings.TrimSuffix(name, presetExt)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: bad preset id %q", ErrInvalidConfig, name)
	}

	seed := preset.Seed
	data, err := yaml.Marshal(presetFile{
		Name:        preset.Name,
		Description: preset.Description,
		Seed:        &seed,
		Layout:      preset.Layout,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, id+presetExt), data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[id] = preset
	m.mu.Unlock()

	return nil
}

// Count returns the number of cached presets
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.presets)
}
