package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const raceConfigFile = "race.yaml"

// LoadRace loads the race configuration.
// Search order: customPath -> ~/.derby/configs/race.yaml -> ./configs/race.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadRace(customPath string) (RaceConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseRace(data)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(raceConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseRace(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", raceConfigFile)); err == nil {
		if cfg, err := ParseRace(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseRace(defaultRaceYAML)
	if err != nil {
		return DefaultRaceConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseRace decodes YAML over the default configuration and validates it.
func ParseRace(data []byte) (RaceConfig, error) {
	cfg := DefaultRaceConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RaceConfig{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RaceConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".derby", "configs", filename)
}

// PaceForPreset returns the milliseconds-per-meter pace of a preset.
func PaceForPreset(preset PacePreset) (float64, bool) {
	switch preset {
	case PaceSprint:
		return 5, true
	case PaceClassic:
		return 10, true
	case PaceMarathon:
		return 20, true
	default:
		return 0, false
	}
}

// ApplyPacePreset modifies the config based on a pace preset.
// An empty preset leaves the config untouched.
func ApplyPacePreset(cfg *RaceConfig, preset PacePreset) error {
	if preset == "" {
		return nil
	}
	pace, ok := PaceForPreset(preset)
	if !ok {
		return fmt.Errorf("unknown pace preset %q (expected sprint, classic or marathon)", preset)
	}
	cfg.Simulation.PaceMsPerMeter = pace
	return nil
}
