// Package tuning loads the server's runtime configuration.
package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	GameVersion string `yaml:"game_version"` // "era", "wrath", "cata"

	ConfigDir  string `yaml:"config_dir"`
	EffectsDir string `yaml:"effects_dir"`

	JournalDir  string `yaml:"journal_dir,omitempty"` // empty disables journaling
	GameDBPath  string `yaml:"gamedb_path,omitempty"` // empty disables sqlite metadata/index
	UseGameDB   bool   `yaml:"use_gamedb,omitempty"`  // prefer sqlite metadata over JSON catalogs
	ImportOnRun bool   `yaml:"import_on_run,omitempty"`
}

func Load(path string) (Tuning, error) {
	t := defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func defaults() Tuning {
	return Tuning{
		GameVersion: "wrath",
		ConfigDir:   "./configs",
		EffectsDir:  "./configs/effects",
	}
}

func (t Tuning) Validate() error {
	switch t.GameVersion {
	case "era", "wrath", "cata":
	default:
		return fmt.Errorf("unknown game_version %q", t.GameVersion)
	}
	if strings.TrimSpace(t.ConfigDir) == "" {
		return fmt.Errorf("config_dir must not be empty")
	}
	if strings.TrimSpace(t.EffectsDir) == "" {
		return fmt.Errorf("effects_dir must not be empty")
	}
	if t.UseGameDB && strings.TrimSpace(t.GameDBPath) == "" {
		return fmt.Errorf("use_gamedb requires gamedb_path")
	}
	return nil
}
