package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// PresetStage is one planned stage inside a ladder preset.
type PresetStage struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Days        int    `yaml:"days" json:"days"`
}

// StagePreset is a named stage-ladder template offered at project creation.
type StagePreset struct {
	Name   string        `yaml:"name" json:"name"`
	Stages []PresetStage `yaml:"stages" json:"stages"`
}

// StagePresets holds the ladder templates loaded at startup.
var StagePresets []StagePreset

// LoadStagePresets reads ladder templates from the yaml file at path.
// A missing file is not an error; the preset list is simply empty.
func LoadStagePresets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			StagePresets = nil
			return nil
		}
		return err
	}

	var presets []StagePreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return fmt.Errorf("parse stage presets %s: %w", path, err)
	}
	StagePresets = presets
	return nil
}
