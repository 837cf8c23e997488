package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadPlan reads a match plan from a YAML (or JSON, which yaml.v3 accepts)
// file and validates it.
func LoadPlan(path string) (*MatchPlan, error) {
	var plan MatchPlan
	if err := loadYAML(path, &plan); err != nil {
		return nil, fmt.Errorf("load match plan %s: %w", path, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ParsePlan decodes a match plan from raw YAML/JSON bytes and validates it.
func ParsePlan(b []byte) (*MatchPlan, error) {
	var plan MatchPlan
	if err := yaml.Unmarshal(b, &plan); err != nil {
		return nil, fmt.Errorf("parse match plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}
