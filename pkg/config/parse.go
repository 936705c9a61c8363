package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes and validates it.
// Keys missing from the document keep their default values.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if cfg.Model != nil {
		model := DefaultMM1Model()
		if err := decodeModel(data, &model); err != nil {
			return nil, err
		}
		cfg.Model = &model
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseStudyYAML parses a bare Study document from YAML bytes and validates it.
func ParseStudyYAML(data []byte) (*Study, error) {
	study := DefaultStudy()
	if err := yaml.Unmarshal(data, &study); err != nil {
		return nil, fmt.Errorf("failed to parse study yaml: %w", err)
	}

	if err := Validate(&study); err != nil {
		return nil, err
	}

	return &study, nil
}

// decodeModel re-decodes the model section over defaults so omitted factors
// keep their standard values.
func decodeModel(data []byte, model *MM1Model) error {
	var doc struct {
		Model yaml.Node `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if err := doc.Model.Decode(model); err != nil {
		return fmt.Errorf("failed to parse model section: %w", err)
	}
	return nil
}
