package validation

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesConfiguration carries the operator-tunable validation bounds. Bounds
// are injected into the rule factories, never hard-coded in rules, so they
// can be changed without a deploy.
type RulesConfiguration struct {
	// StartDateLowerOffsetDays is how many days before today a validity
	// start may lie. The shipped default of 720 is a relaxation used in
	// test environments; production operators override it (see docs).
	StartDateLowerOffsetDays int `yaml:"start_date_lower_offset_days"`
	// StartDateUpperOffsetDays is how many days after today a validity
	// start may lie.
	StartDateUpperOffsetDays int `yaml:"start_date_upper_offset_days"`
	// TimeZone resolves "today" for the start date window.
	TimeZone string `yaml:"time_zone"`
}

// DefaultRulesConfiguration returns the shipped defaults.
func DefaultRulesConfiguration() RulesConfiguration {
	return RulesConfiguration{
		StartDateLowerOffsetDays: 720,
		StartDateUpperOffsetDays: 1095,
		TimeZone:                 "Europe/Copenhagen",
	}
}

// LoadRulesConfiguration loads configuration from a yaml file when a path is
// given, falling back to defaults otherwise.
func LoadRulesConfiguration(path string) (RulesConfiguration, error) {
	cfg := DefaultRulesConfiguration()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c RulesConfiguration) validate() error {
	if c.StartDateLowerOffsetDays < 0 || c.StartDateUpperOffsetDays < 0 {
		return errors.New("validation: start date offsets must be non-negative")
	}
	if c.TimeZone == "" {
		return errors.New("validation: time zone required")
	}
	return nil
}
