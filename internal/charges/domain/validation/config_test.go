package validation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesConfigurationDefaults(t *testing.T) {
	cfg, err := LoadRulesConfiguration("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.StartDateLowerOffsetDays != 720 || cfg.StartDateUpperOffsetDays != 1095 {
		t.Fatalf("unexpected default window: %d/%d", cfg.StartDateLowerOffsetDays, cfg.StartDateUpperOffsetDays)
	}
	if cfg.TimeZone == "" {
		t.Fatal("default time zone must be set")
	}
}

func TestLoadRulesConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := []byte("start_date_lower_offset_days: 31\nstart_date_upper_offset_days: 365\ntime_zone: UTC\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRulesConfiguration(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StartDateLowerOffsetDays != 31 {
		t.Fatalf("lower offset = %d, want 31", cfg.StartDateLowerOffsetDays)
	}
	if cfg.StartDateUpperOffsetDays != 365 {
		t.Fatalf("upper offset = %d, want 365", cfg.StartDateUpperOffsetDays)
	}
	if cfg.TimeZone != "UTC" {
		t.Fatalf("time zone = %s, want UTC", cfg.TimeZone)
	}
}
