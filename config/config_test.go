package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_URL", "http://ingest.local/api/logs")
	t.Setenv("BRANCH_ID", "B1")
	t.Setenv("COMPANY_ID", "C1")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DeviceName != "Primary" {
		t.Errorf("DeviceName = %q, want Primary", cfg.DeviceName)
	}
	if cfg.PunchSource != "bridge" {
		t.Errorf("PunchSource = %q, want bridge", cfg.PunchSource)
	}
	if cfg.CycleInterval != 2*time.Minute {
		t.Errorf("CycleInterval = %v, want 2m", cfg.CycleInterval)
	}
	want := time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local)
	if !cfg.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", cfg.StartDate, want)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("BRANCH_ID", "B1")
	t.Setenv("COMPANY_ID", "C1")

	if _, err := LoadConfig(); err == nil {
		t.Errorf("LoadConfig() expected error for missing API_URL")
	}
}

func TestLoadConfigStartDateWithTime(t *testing.T) {
	setRequired(t)
	t.Setenv("START_DATE", "2025-04-20 10:30:00")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := time.Date(2025, 4, 20, 10, 30, 0, 0, time.Local)
	if !cfg.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", cfg.StartDate, want)
	}
}

func TestLoadConfigBadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("CYCLE_INTERVAL", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Errorf("LoadConfig() expected error for bad CYCLE_INTERVAL")
	}
}
