package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:              "./test.db",
		SourcesDir:          "./sources",
		Port:                "8080",
		WorkerCount:         5,
		SchedulerInterval:   60,
		APIAccessKey:        "test-key",
		SimilarityAlgorithm: "jaro_winkler",
		SimilarityThreshold: 0.75,
		UserAgent:           "Test Agent",
		Timezone:            "Europe/Madrid",
		Debug:               true,
		Version:             "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 60 {
		t.Errorf("Expected scheduler interval 60, got %d", cfg.SchedulerInterval)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.SimilarityAlgorithm != "jaro_winkler" {
		t.Errorf("Expected algorithm 'jaro_winkler', got '%s'", cfg.SimilarityAlgorithm)
	}
	if cfg.SimilarityThreshold != 0.75 {
		t.Errorf("Expected threshold 0.75, got %f", cfg.SimilarityThreshold)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "Europe/Madrid" {
		t.Errorf("Expected timezone 'Europe/Madrid', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
