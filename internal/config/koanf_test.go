// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// TestDefaultConfig verifies that defaultConfig() returns the documented defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path != "/data/restspot.duckdb" {
		t.Errorf("Database.Path = %q, want /data/restspot.duckdb", cfg.Database.Path)
	}
	if cfg.Database.QueryTimeout != 5*time.Second {
		t.Errorf("Database.QueryTimeout = %v, want 5s", cfg.Database.QueryTimeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.Recommend.MinVotes != 3 {
		t.Errorf("Recommend.MinVotes = %d, want 3", cfg.Recommend.MinVotes)
	}
	if cfg.Recommend.RecalcThreshold != 0.10 {
		t.Errorf("Recommend.RecalcThreshold = %v, want 0.10", cfg.Recommend.RecalcThreshold)
	}
	if cfg.Recommend.Seed != 228 {
		t.Errorf("Recommend.Seed = %d, want 228", cfg.Recommend.Seed)
	}
	if cfg.Recommend.Predictor.Mode != "local" {
		t.Errorf("Recommend.Predictor.Mode = %q, want local", cfg.Recommend.Predictor.Mode)
	}
	if cfg.Recommend.Mirror.Enabled {
		t.Error("Recommend.Mirror.Enabled should be false by default")
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"DUCKDB_QUERY_TIMEOUT", "database.query_timeout"},
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"AUTH_MODE", "security.auth_mode"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"MIN_VOTES", "recommend.min_votes"},
		{"RECALC_THRESHOLD", "recommend.recalc_threshold"},
		{"MODEL_PATH", "recommend.model_path"},
		{"PREDICTOR_MODE", "recommend.predictor.mode"},
		{"MODEL_MIRROR_BUCKET", "recommend.mirror.bucket"},
		{"min_votes", "recommend.min_votes"},

		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(path)

		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(custom, []byte("{}"), 0o600); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, custom)
		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH pointing nowhere falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

// TestLoadLayers checks that env overrides file and file overrides defaults.
func TestLoadLayers(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	yamlBody := `
database:
  path: /tmp/from-file.duckdb
recommend:
  min_votes: 5
  recalc_threshold: 0.25
security:
  cors_origins:
    - https://a.example
`
	path := filepath.Join(tmpDir, "restspot.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("MIN_VOTES", "7")
	t.Setenv("RECOMMEND_TRAIN_INTERVAL", "6h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/from-file.duckdb" {
		t.Errorf("Database.Path = %q, want value from file", cfg.Database.Path)
	}
	if cfg.Recommend.MinVotes != 7 {
		t.Errorf("Recommend.MinVotes = %d, want env override 7", cfg.Recommend.MinVotes)
	}
	if cfg.Recommend.RecalcThreshold != 0.25 {
		t.Errorf("Recommend.RecalcThreshold = %v, want 0.25", cfg.Recommend.RecalcThreshold)
	}
	if cfg.Recommend.TrainInterval != 6*time.Hour {
		t.Errorf("Recommend.TrainInterval = %v, want 6h", cfg.Recommend.TrainInterval)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}

// TestLoadCommaSeparatedOrigins verifies slice post-processing of env values.
func TestLoadCommaSeparatedOrigins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for short JWT secret")
	}
}
