package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sirupsen/logrus"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("HOOPS_DATA_DIR", "/tmp/hoops")

	cfg, err := New()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.GameLogsPath != filepath.Join("/tmp/hoops", "player_game_logs_202425.csv") {
		t.Errorf("Expected derived game log path, got %s", cfg.GameLogsPath)
	}
	if cfg.SchedulePath != filepath.Join("/tmp/hoops", "games_202425.csv") {
		t.Errorf("Expected derived schedule path, got %s", cfg.SchedulePath)
	}
	if cfg.Store != StoreFile {
		t.Errorf("Expected file store by default, got %s", cfg.Store)
	}
	if cfg.AutopilotInterval != time.Minute {
		t.Errorf("Expected 1m autopilot interval, got %s", cfg.AutopilotInterval)
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HOOPS_STORE", "SQLite")
	t.Setenv("HOOPS_SQLITE_DSN", "file::memory:")
	t.Setenv("HOOPS_AUTOPILOT_LEAGUES", "a,b")
	t.Setenv("HOOPS_AUTOPILOT_INTERVAL", "30s")
	t.Setenv("HOOPS_SEED", "42")

	cfg, err := New()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Store != StoreSQLite || cfg.SQLiteDSN != "file::memory:" {
		t.Errorf("Expected sqlite store at file::memory:, got %s at %s", cfg.Store, cfg.SQLiteDSN)
	}
	if len(cfg.AutopilotLeagues) != 2 || cfg.AutopilotLeagues[1] != "b" {
		t.Errorf("Expected autopilot leagues [a b], got %v", cfg.AutopilotLeagues)
	}
	if cfg.AutopilotInterval != 30*time.Second || cfg.Seed != 42 {
		t.Errorf("Unexpected interval %s or seed %d", cfg.AutopilotInterval, cfg.Seed)
	}
}

func TestNewRejectsUnknownStore(t *testing.T) {
	t.Setenv("HOOPS_STORE", "postgres")
	if _, err := New(); err == nil {
		t.Error("Expected error for unsupported store")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		expectErr bool
	}{
		{"text debug", "debug", "text", false},
		{"json warn", "warn", "json", false},
		{"bad level", "loud", "text", true},
		{"bad format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level, LogFormat: tt.format}
			logger, err := cfg.NewLogger()
			if tt.expectErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			expected, _ := logrus.ParseLevel(tt.level)
			if logger.GetLevel() != expected {
				t.Errorf("Expected level %s, got %s", expected, logger.GetLevel())
			}
		})
	}
}

func TestLoadScoringProfilesFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	registry, found, err := LoadScoringProfiles(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if found != path {
		t.Errorf("Expected save path %s, got %s", path, found)
	}
	if registry.DefaultKey() != scoring.PointsLeague || len(registry.List()) != 2 {
		t.Errorf("Expected built-in profiles, got default %s with %d profiles", registry.DefaultKey(), len(registry.List()))
	}
}

func TestScoringProfilesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profiles.json")

	registry := scoring.NewDefaultRegistry()
	if _, err := registry.Upsert("bigs", "Bigs", map[string]float64{"TREB": 2, "BLK": 4}, true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := ProfileSaver(path)(registry); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	loaded, _, err := LoadScoringProfiles(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded.DefaultKey() != "bigs" {
		t.Errorf("Expected default 'bigs', got '%s'", loaded.DefaultKey())
	}
	bigs, err := loaded.Resolve("bigs")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bigs.Weights["TREB"] != 2 || bigs.Weights["BLK"] != 4 {
		t.Errorf("Expected saved weights, got %v", bigs.Weights)
	}
	nine, err := loaded.Resolve(scoring.NineCategory)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(nine.Categories) != 9 {
		t.Errorf("Expected 9 categories to round-trip, got %d", len(nine.Categories))
	}
}

func TestLoadScoringProfilesInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		contents string
		contains string
	}{
		{"malformed", "{not json", "failed to parse"},
		{"unknown default", `{"profiles":{"a":{"name":"A","weights":{"PTS":1}}},"default":"b"}`, "invalid scoring profiles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.contents), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := LoadScoringProfiles(path)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing '%s', got %v", tt.contains, err)
			}
		})
	}
}
