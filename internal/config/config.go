package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config represents the process configuration read from HOOPS_* variables
type Config struct {
	Season       string `envconfig:"SEASON" default:"2024-25"`
	DataDir      string `envconfig:"DATA_DIR" default:"data"`
	GameLogsPath string `envconfig:"GAME_LOGS_PATH"`
	SchedulePath string `envconfig:"SCHEDULE_PATH"`
	ProfilesPath string `envconfig:"PROFILES_PATH"`

	Store      string `envconfig:"STORE" default:"file"`
	LeaguesDir string `envconfig:"LEAGUES_DIR"`
	SQLiteDSN  string `envconfig:"SQLITE_DSN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	AutopilotLeagues  []string      `envconfig:"AUTOPILOT_LEAGUES"`
	AutopilotInterval time.Duration `envconfig:"AUTOPILOT_INTERVAL" default:"1m"`

	Seed int64 `envconfig:"SEED"`
}

// New reads the configuration from the environment and fills derived paths
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("hoops", &c); err != nil {
		return nil, err
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) normalize() error {
	slug := strings.NewReplacer("-", "", "/", "").Replace(c.Season)
	if c.GameLogsPath == "" {
		c.GameLogsPath = filepath.Join(c.DataDir, fmt.Sprintf("player_game_logs_%s.csv", slug))
	}
	if c.SchedulePath == "" {
		c.SchedulePath = filepath.Join(c.DataDir, fmt.Sprintf("games_%s.csv", slug))
	}
	if c.LeaguesDir == "" {
		c.LeaguesDir = filepath.Join(c.DataDir, "leagues")
	}
	if c.SQLiteDSN == "" {
		c.SQLiteDSN = filepath.Join(c.DataDir, "leagues.db")
	}

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreMemory, StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unsupported store backend '%s' (want memory, file or sqlite)", c.Store)
	}
	if c.AutopilotInterval <= 0 {
		return fmt.Errorf("autopilot interval must be positive, got %s", c.AutopilotInterval)
	}
	return nil
}

// NewLogger builds the process logger. Output goes to stderr because stdout
// carries the MCP stdio transport.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(c.LogFormat) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format '%s'", c.LogFormat)
	}
	return logger, nil
}
