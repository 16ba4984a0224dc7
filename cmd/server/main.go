package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/autopilot"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/config"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/dataset"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/mcp"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	bootLogger := logrus.New()
	bootLogger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.New()
	if err != nil {
		bootLogger.WithError(err).Fatal("Failed to load configuration")
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		bootLogger.WithError(err).Fatal("Failed to configure logging")
	}
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leagueStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open league store")
	}
	defer closeStore()

	profiles, profilesPath, err := config.LoadScoringProfiles(cfg.ProfilesPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load scoring profiles")
	}
	logger.WithFields(logrus.Fields{
		"path":     profilesPath,
		"profiles": len(profiles.List()),
		"default":  profiles.DefaultKey(),
	}).Info("Loaded scoring profiles")

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	data := dataset.NewFiles(cfg.GameLogsPath, cfg.SchedulePath, logger)
	engine := league.NewEngine(profiles, data, logger, league.WithRand(rand.New(rand.NewSource(seed))))
	service := league.NewService(engine, leagueStore, logger, league.WithProfileSink(config.ProfileSaver(profilesPath)))

	if len(cfg.AutopilotLeagues) > 0 {
		pilot, err := autopilot.New(service, cfg.AutopilotLeagues, cfg.AutopilotInterval, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create autopilot")
		}
		if err := pilot.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start autopilot")
		}
		defer pilot.Stop()
	}

	mcpServer := mcp.NewLeagueMCPServer(service, logger)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.WithFields(logrus.Fields{
		"store":     cfg.Store,
		"game_logs": cfg.GameLogsPath,
		"schedule":  cfg.SchedulePath,
	}).Info("Starting Fantasy Hoops League MCP Server...")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(mcpServer)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("Server failed")
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}
}

// openStore builds the configured league store and its cleanup function
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (league.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemoryStore(), func() {}, nil
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(ctx, cfg.SQLiteDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		s, err := store.NewFileStore(cfg.LeaguesDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
