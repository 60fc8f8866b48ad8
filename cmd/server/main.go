package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dragondice/companion-server-go/internal/config"
	"github.com/dragondice/companion-server-go/internal/game"
	"github.com/dragondice/companion-server-go/internal/repository"
	"github.com/dragondice/companion-server-go/internal/server"
	"github.com/dragondice/companion-server-go/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting companion server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Persistence is optional: without a DSN the game runs memory-only and
	// save/load requests are declined.
	var saves *repository.SaveRepository
	if cfg.Database.DSN != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()

		saves = repository.NewSaveRepository(db)
		if schemaErr := saves.EnsureSchema(ctx); schemaErr != nil {
			logger.Fatal("failed to prepare saves schema", zap.Error(schemaErr))
		}
		logger.Info("save persistence enabled")
	} else {
		logger.Warn("no database configured; save/load disabled")
	}

	sessionMgr := session.NewManager(cfg.Server.LeasePeriod, logger)
	logger.Info("session manager initialized",
		zap.Duration("lease_period", cfg.Server.LeasePeriod),
	)
	go sessionMgr.CleanupExpiredSessions(ctx)

	engine := game.NewEngine(cfg.Game.PlayerNames, logger)
	logger.Info("game engine initialized",
		zap.Strings("players", cfg.Game.PlayerNames),
	)

	hub := server.NewHub(engine, sessionMgr, saves, server.HubOptions{
		MaxSessions: cfg.Server.MaxSessions,
		AutoSave:    cfg.Game.AutoSave,
	}, logger)
	wsServer := server.NewWebSocketServer(cfg.Server.WebSocket, hub, logger)

	go func() {
		if serveErr := wsServer.ListenAndServe(); serveErr != nil {
			logger.Error("websocket server error", zap.Error(serveErr))
		}
	}()

	logger.Info("companion server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("websocket shutdown error", zap.Error(err))
	}
	sessionMgr.CloseAll()

	logger.Info("companion server stopped")
}

// initLogger builds the zap logger from the logging configuration. Config
// validation has already constrained the level names.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
