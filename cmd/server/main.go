package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"costbook-backend/internal/config"
	"costbook-backend/internal/database"
	"costbook-backend/internal/logging"
	"costbook-backend/internal/receipt"
	"costbook-backend/internal/server"
	"costbook-backend/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("[FATAL] logger: %v", err)
	}
	defer logger.Sync()

	var st store.Store
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		st = store.NewMemory()
	default:
		db, err := database.Open(cfg, logger)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		st = store.NewGorm(db)
	}

	ctx := context.Background()

	var scanner receipt.Scanner
	if cfg.GeminiAPIKey != "" {
		gemini, err := receipt.NewGeminiScanner(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("receipt scanner", zap.Error(err))
		}
		defer gemini.Close()
		scanner = gemini
	} else {
		logger.Info("GEMINI_API_KEY not set, receipt scanning disabled")
	}

	app := server.New(server.Deps{
		Config:  cfg,
		Store:   st,
		Logger:  logger,
		Scanner: scanner,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.HTTPPort), zap.String("storage", cfg.StorageDriver))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
