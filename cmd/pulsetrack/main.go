package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gmsas95/pulsetrack/internal/api"
	"github.com/gmsas95/pulsetrack/internal/config"
	"github.com/gmsas95/pulsetrack/internal/dashboard"
	"github.com/gmsas95/pulsetrack/internal/session"
	"github.com/gmsas95/pulsetrack/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	version    = "dev"
)

func main() {
	flag.Parse()

	if len(flag.Args()) > 0 && (flag.Args()[0] == "version" || flag.Args()[0] == "--version") {
		fmt.Printf("PulseTrack version %s\n", version)
		return
	}

	if err := config.LoadEnvFiles(); err != nil {
		log.Printf("warning: failed to load env files: %v", err)
	}

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger()
	defer logger.Sync()

	st, err := store.New(cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	dashStore, err := dashboard.NewStore(st.DB())
	if err != nil {
		logger.Fatal("Failed to init dashboard store", zap.Error(err))
	}

	repo := dashboard.NewRepository(dashStore, logger, dashboard.RealClock{})

	sessions := session.NewManager(st, logger,
		time.Duration(cfg.Security.SessionTTLHours)*time.Hour)
	sessions.OnChange(func(userID string) {
		// Cached views must not outlive the user they belong to.
		logger.Info("Active user changed", zap.String("user_id", userID))
	})

	server := api.New(cfg, repo, sessions, logger)

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.Int("port", cfg.Server.Port),
		)
		if err := server.Start(); err != nil {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := server.Shutdown(); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	return logger
}
