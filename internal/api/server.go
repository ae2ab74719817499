package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gmsas95/pulsetrack/internal/config"
	"github.com/gmsas95/pulsetrack/internal/dashboard"
	"github.com/gmsas95/pulsetrack/internal/session"
)

// Server exposes the dashboard repository over a local HTTP API
type Server struct {
	app      *fiber.App
	config   *config.Config
	repo     *dashboard.Repository
	sessions *session.Manager
	logger   *zap.Logger
	aggOpts  dashboard.AggregateOptions
}

// New creates a new API server
func New(cfg *config.Config, repo *dashboard.Repository, sessions *session.Manager, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:      app,
		config:   cfg,
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		aggOpts: dashboard.AggregateOptions{
			ChartPoints: cfg.Dashboard.ChartPoints,
			HistorySize: cfg.Dashboard.HistorySize,
			WeekStart:   weekStart(cfg.Dashboard.WeekStart),
		},
	}

	s.setupRoutes()
	return s
}

func weekStart(name string) time.Weekday {
	if strings.EqualFold(name, "monday") {
		return time.Monday
	}
	return time.Sunday
}

// App returns the fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}
