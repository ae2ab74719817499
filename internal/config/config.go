package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for PulseTrack
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Security  SecurityConfig  `mapstructure:"security"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	BadgerPath string `mapstructure:"badger_path"`
}

// SecurityConfig holds auth and CORS settings
type SecurityConfig struct {
	JWTSecret       string   `mapstructure:"jwt_secret"`
	AllowOrigins    []string `mapstructure:"allow_origins"`
	SessionTTLHours int      `mapstructure:"session_ttl_hours"`
}

// DashboardConfig holds tuning knobs for the derived views
type DashboardConfig struct {
	// ChartPoints caps the raw points shown in the today window.
	ChartPoints int `mapstructure:"chart_points"`
	// HistorySize is the number of recent readings in the detail list.
	HistorySize int `mapstructure:"history_size"`
	// WeekStart is the first day of a monthly bucket week (sunday or monday).
	WeekStart string `mapstructure:"week_start"`
}

// Load loads configuration from file, env, and defaults
func Load(configPath, dataDir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if dataDir == "" {
		dataDir = getDefaultDataDir()
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	v.Set("storage.data_dir", dataDir)
	v.Set("storage.sqlite_path", filepath.Join(dataDir, "pulsetrack.db"))
	v.Set("storage.badger_path", filepath.Join(dataDir, "badger"))

	if configPath == "" {
		configPath = filepath.Join(dataDir, "pulsetrack.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Environment variables (PULSETRACK_SERVER_PORT, PULSETRACK_DASHBOARD_WEEK_START, etc.)
	v.SetEnvPrefix("PULSETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("security.allow_origins", []string{"*"})
	v.SetDefault("security.session_ttl_hours", 168)

	v.SetDefault("dashboard.chart_points", 10)
	v.SetDefault("dashboard.history_size", 5)
	v.SetDefault("dashboard.week_start", "sunday")
}

func getDefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pulsetrack")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}

	return filepath.Join(home, ".local", "share", "pulsetrack")
}

func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Dashboard.WeekStart) {
	case "sunday", "monday":
	default:
		return fmt.Errorf("dashboard.week_start must be sunday or monday, got %q", cfg.Dashboard.WeekStart)
	}

	if cfg.Dashboard.ChartPoints <= 0 {
		return fmt.Errorf("dashboard.chart_points must be positive")
	}
	if cfg.Dashboard.HistorySize <= 0 {
		return fmt.Errorf("dashboard.history_size must be positive")
	}

	// Generate JWT secret if not provided
	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = generateRandomString(32)
	}

	return nil
}

func generateRandomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	rand.Read(b)
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return string(b)
}
