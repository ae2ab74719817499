package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func LoadEnvFiles() error {
	envPaths := []string{
		"./.env",
	}

	if home, err := os.UserHomeDir(); err == nil {
		envPaths = append(envPaths,
			filepath.Join(home, ".pulsetrack", ".env"),
			filepath.Join(home, ".config", "pulsetrack", ".env"),
		)
	}

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			if err := loadEnvFile(path); err != nil {
				return err
			}
		}
	}

	return nil
}

func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Real environment always wins over .env files
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}

// loadEnvOverrides loads specific env vars that Viper doesn't handle well
func loadEnvOverrides(cfg *Config) {
	getEnv := func(key, fallback string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return fallback
	}

	cfg.Server.Address = getEnv("PULSETRACK_SERVER_ADDRESS", cfg.Server.Address)
	if port := os.Getenv("PULSETRACK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	cfg.Storage.DataDir = getEnv("PULSETRACK_STORAGE_DATA_DIR", cfg.Storage.DataDir)

	cfg.Security.JWTSecret = getEnv("PULSETRACK_SECURITY_JWT_SECRET", cfg.Security.JWTSecret)

	cfg.Dashboard.WeekStart = getEnv("PULSETRACK_DASHBOARD_WEEK_START", cfg.Dashboard.WeekStart)
}
