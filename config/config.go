/*
Package config loads server settings from the environment.

SOURCES (later wins):
  1. .env file in the working directory, if present
  2. Process environment
  3. Command-line flags in cmd/server

VARIABLES:
  PORT             HTTP port (default 8080)
  DB_DRIVER        sqlite | mysql (default sqlite)
  DB_PATH          SQLite file (default pettycash.db)
  DB_DSN           MySQL DSN, required when DB_DRIVER=mysql
  LOG_LEVEL        logrus level (default info)
  CORS_ORIGINS     comma-separated allowed origins
                   (default http://localhost:5173,http://localhost:8080)
  REPORT_LOCATION  IANA zone that decides "today" (default Asia/Jakarta)
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Port        int
	DBDriver    string
	DBPath      string
	DBDSN       string
	LogLevel    logrus.Level
	CORSOrigins []string
	Location    *time.Location
}

// Load reads .env (when present) and the environment, then validates.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DBDriver: strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		DBPath:   get("DB_PATH", "pettycash.db"),
		DBDSN:    get("DB_DSN", ""),
	}

	port, err := strconv.Atoi(get("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	cfg.LogLevel, err = logrus.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	cfg.Location, err = time.LoadLocation(get("REPORT_LOCATION", "Asia/Jakarta"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_LOCATION: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case DriverMySQL:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for mysql")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// NewLogger returns a JSON logger writing to stdout.
func NewLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)
	return logger
}
