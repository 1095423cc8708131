// Package config reads the service configuration from the environment.
//
// CORS_ALLOW_ORIGINS and ENABLE_PPROF are read by the router itself.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	// HTTP server
	APIURL  string
	Port    string
	GinMode string

	// Database
	DataDir        string
	DatabaseDriver string
	DatabaseDSN    string

	SessionTTL time.Duration

	// Assistant
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	// Events
	AMQPURL      string
	AMQPExchange string
}

func Load() *Config {
	return &Config{
		APIURL:  getEnv("API_URL", "http://localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		DataDir:        getEnv("DATA_DIR", "data"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),

		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEndpoint: getEnv("GEMINI_ENDPOINT", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fincontrol"),
	}
}

// SQLitePath is the database file used with the sqlite driver.
func (c *Config) SQLitePath() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	return filepath.Join(c.DataDir, "gorm.db")
}

// Validate returns all problems of the configuration as one error.
func (c *Config) Validate() error {
	var errors []string

	if u, err := url.Parse(c.APIURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': the scheme must be 'http' or 'https'", c.APIURL))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	drivers := []string{DriverSQLite, DriverPostgres}
	if !slices.Contains(drivers, c.DatabaseDriver) {
		errors = append(errors, fmt.Sprintf("invalid database driver '%s': must be one of %v", c.DatabaseDriver, drivers))
	}

	if c.DatabaseDriver == DriverSQLite && c.DatabaseDSN == "" {
		if err := os.MkdirAll(c.DataDir, 0o750); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	}

	if c.DatabaseDriver == DriverPostgres && c.DatabaseDSN == "" {
		errors = append(errors, "DATABASE_DSN is required when using the postgres driver")
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least one minute", c.SessionTTL))
	}

	if c.GeminiAPIKey != "" && c.GeminiModel == "" {
		errors = append(errors, "GEMINI_MODEL cannot be empty when GEMINI_API_KEY is set")
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
