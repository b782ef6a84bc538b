package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cesargomez89/tajikquran/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port               string
	DatabaseURL        string
	DBPath             string
	MaxOpenConns       int
	LogLevel           string
	LogFormat          string
	SearchMode         string
	SearchLimit        int
	AlQuranURL         string
	AlQuranAPIKey      string
	AudioEdition       string
	CacheTTL           time.Duration
	CachePurgeInterval time.Duration
	CORSAllowedOrigins []string
}

// envKeys maps viper keys to the environment variables they are read from.
var envKeys = map[string]string{
	"port":                 "PORT",
	"database_url":         "DATABASE_URL",
	"db_path":              "DB_PATH",
	"db_max_open_conns":    "DB_MAX_OPEN_CONNS",
	"log_level":            "LOG_LEVEL",
	"log_format":           "LOG_FORMAT",
	"search_mode":          "SEARCH_MODE",
	"search_limit":         "SEARCH_LIMIT",
	"alquran_api_url":      "ALQURAN_API_URL",
	"alquran_api_key":      "ALQURAN_API_KEY",
	"alquran_audio":        "ALQURAN_AUDIO_EDITION",
	"upstream_cache_ttl":   "UPSTREAM_CACHE_TTL",
	"cache_purge_interval": "CACHE_PURGE_INTERVAL",
	"cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
}

// LoadDotEnv loads variables from the given .env files (".env" when none given).
// Missing files are not an error; variables already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	v := viper.New()

	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("database_url", "")
	v.SetDefault("db_path", constants.DefaultDBPath)
	v.SetDefault("db_max_open_conns", constants.DefaultMaxOpenConns)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("search_mode", constants.SearchModeBasic)
	v.SetDefault("search_limit", constants.DefaultSearchLimit)
	v.SetDefault("alquran_api_url", constants.DefaultAlQuranURL)
	v.SetDefault("alquran_api_key", "")
	v.SetDefault("alquran_audio", constants.DefaultAudioEdition)
	v.SetDefault("upstream_cache_ttl", constants.DefaultCacheTTL)
	v.SetDefault("cache_purge_interval", constants.DefaultCachePurgeInterval)
	v.SetDefault("cors_allowed_origins", constants.DefaultCORSOrigin)

	for key, env := range envKeys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key, env)
	}

	return &Config{
		Port:               v.GetString("port"),
		DatabaseURL:        v.GetString("database_url"),
		DBPath:             v.GetString("db_path"),
		MaxOpenConns:       v.GetInt("db_max_open_conns"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		SearchMode:         v.GetString("search_mode"),
		SearchLimit:        v.GetInt("search_limit"),
		AlQuranURL:         v.GetString("alquran_api_url"),
		AlQuranAPIKey:      v.GetString("alquran_api_key"),
		AudioEdition:       v.GetString("alquran_audio"),
		CacheTTL:           v.GetDuration("upstream_cache_ttl"),
		CachePurgeInterval: v.GetDuration("cache_purge_interval"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}
}

// Driver returns the database driver name and DSN to open.
// A postgres:// DATABASE_URL takes precedence over the SQLite file.
func (c *Config) Driver() (string, string) {
	if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return constants.DriverPostgres, c.DatabaseURL
	}
	return constants.DriverSQLite, c.DBPath
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DatabaseURL != "" {
		if driver, _ := c.Driver(); driver != constants.DriverPostgres {
			errors = append(errors, "DATABASE_URL must start with postgres:// or postgresql://")
		}
	} else if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty when DATABASE_URL is not set")
	}

	if c.MaxOpenConns < 1 {
		errors = append(errors, fmt.Sprintf("DB_MAX_OPEN_CONNS must be at least 1, got: %d", c.MaxOpenConns))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.SearchMode != constants.SearchModeBasic && c.SearchMode != constants.SearchModeRanked {
		errors = append(errors, fmt.Sprintf("SEARCH_MODE must be one of: basic, ranked, got: %s", c.SearchMode))
	}

	if c.SearchLimit < 1 || c.SearchLimit > constants.MaxSearchLimit {
		errors = append(errors, fmt.Sprintf("SEARCH_LIMIT must be between 1 and %d, got: %d", constants.MaxSearchLimit, c.SearchLimit))
	}

	if c.AlQuranURL == "" {
		errors = append(errors, "ALQURAN_API_URL cannot be empty")
	} else if u, err := url.ParseRequestURI(c.AlQuranURL); err != nil || u.Host == "" {
		errors = append(errors, fmt.Sprintf("ALQURAN_API_URL is not a valid URL: %s", c.AlQuranURL))
	}

	if c.AudioEdition == "" {
		errors = append(errors, "ALQURAN_AUDIO_EDITION cannot be empty")
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("UPSTREAM_CACHE_TTL cannot be negative, got: %s", c.CacheTTL))
	}

	if c.CachePurgeInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("CACHE_PURGE_INTERVAL must be at least 1m, got: %s", c.CachePurgeInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// splitList splits a comma separated env value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
