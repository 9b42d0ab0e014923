// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default file names inside the data directory.
const (
	DefaultNetflixFile    = "netflix_titles.csv"
	DefaultDisneyFile     = "disney_plus_titles.csv"
	DefaultAmazonFile     = "amazon_prime_titles.csv"
	DefaultGenreMapFile   = "generos_map.json"
	DefaultStylesheetFile = "style.css"
)

// Builtin selects the embedded genre map or stylesheet instead of a file.
const Builtin = "builtin"

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
	Assets    AssetsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds the locations of the static inputs.
type DataConfig struct {
	Dir          string
	NetflixPath  string
	DisneyPath   string
	AmazonPath   string
	GenreMapPath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string
}

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AssetsConfig holds stylesheet and chart script configuration.
type AssetsConfig struct {
	StylesheetPath string
	// Host serving the echarts scripts. Empty means the go-echarts default CDN.
	Host string
	// Watch reloads the stylesheet when it changes on disk.
	Watch bool
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("streamdash", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Data flags
	dataDir := fs.String("data-dir", "", "Directory holding the catalog files (default: ./data)")
	netflixPath := fs.String("netflix", "", "Path to the Netflix catalog CSV")
	disneyPath := fs.String("disney", "", "Path to the Disney+ catalog CSV")
	amazonPath := fs.String("amazon", "", "Path to the Amazon Prime catalog CSV")
	genreMapPath := fs.String("genre-map", "", "Path to the genre mapping file (.json, .yaml) or \"builtin\"")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated list of allowed CORS origins (default: *)")
	rateRPS := fs.String("rate-limit-rps", "", "Requests per second per client (default: 20)")
	rateBurst := fs.String("rate-limit-burst", "", "Burst size per client (default: 40)")

	// Asset flags
	stylesheetPath := fs.String("stylesheet", "", "Path to the dashboard stylesheet or \"builtin\"")
	assetsHost := fs.String("assets-host", "", "Host serving the echarts scripts")
	watchAssets := fs.String("watch-assets", "", "Reload the stylesheet on change (default: true in development)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	environment := getConfigValue(*env, "ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Environment: environment,
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Dir:          getConfigValue(*dataDir, "DATA_DIR", "data"),
			NetflixPath:  getConfigValue(*netflixPath, "NETFLIX_PATH", ""),
			DisneyPath:   getConfigValue(*disneyPath, "DISNEY_PATH", ""),
			AmazonPath:   getConfigValue(*amazonPath, "AMAZON_PATH", ""),
			GenreMapPath: getConfigValue(*genreMapPath, "GENRE_MAP_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatConfigValue(*rateRPS, "RATE_LIMIT_RPS", 20),
			Burst: getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 40),
		},
		Assets: AssetsConfig{
			StylesheetPath: getConfigValue(*stylesheetPath, "STYLESHEET_PATH", ""),
			Host:           getConfigValue(*assetsHost, "ASSETS_HOST", ""),
			Watch:          getBoolConfigValue(*watchAssets, "WATCH_ASSETS", environment == "development"),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	for name, path := range map[string]string{
		"netflix":    c.Data.NetflixPath,
		"disney":     c.Data.DisneyPath,
		"amazon":     c.Data.AmazonPath,
		"genre map":  c.Data.GenreMapPath,
		"stylesheet": c.Assets.StylesheetPath,
	} {
		if path == "" {
			return fmt.Errorf("%s path cannot be empty after expansion", name)
		}
	}

	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("invalid rate limit: %v (must be positive)", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid rate limit burst: %d (must be at least 1)", c.RateLimit.Burst)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		path = defaultPath
	}
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPaths resolves the data directory and fills every unset input
// path with its fixed name inside it.
func (c *Config) expandDataPaths() error {
	dir, err := expandPath(c.Data.Dir, "data")
	if err != nil {
		return err
	}
	c.Data.Dir = dir

	targets := []struct {
		path *string
		name string
	}{
		{&c.Data.NetflixPath, DefaultNetflixFile},
		{&c.Data.DisneyPath, DefaultDisneyFile},
		{&c.Data.AmazonPath, DefaultAmazonFile},
		{&c.Data.GenreMapPath, DefaultGenreMapFile},
		{&c.Assets.StylesheetPath, DefaultStylesheetFile},
	}
	for _, t := range targets {
		if *t.path == Builtin {
			continue
		}
		expanded, err := expandPath(*t.path, filepath.Join(dir, t.name))
		if err != nil {
			return err
		}
		*t.path = expanded
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
