// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Server   ServerConfig
	Steam    SteamConfig
	Workshop WorkshopConfig
	Watch    WatchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds local data storage configuration.
type DataConfig struct {
	// BasePath is the directory for the history database and derived previews.
	BasePath string
}

// ServerConfig holds local API server configuration.
type ServerConfig struct {
	// Host the API binds to. Loopback only - the API is consumed by the
	// desktop shell on the same machine (default: 127.0.0.1).
	Host         string
	Port         string        // API port (default: 8130)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 10m, uploads are slow)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// SteamConfig holds Steam client initialization configuration.
type SteamConfig struct {
	// AppID is the fixed game title this tool publishes Workshop items for.
	// Defaults to the SDK sample app so development works without the game installed.
	AppID uint32
	// InitRetries is how many initialization attempts are made before the
	// client is reported unavailable (default: 3).
	InitRetries int
	// InitRetryDelay is the fixed delay between initialization attempts (default: 2s).
	InitRetryDelay time.Duration
	// AppIDFile is the marker file the SDK requires next to the binary
	// (default: steam_appid.txt in the working directory).
	AppIDFile string
	// LibraryPath overrides auto-detection of the Steamworks shared library.
	LibraryPath string
}

// WorkshopConfig holds Workshop upload policy configuration.
type WorkshopConfig struct {
	// RequireChangeNotes rejects content-bearing updates without change notes.
	// This is an application policy, not a platform constraint (default: true).
	RequireChangeNotes bool
}

// WatchConfig holds mod archive watching configuration.
type WatchConfig struct {
	// ArchivePath is an optional mod archive to watch for rebuilds.
	// When the archive changes, metadata is re-extracted and pushed to the UI.
	ArchivePath string
}

const defaultAppID = 480 // Spacewar, the Steamworks sample app

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local data storage")

	serverHost := flag.String("host", "", "API host (default: 127.0.0.1)")
	serverPort := flag.String("port", "", "API port (default: 8130)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 10m)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	appID := flag.String("app-id", "", "Steam app ID of the game (default: 480)")
	initRetries := flag.String("steam-init-retries", "", "Steam init attempts before giving up (default: 3)")
	initRetryDelay := flag.String("steam-init-retry-delay", "", "Delay between Steam init attempts (default: 2s)")
	appIDFile := flag.String("app-id-file", "", "Path of the steam_appid.txt marker file")
	steamLibrary := flag.String("steam-library", "", "Path to the Steamworks shared library (default: auto-detect)")

	requireChangeNotes := flag.String("require-change-notes", "", "Require change notes on content updates (default: true)")
	watchArchive := flag.String("watch-archive", "", "Mod archive to watch for rebuilds")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Host: getConfigValue(*serverHost, "SERVER_HOST", "127.0.0.1"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8130"),
		},
		Steam: SteamConfig{
			AppID:       uint32(getIntConfigValue(*appID, "STEAM_APP_ID", defaultAppID)), //#nosec G115 -- app IDs fit in uint32
			InitRetries: getIntConfigValue(*initRetries, "STEAM_INIT_RETRIES", 3),
			AppIDFile:   getConfigValue(*appIDFile, "STEAM_APP_ID_FILE", "steam_appid.txt"),
			LibraryPath: getConfigValue(*steamLibrary, "STEAM_LIBRARY_PATH", ""),
		},
		Workshop: WorkshopConfig{
			RequireChangeNotes: getBoolConfigValue(*requireChangeNotes, "REQUIRE_CHANGE_NOTES", true),
		},
		Watch: WatchConfig{
			ArchivePath: getConfigValue(*watchArchive, "WATCH_ARCHIVE", ""),
		},
	}

	// Parse durations.
	retryDelayStr := getConfigValue(*initRetryDelay, "STEAM_INIT_RETRY_DELAY", "2s")
	retryDelay, err := time.ParseDuration(retryDelayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid steam init retry delay %q: %w", retryDelayStr, err)
	}
	cfg.Steam.InitRetryDelay = retryDelay

	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	cfg.Server.ReadTimeout, err = time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}

	// Workshop submissions block until the platform finishes ingesting the
	// archive, which can take minutes for large mods.
	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "10m")
	cfg.Server.WriteTimeout, err = time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	cfg.Server.IdleTimeout, err = time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
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

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Steam.AppID == 0 {
		return errors.New("steam app ID cannot be zero")
	}

	if c.Steam.InitRetries < 1 {
		return fmt.Errorf("steam init retries must be at least 1, got %d", c.Steam.InitRetries)
	}

	return nil
}

// PreviewCachePath returns the directory for compressed preview images.
func (c *Config) PreviewCachePath() string {
	return filepath.Join(c.Data.BasePath, "previews")
}

// HistoryDBPath returns the path of the upload history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Data.BasePath, "history.db")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
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

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Modship", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
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
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
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

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
