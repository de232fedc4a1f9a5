package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	API   APIConfig
	App   AppConfig
	Slack SlackConfig
}

// APIConfig holds the two store endpoints
type APIConfig struct {
	URL     string // canonical record store
	AuthURL string // auxiliary store: users, pending requests, daily totals
}

// AppConfig holds local settings
type AppConfig struct {
	DBPath   string
	LogLevel string
	LogFile  string
}

type SlackConfig struct {
	BotToken        string
	ReminderChannel string
}

// Load reads .env files when present, then the environment
func Load() (*Config, error) {
	for _, path := range envFiles() {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	apiURL := getEnv("PUNCH_API_URL", "")
	config := &Config{
		API: APIConfig{
			URL:     apiURL,
			AuthURL: getEnv("PUNCH_AUTH_URL", apiURL),
		},
		App: AppConfig{
			DBPath:   getEnv("PUNCH_DB_PATH", defaultDBPath()),
			LogLevel: getEnv("PUNCH_LOG_LEVEL", "warn"),
			LogFile:  getEnv("PUNCH_LOG_FILE", ""),
		},
		Slack: SlackConfig{
			BotToken:        getEnv("SLACK_BOT_TOKEN", ""),
			ReminderChannel: getEnv("SLACK_REMINDER_CHANNEL", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("PUNCH_API_URL is required")
	}
	if err := checkURL("PUNCH_API_URL", c.API.URL); err != nil {
		return err
	}
	if err := checkURL("PUNCH_AUTH_URL", c.API.AuthURL); err != nil {
		return err
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("PUNCH_LOG_LEVEL must be one of debug, info, warn, error")
	}
	return nil
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}

func envFiles() []string {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".punch", ".env"))
	}
	return files
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "punch.db"
	}
	return filepath.Join(home, ".punch", "punch.db")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
