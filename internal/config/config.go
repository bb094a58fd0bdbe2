package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by both binaries.
const (
	EnvJournalURL  = "JOURNAL_API_URL"
	EnvRecipeURL   = "RECIPE_API_URL"
	EnvTaskURL     = "TASK_API_URL"
	EnvHTTPTimeout = "LISTSYNC_HTTP_TIMEOUT"
	EnvPort        = "PORT"
	EnvResources   = "MOCKAPI_RESOURCES"
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultPort        = 8080
)

// DefaultResources are the collections the stub server exposes when
// MOCKAPI_RESOURCES is unset.
var DefaultResources = []string{"journal", "recipes", "tasks"}

// ErrMissingURL is returned when an app's collection URL is not configured.
var ErrMissingURL = errors.New("collection URL not configured")

// App names one of the list front ends.
type App string

const (
	AppJournal App = "journal"
	AppRecipe  App = "recipe"
	AppTask    App = "task"
)

// Config holds client-side settings.
type Config struct {
	JournalURL  string
	RecipeURL   string
	TaskURL     string
	HTTPTimeout time.Duration
}

// ServerConfig holds stub server settings.
type ServerConfig struct {
	Port      int
	Resources []string
}

// LoadEnvFile loads an explicit .env file. Values already present in the
// environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the client configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		JournalURL:  strings.TrimSpace(os.Getenv(EnvJournalURL)),
		RecipeURL:   strings.TrimSpace(os.Getenv(EnvRecipeURL)),
		TaskURL:     strings.TrimSpace(os.Getenv(EnvTaskURL)),
		HTTPTimeout: DefaultHTTPTimeout,
	}

	if raw := strings.TrimSpace(os.Getenv(EnvHTTPTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvHTTPTimeout, raw, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be positive", EnvHTTPTimeout, raw)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// BaseURL returns the collection URL configured for app.
func (c Config) BaseURL(app App) (string, error) {
	var url, env string
	switch app {
	case AppJournal:
		url, env = c.JournalURL, EnvJournalURL
	case AppRecipe:
		url, env = c.RecipeURL, EnvRecipeURL
	case AppTask:
		url, env = c.TaskURL, EnvTaskURL
	default:
		return "", fmt.Errorf("unknown app %q", app)
	}
	if url == "" {
		return "", fmt.Errorf("%w: set %s", ErrMissingURL, env)
	}
	return url, nil
}

// LoadServer reads the stub server configuration from the environment.
// An unusable PORT falls back to the default with a warning.
func LoadServer() ServerConfig {
	cfg := ServerConfig{Port: DefaultPort, Resources: DefaultResources}

	if portStr := os.Getenv(EnvPort); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			slog.Warn("invalid PORT, using default", "value", portStr, "default", DefaultPort)
		} else {
			cfg.Port = port
		}
	}

	if raw := os.Getenv(EnvResources); raw != "" {
		var resources []string
		for _, r := range strings.Split(raw, ",") {
			if r = strings.Trim(strings.TrimSpace(r), "/"); r != "" {
				resources = append(resources, r)
			}
		}
		if len(resources) > 0 {
			cfg.Resources = resources
		}
	}

	return cfg
}
