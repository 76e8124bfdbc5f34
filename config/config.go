// config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var ErrMissingDatabaseURL = errors.New("NOTES_DATABASE_URL is not defined in environment")

type Config struct {
	DatabaseURL  string
	DatabaseName string
	Port         string
	StaticDir    string
	AutoMigrate  bool
	LogLevel     zerolog.Level
	LogFormat    string
}

// Load reads the optional env files and then the process environment.
// Values already present in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("NOTES_DATABASE_URL")),
		DatabaseName: getenv("NOTES_DATABASE_NAME", "notesdb"),
		Port:         getenv("NOTES_PORT", "3000"),
		StaticDir:    getenv("NOTES_STATIC_DIR", "public"),
		LogFormat:    strings.ToLower(getenv("NOTES_LOG_FORMAT", "json")),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	autoMigrate, err := strconv.ParseBool(getenv("NOTES_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTES_AUTO_MIGRATE: %w", err)
	}
	cfg.AutoMigrate = autoMigrate

	level, err := zerolog.ParseLevel(strings.ToLower(getenv("NOTES_LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTES_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return nil, fmt.Errorf("invalid NOTES_LOG_FORMAT %q: want json or console", cfg.LogFormat)
	}

	return cfg, nil
}

func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
