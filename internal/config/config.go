// Package config loads client settings from an optional YAML file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	Driver      string `yaml:"driver"`       // file | memory | redis | postgres
	Path        string `yaml:"path"`         // file driver
	Namespace   string `yaml:"namespace"`    // defaults to the API URL
	RedisURL    string `yaml:"redis_url"`    // redis://localhost:6379/0
	DatabaseURL string `yaml:"database_url"` // postgres://...
}

type Config struct {
	APIURL    string        `yaml:"api_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Storage   StorageConfig `yaml:"storage"`
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".eventdesk", "config.yaml")
}

func defaults() Config {
	return Config{
		APIURL:    "http://localhost:8080",
		Timeout:   15 * time.Second,
		UserAgent: "eventdesk",
		Storage: StorageConfig{
			Driver: "file",
			Path:   filepath.Join(homeDir(), ".eventdesk", "storage.json"),
		},
	}
}

// Load reads path (a missing file is fine unless explicit is set), then
// .env in the working directory, then EVENTDESK_* variables.
func Load(path string, explicit bool) (Config, error) {
	c := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c.APIURL = getenv("EVENTDESK_API_URL", c.APIURL)
	c.Timeout = getenvDuration("EVENTDESK_TIMEOUT", c.Timeout)
	c.UserAgent = getenv("EVENTDESK_USER_AGENT", c.UserAgent)
	c.Storage.Driver = getenv("EVENTDESK_STORAGE", c.Storage.Driver)
	c.Storage.Path = getenv("EVENTDESK_STORAGE_PATH", c.Storage.Path)
	c.Storage.Namespace = getenv("EVENTDESK_NAMESPACE", c.Storage.Namespace)
	c.Storage.RedisURL = getenv("REDIS_URL", c.Storage.RedisURL)
	c.Storage.DatabaseURL = getenv("DATABASE_URL", c.Storage.DatabaseURL)

	if c.Storage.Namespace == "" {
		c.Storage.Namespace = c.APIURL
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Storage.Driver {
	case "file", "memory", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
