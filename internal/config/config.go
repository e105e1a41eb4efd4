// Package config loads client settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/naveenspark/webook/pkg/client"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full client configuration.
type Config struct {
	// Origin is what same-origin resource groups resolve against.
	Origin  string
	Posts   GroupConfig
	Users   GroupConfig
	Session SessionConfig
	Log     LogConfig
	// HTTPTimeout bounds a whole request, body included.
	HTTPTimeout time.Duration
}

// GroupConfig is the transport of one resource group.
type GroupConfig struct {
	BaseURL     string // empty = same origin
	Credentials client.CredentialsMode
}

type SessionConfig struct {
	Backend     string
	Path        string // file and sqlite backends
	RedisAddr   string
	RedisPrefix string
}

type LogConfig struct {
	Level string // debug, info, warn, error
	File  string // "-" logs to stderr
}

// Load reads .env from the working directory if present, then the
// environment. Unset variables take their defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// userHomeDir is replaced in tests.
var userHomeDir = os.UserHomeDir

// FromEnv builds a Config from a lookup function. The home directory is
// only consulted for paths left unset.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	// pathOr returns key's value, or name under ~/.webook when unset.
	pathOr := func(key, name string) (string, error) {
		if v := get(key, ""); v != "" {
			return v, nil
		}
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: %s unset and no home dir: %w", key, err)
		}
		return filepath.Join(home, ".webook", name), nil
	}

	cfg := &Config{
		Origin: get("WEBOOK_ORIGIN", "http://localhost:3000"),
		Posts:  GroupConfig{BaseURL: getenv("WEBOOK_POSTS_URL")},
		Users:  GroupConfig{BaseURL: get("WEBOOK_USERS_URL", "http://localhost:8080")},
		Session: SessionConfig{
			Backend:     get("WEBOOK_SESSION_BACKEND", BackendFile),
			RedisAddr:   get("WEBOOK_REDIS_ADDR", "localhost:6379"),
			RedisPrefix: get("WEBOOK_REDIS_PREFIX", "webook:session"),
		},
		Log: LogConfig{
			Level: get("WEBOOK_LOG_LEVEL", "info"),
		},
	}
	cfg.Posts.BaseURL = strings.TrimSpace(cfg.Posts.BaseURL)

	var err error
	if cfg.Log.File, err = pathOr("WEBOOK_LOG_FILE", "webook.log"); err != nil {
		return nil, err
	}

	if cfg.Posts.Credentials, err = client.ParseCredentialsMode(get("WEBOOK_POSTS_CREDENTIALS", "token")); err != nil {
		return nil, fmt.Errorf("config: WEBOOK_POSTS_CREDENTIALS: %w", err)
	}
	if cfg.Users.Credentials, err = client.ParseCredentialsMode(get("WEBOOK_USERS_CREDENTIALS", "both")); err != nil {
		return nil, fmt.Errorf("config: WEBOOK_USERS_CREDENTIALS: %w", err)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(get("WEBOOK_HTTP_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("config: WEBOOK_HTTP_TIMEOUT: %w", err)
	}
	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("config: WEBOOK_HTTP_TIMEOUT: must not be negative")
	}

	switch cfg.Session.Backend {
	case BackendFile:
		if cfg.Session.Path, err = pathOr("WEBOOK_SESSION_PATH", "session.json"); err != nil {
			return nil, err
		}
	case BackendSQLite:
		if cfg.Session.Path, err = pathOr("WEBOOK_SESSION_PATH", "session.db"); err != nil {
			return nil, err
		}
	case BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("config: WEBOOK_SESSION_BACKEND: unknown backend %q", cfg.Session.Backend)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("config: WEBOOK_LOG_LEVEL: unknown level %q", cfg.Log.Level)
	}
	return cfg, nil
}
