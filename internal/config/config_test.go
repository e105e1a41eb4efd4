package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/webook/pkg/client"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Origin)
	assert.Empty(t, cfg.Posts.BaseURL, "posts default to same-origin")
	assert.Equal(t, client.CredentialsToken, cfg.Posts.Credentials)
	assert.Equal(t, "http://localhost:8080", cfg.Users.BaseURL)
	assert.Equal(t, client.CredentialsBoth, cfg.Users.Credentials)
	assert.Equal(t, BackendFile, cfg.Session.Backend)
	assert.Equal(t, "session.json", filepath.Base(cfg.Session.Path))
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"WEBOOK_POSTS_URL":         "http://posts.internal:9000",
		"WEBOOK_POSTS_CREDENTIALS": "cookie",
		"WEBOOK_USERS_CREDENTIALS": "token",
		"WEBOOK_SESSION_BACKEND":   "sqlite",
		"WEBOOK_SESSION_PATH":      "/tmp/s.db",
		"WEBOOK_LOG_LEVEL":         "debug",
		"WEBOOK_HTTP_TIMEOUT":      "5s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://posts.internal:9000", cfg.Posts.BaseURL)
	assert.Equal(t, client.CredentialsCookie, cfg.Posts.Credentials)
	assert.Equal(t, client.CredentialsToken, cfg.Users.Credentials)
	assert.Equal(t, BackendSQLite, cfg.Session.Backend)
	assert.Equal(t, "/tmp/s.db", cfg.Session.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestFromEnvSQLiteDefaultPath(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"WEBOOK_SESSION_BACKEND": "sqlite"}))
	require.NoError(t, err)
	assert.Equal(t, "session.db", filepath.Base(cfg.Session.Path))
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"WEBOOK_POSTS_CREDENTIALS", "bearer"},
		{"WEBOOK_USERS_CREDENTIALS", "none"},
		{"WEBOOK_HTTP_TIMEOUT", "soon"},
		{"WEBOOK_HTTP_TIMEOUT", "-1s"},
		{"WEBOOK_SESSION_BACKEND", "etcd"},
		{"WEBOOK_LOG_LEVEL", "trace"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := FromEnv(envOf(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.key), "error %q should name %s", err, tt.key)
		})
	}
}

func TestFromEnvHomeOnlyForUnsetPaths(t *testing.T) {
	orig := userHomeDir
	userHomeDir = func() (string, error) { return "", errors.New("$HOME is not defined") }
	t.Cleanup(func() { userHomeDir = orig })

	cfg, err := FromEnv(envOf(map[string]string{
		"WEBOOK_SESSION_PATH": "/tmp/s.json",
		"WEBOOK_LOG_FILE":     "-",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.json", cfg.Session.Path)
	assert.Equal(t, "-", cfg.Log.File)

	cfg, err = FromEnv(envOf(map[string]string{
		"WEBOOK_SESSION_BACKEND": BackendRedis,
		"WEBOOK_LOG_FILE":        "-",
	}))
	require.NoError(t, err)
	assert.Empty(t, cfg.Session.Path)

	_, err = FromEnv(envOf(map[string]string{"WEBOOK_LOG_FILE": "-"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBOOK_SESSION_PATH")
}
