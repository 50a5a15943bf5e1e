package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Cache.TTLSeconds)
	assert.Equal(t, "local", cfg.Media.Backend)
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "blog.yaml")
	yml := []byte("cache:\n  backend: badger\n  ttl_seconds: 60\nlog:\n  format: console\n")
	require.NoError(t, os.WriteFile(path, yml, 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("DATABASE_URL", "postgres://blog@localhost/blog")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("PORT", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "badger", cfg.Cache.Backend)
	assert.Equal(t, 5, cfg.Cache.TTLSeconds)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://blog@localhost/blog", cfg.Database.DSN)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Media.Backend = "s3"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "S3Bucket")

	cfg = Default()
	cfg.Cache.Backend = "redis"
	assert.Error(t, cfg.Validate())
}

func TestValidateReleaseRejectsDefaultSecret(t *testing.T) {
	cfg := Default()
	cfg.Server.Mode = "release"
	assert.ErrorIs(t, cfg.Validate(), ErrDefaultJWTSecret)

	cfg.Auth.JWTSecret = "a-real-secret-from-the-environment"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigReleaseNeedsSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("SERVER_MODE", "release")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrDefaultJWTSecret)

	t.Setenv("JWT_SECRET", "a-real-secret-from-the-environment")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]string{
		"JWT_SECRET":        "auth.jwt_secret",
		"AWS_REGION":        "media.s3_region",
		"CACHE_TTL_SECONDS": "cache.ttl_seconds",
		"LOG_LEVEL":         "log.level",
		"HOME":              "",
		"UNKNOWN_THING":     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envTransform(in), in)
	}
}
