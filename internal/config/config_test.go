package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
auth:
  jwtSecret: test-secret
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 8081, cfg.APIPort)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
		assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
		assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	})

	t.Run("ExplicitValues", func(t *testing.T) {
		path := writeConfigFile(t, `
apiPort: 9090
database:
  driver: sqlite
  path: /tmp/test.db
  queryTimeout: 2s
auth:
  jwtSecret: test-secret
  tokenDuration: 30m
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.APIPort)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
		assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
		assert.Equal(t, 30*time.Minute, cfg.Auth.TokenDuration)
	})

	t.Run("MissingJWTSecretFailsFast", func(t *testing.T) {
		path := writeConfigFile(t, `
apiPort: 8081
`)
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("EnvironmentOverride", func(t *testing.T) {
		path := writeConfigFile(t, `
auth:
  jwtSecret: file-secret
`)
		t.Setenv("AUTH_JWTSECRET", "env-secret")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	})

	t.Run("ArchiveRequiresBucket", func(t *testing.T) {
		path := writeConfigFile(t, `
auth:
  jwtSecret: test-secret
archive:
  enabled: true
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("MissingFileRequiresSecret", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("EnvironmentOnlyNoFile", func(t *testing.T) {
		t.Setenv("AUTH_JWTSECRET", "env-only-secret")
		t.Setenv("DATABASE_HOST", "db.internal")
		t.Setenv("DATABASE_PORT", "6432")
		t.Setenv("AUTH_TOKENDURATION", "45m")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.NoError(t, err)
		assert.Equal(t, "env-only-secret", cfg.Auth.JWTSecret)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 6432, cfg.Database.Port)
		assert.Equal(t, 45*time.Minute, cfg.Auth.TokenDuration)
	})
}
