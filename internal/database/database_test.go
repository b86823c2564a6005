package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithecoder/SocialM-sub001/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestOpen(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		db, err := Open(sqliteConfig(t))
		require.NoError(t, err)
		defer db.Close()

		for _, table := range []string{"users", "activity_log", "schema_migrations"} {
			var name string
			err := db.QueryRow(
				"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
			).Scan(&name)
			assert.NoError(t, err, "table %s should exist", table)
		}
	})

	t.Run("UnsupportedDriver", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Database.Driver = "oracle"
		_, err := Open(cfg)
		assert.Error(t, err)
	})

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		cfg := sqliteConfig(t)

		db, err := Open(cfg)
		require.NoError(t, err)
		db.Close()

		// Reopening the same file must not reapply migrations.
		db, err = Open(cfg)
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, len(GetMigrations("sqlite")), count)
	})
}

func TestGetMigrations(t *testing.T) {
	pg := GetMigrations("postgres")
	lite := GetMigrations("sqlite")

	assert.Equal(t, len(pg), len(lite), "both drivers should carry the same migration set")
	for i := range pg {
		assert.Equal(t, pg[i].Version, lite[i].Version)
	}
}
