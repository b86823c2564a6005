package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration is a single versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns the migration list for the given driver.
func GetMigrations(driver string) []Migration {
	if driver == "postgres" {
		return postgresMigrations()
	}
	return sqliteMigrations()
}

func postgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				username VARCHAR(255) UNIQUE NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				last_login TIMESTAMP WITH TIME ZONE
			)`,
		},
		{
			Version:     2,
			Description: "Create activity log table",
			SQL: `CREATE TABLE IF NOT EXISTS activity_log (
				id BIGSERIAL PRIMARY KEY,
				event_type VARCHAR(64) NOT NULL,
				username VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     3,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
				CREATE INDEX IF NOT EXISTS idx_activity_log_username ON activity_log(username);
				CREATE INDEX IF NOT EXISTS idx_activity_log_created_at ON activity_log(created_at)`,
		},
	}
}

func sqliteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				last_login DATETIME
			)`,
		},
		{
			Version:     2,
			Description: "Create activity log table",
			SQL: `CREATE TABLE IF NOT EXISTS activity_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				event_type TEXT NOT NULL,
				username TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		{
			Version:     3,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
				CREATE INDEX IF NOT EXISTS idx_activity_log_username ON activity_log(username);
				CREATE INDEX IF NOT EXISTS idx_activity_log_created_at ON activity_log(created_at)`,
		},
	}
}

// RunMigrations applies all pending migrations in order, tracking the applied
// versions in schema_migrations.
func RunMigrations(db *sql.DB, driver string) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	placeholder := "?, ?"
	if driver == "postgres" {
		placeholder = "$1, $2"
	}

	for _, m := range GetMigrations(driver) {
		if applied[m.Version] {
			continue
		}

		log.Printf("Applying migration %d: %s", m.Version, m.Description)
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := db.Exec(
			"INSERT INTO schema_migrations (version, description) VALUES ("+placeholder+")",
			m.Version, m.Description,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	return nil
}
