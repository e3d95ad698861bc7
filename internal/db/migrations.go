package db

import (
	"database/sql"
	"fmt"
)

// sqliteMigrations is an ordered list of SQL statements to run against SQLite.
var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		content    TEXT    NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_created_at ON comments (created_at)`,
}

// mysqlMigrations mirrors sqliteMigrations for MySQL.
var mysqlMigrations = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGINT   NOT NULL AUTO_INCREMENT PRIMARY KEY,
		content    TEXT     NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_comments_created_at (created_at)
	) CHARACTER SET utf8mb4`,
}

// migrate runs all migrations in order. Every statement is idempotent.
func migrate(db *sql.DB, migrations []string) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
