package database

import (
	"database/sql"
	"embed"

	logg "agency/internal/logger"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type MigrationDirection string

const (
	MigrateUp   MigrationDirection = "up"
	MigrateDown MigrationDirection = "down"
)

func migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Dialect maps the configured driver onto the sql-migrate dialect name.
func Dialect(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies (or rolls back) the embedded schema migrations and returns how
// many ran.
func Migrate(db *sql.DB, dialect string, direction MigrationDirection) (int, error) {
	log := logg.New("database").Function("Migrate")

	dir := migrate.Up
	if direction == MigrateDown {
		dir = migrate.Down
	}

	applied, err := migrate.Exec(db, dialect, migrationSource(), dir)
	if err != nil {
		return applied, log.Err("failed to apply migrations", err, "direction", direction)
	}

	log.Info("Migrations applied", "count", applied, "direction", direction)
	return applied, nil
}

func (s *DB) Migrate(dialect string, direction MigrationDirection) (int, error) {
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, s.log.Function("Migrate").Err("failed to get database from GORM", err)
	}
	return Migrate(sqlDB, dialect, direction)
}
