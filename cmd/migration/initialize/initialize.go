package initialize

import (
	"os"

	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"
)

// InitializeTables brings the schema up to date and makes sure the resume
// bucket directory exists.
func InitializeTables(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if _, err := db.Migrate(database.Dialect(config.DatabaseDriver), database.MigrateUp); err != nil {
		return log.Err("failed to migrate", err)
	}

	if err := os.MkdirAll(config.StorageResumeDir, 0o755); err != nil {
		return log.Err("failed to create resume directory", err, "dir", config.StorageResumeDir)
	}

	log.Info("Table initialization complete")
	return nil
}
