package seed

import (
	"context"
	"path/filepath"
	"testing"

	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		DatabaseDriver:    "sqlite",
		DatabaseDbPath:    filepath.Join(t.TempDir(), "seed.db"),
		AdminSeedEmail:    " Admin@Example.com ",
		AdminSeedPassword: "s3cret-pass",
	}
}

func openDB(t *testing.T, cfg config.Config) database.DB {
	t.Helper()
	db, err := database.NewSQL(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(database.Dialect(cfg.DatabaseDriver), database.MigrateUp)
	require.NoError(t, err)
	return db
}

func TestSeed_CreatesAdminOnce(t *testing.T) {
	cfg := seedConfig(t)
	db := openDB(t, cfg)
	log := logger.New("seed_test")

	require.NoError(t, Seed(context.Background(), db, cfg, log))
	require.NoError(t, Seed(context.Background(), db, cfg, log))

	var users []User
	require.NoError(t, db.SQL.Find(&users).Error)
	require.Len(t, users, 1)

	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, RoleAdmin, users[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("s3cret-pass")))
}

func TestSeed_RequiresCredentials(t *testing.T) {
	cfg := seedConfig(t)
	db := openDB(t, cfg)
	cfg.AdminSeedPassword = ""

	err := Seed(context.Background(), db, cfg, logger.New("seed_test"))
	assert.Error(t, err)
}
