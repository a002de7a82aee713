package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agency/cmd/migration/initialize"
	"agency/cmd/migration/seed"
	"agency/config"
	"agency/internal/app"
	"agency/internal/database"
	"agency/internal/handlers"
	"agency/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE:      runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account from ADMIN_SEED_EMAIL and ADMIN_SEED_PASSWORD",
	RunE:  runSeed,
}

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Migrate the schema and prepare the resume bucket",
	RunE:  runInitialize,
}

var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Drop every session, visit flag and cached value",
	RunE:  runFlushCache,
}

func NewServer(app *app.App) (*fiber.App, error) {
	server := fiber.New(fiber.Config{
		AppName:   "agency " + app.Config.GeneralVersion,
		BodyLimit: 10 * 1024 * 1024,
	})

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(app.Config.AllowedOrigins(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: !allowsAnyOrigin(app.Config),
	}))

	if err := handlers.Router(server, app); err != nil {
		return nil, err
	}

	return server, nil
}

// fiber refuses credentials together with a wildcard origin.
func allowsAnyOrigin(config config.Config) bool {
	for _, origin := range config.AllowedOrigins() {
		if origin == "*" {
			return true
		}
	}
	return false
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New("main").Function("serve")

	app, err := app.New()
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer app.Close()

	server, err := NewServer(app)
	if err != nil {
		return log.Err("failed to build router", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server")
		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Er("failed to shut down cleanly", err)
		}
	}()

	address := fmt.Sprintf("%s:%d", app.Config.ServerHost, app.Config.ServerPort)
	log.Info("Starting server", "address", address, "environment", app.Config.Environment)
	if err := server.Listen(address); err != nil {
		return log.Err("server stopped", err)
	}

	return nil
}

func openSQL() (database.DB, config.Config, error) {
	config, err := config.InitConfig()
	if err != nil {
		return database.DB{}, config, err
	}

	db, err := database.NewSQL(config)
	if err != nil {
		return database.DB{}, config, err
	}

	return db, config, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.New("main").Function("migrate")

	db, config, err := openSQL()
	if err != nil {
		return log.Err("failed to open database", err)
	}
	defer db.Close()

	direction := database.MigrationDirection(args[0])
	applied, err := db.Migrate(database.Dialect(config.DatabaseDriver), direction)
	if err != nil {
		return err
	}

	log.Info("Migration finished", "direction", direction, "applied", applied)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger.New("main")

	db, config, err := openSQL()
	if err != nil {
		return log.Function("seed").Err("failed to open database", err)
	}
	defer db.Close()

	return seed.Seed(cmd.Context(), db, config, log)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	log := logger.New("main")

	db, config, err := openSQL()
	if err != nil {
		return log.Function("initialize").Err("failed to open database", err)
	}
	defer db.Close()

	return initialize.InitializeTables(db, config, log)
}

func runFlushCache(cmd *cobra.Command, args []string) error {
	log := logger.New("main").Function("flushCache")

	config, err := config.InitConfig()
	if err != nil {
		return log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return log.Err("failed to open database", err)
	}
	defer db.Close()

	return db.FlushAllCaches()
}
