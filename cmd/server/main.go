package main

import (
	"os"

	"agency/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "agency",
	Short:         "Lead intake service for the insurance agency site",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, initializeCmd, flushCacheCmd)
}

func main() {
	log := logger.New("main")

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env", "error", err)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Er("command failed", err)
		os.Exit(1)
	}
}
