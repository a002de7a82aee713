package seed

import (
	"context"
	"errors"
	"strings"

	"agency/config"
	authController "agency/internal/controllers/auth"
	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services"
)

// Seed creates the admin account named in config. Running it twice leaves the
// existing account untouched.
func Seed(ctx context.Context, db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding admin user")

	email := strings.ToLower(strings.TrimSpace(config.AdminSeedEmail))
	if email == "" || config.AdminSeedPassword == "" {
		return log.Error("ADMIN_SEED_EMAIL and ADMIN_SEED_PASSWORD are required to seed")
	}

	userRepo := repositories.NewUser(db)
	transactionService := services.NewTransactionService(db)

	return transactionService.Execute(ctx, func(txCtx context.Context) error {
		_, err := userRepo.GetByEmail(txCtx, email)
		if err == nil {
			log.Info("User already exists", "email", email)
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return log.Err("failed to look up admin user", err, "email", email)
		}

		hash, err := authController.HashPassword(config.AdminSeedPassword)
		if err != nil {
			return log.Err("failed to hash admin password", err)
		}

		user := &User{
			Email:        email,
			FullName:     "Administrator",
			Role:         RoleAdmin,
			PasswordHash: hash,
		}
		log.Info("Seeding user", "email", email)
		if err := userRepo.Create(txCtx, user); err != nil {
			return log.Err("failed to create admin user", err, "email", email)
		}

		return nil
	})
}
