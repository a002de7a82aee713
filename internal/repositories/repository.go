package repositories

import (
	"context"
	"errors"

	"agency/internal/database"
	"agency/internal/services"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func getDB(ctx context.Context, db database.DB) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return db.SQLWithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
