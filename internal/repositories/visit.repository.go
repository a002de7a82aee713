package repositories

import (
	"context"
	"time"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
)

type VisitRepository interface {
	Create(ctx context.Context, visit *Visit) error
	CountAll(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type visitRepository struct {
	db  database.DB
	log logger.Logger
}

func NewVisit(db database.DB) VisitRepository {
	return &visitRepository{
		db:  db,
		log: logger.New("visitRepository"),
	}
}

func (r *visitRepository) Create(ctx context.Context, visit *Visit) error {
	if err := getDB(ctx, r.db).Create(visit).Error; err != nil {
		return r.log.Function("Create").Err("failed to create visit", err, "path", visit.Path)
	}
	return nil
}

func (r *visitRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&Visit{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("CountAll").Err("failed to count visits", err)
	}
	return count, nil
}

func (r *visitRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&Visit{}).Where("visited_at >= ?", since).Count(&count).Error; err != nil {
		return 0, r.log.Function("CountSince").Err("failed to count visits", err, "since", since)
	}
	return count, nil
}
