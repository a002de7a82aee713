package repositories

import (
	"context"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	GetAll(ctx context.Context) ([]Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
	Delete(ctx context.Context, id string) error
}

type leadRepository struct {
	db  database.DB
	log logger.Logger
}

func NewLead(db database.DB) LeadRepository {
	return &leadRepository{
		db:  db,
		log: logger.New("leadRepository"),
	}
}

func (r *leadRepository) Create(ctx context.Context, lead *Lead) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(lead).Error; err != nil {
		return log.Err("failed to create lead", err, "email", lead.Email)
	}

	return nil
}

func (r *leadRepository) GetAll(ctx context.Context) ([]Lead, error) {
	log := r.log.Function("GetAll")

	var leads []Lead
	if err := getDB(ctx, r.db).Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, log.Err("failed to get leads", err)
	}

	return leads, nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	log := r.log.Function("GetByID")

	var lead Lead
	if err := getDB(ctx, r.db).First(&lead, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get lead", notFound(err), "id", id)
	}

	return &lead, nil
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id string, status LeadStatus) error {
	log := r.log.Function("UpdateStatus")

	result := getDB(ctx, r.db).Model(&Lead{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return log.Err("failed to update lead status", result.Error, "id", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to update lead status", ErrNotFound, "id", id)
	}

	return nil
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	log := r.log.Function("Delete")

	result := getDB(ctx, r.db).Delete(&Lead{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete lead", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to delete lead", ErrNotFound, "id", id)
	}

	return nil
}
