package repositories

import (
	"context"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
)

type ApplicantRepository interface {
	Create(ctx context.Context, applicant *Applicant) error
	GetAll(ctx context.Context) ([]Applicant, error)
	GetByID(ctx context.Context, id string) (*Applicant, error)
	UpdateStatus(ctx context.Context, id string, status ApplicantStatus) error
	Delete(ctx context.Context, id string) error
}

type applicantRepository struct {
	db  database.DB
	log logger.Logger
}

func NewApplicant(db database.DB) ApplicantRepository {
	return &applicantRepository{
		db:  db,
		log: logger.New("applicantRepository"),
	}
}

func (r *applicantRepository) Create(ctx context.Context, applicant *Applicant) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(applicant).Error; err != nil {
		return log.Err("failed to create applicant", err, "email", applicant.Email)
	}

	return nil
}

func (r *applicantRepository) GetAll(ctx context.Context) ([]Applicant, error) {
	log := r.log.Function("GetAll")

	var applicants []Applicant
	if err := getDB(ctx, r.db).Order("created_at DESC").Find(&applicants).Error; err != nil {
		return nil, log.Err("failed to get applicants", err)
	}

	return applicants, nil
}

func (r *applicantRepository) GetByID(ctx context.Context, id string) (*Applicant, error) {
	log := r.log.Function("GetByID")

	var applicant Applicant
	if err := getDB(ctx, r.db).First(&applicant, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get applicant", notFound(err), "id", id)
	}

	return &applicant, nil
}

func (r *applicantRepository) UpdateStatus(ctx context.Context, id string, status ApplicantStatus) error {
	log := r.log.Function("UpdateStatus")

	result := getDB(ctx, r.db).Model(&Applicant{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return log.Err("failed to update applicant status", result.Error, "id", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to update applicant status", ErrNotFound, "id", id)
	}

	return nil
}

func (r *applicantRepository) Delete(ctx context.Context, id string) error {
	log := r.log.Function("Delete")

	result := getDB(ctx, r.db).Delete(&Applicant{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete applicant", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to delete applicant", ErrNotFound, "id", id)
	}

	return nil
}
