package repositories

import (
	"context"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUser(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := getDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, r.log.Function("GetByEmail").Err("failed to get user", notFound(err), "email", email)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	if err := getDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, r.log.Function("GetByID").Err("failed to get user", notFound(err), "id", id)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	if err := getDB(ctx, r.db).Create(user).Error; err != nil {
		return r.log.Function("Create").Err("failed to create user", err, "email", user.Email)
	}
	return nil
}
