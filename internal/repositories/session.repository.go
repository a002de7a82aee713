package repositories

import (
	"context"
	"time"

	"agency/internal/database"
	"agency/internal/logger"
	. "agency/internal/models"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	Save(ctx context.Context, session Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSession(db database.DB) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: logger.New("sessionRepository"),
	}
}

func (r *sessionRepository) Save(ctx context.Context, session Session, ttl time.Duration) error {
	if err := database.NewCacheBuilder(r.db.Cache.Session, sessionKeyPrefix+session.Token).
		WithStruct(session).
		WithTTL(ttl).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("Save").Err("failed to save session", err, "userID", session.UserID)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, token string) (Session, bool, error) {
	var session Session
	found, err := database.NewCacheBuilder(r.db.Cache.Session, sessionKeyPrefix+token).
		WithContext(ctx).
		Get(&session)
	if err != nil {
		return Session{}, false, r.log.Function("Get").Err("failed to read session", err)
	}
	return session, found, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	if err := database.NewCacheBuilder(r.db.Cache.Session, sessionKeyPrefix+token).
		WithContext(ctx).
		Delete(); err != nil {
		return r.log.Function("Delete").Err("failed to delete session", err)
	}
	return nil
}
