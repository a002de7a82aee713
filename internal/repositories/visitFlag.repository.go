package repositories

import (
	"context"
	"time"

	"agency/internal/database"
	"agency/internal/logger"
)

const (
	visitFlagKeyPrefix = "visit_logged_paths:"
	VISIT_FLAG_EXPIRY  = 24 * time.Hour
)

// VisitFlagRepository remembers which paths a browser session has already had a
// visit logged for. Claim is atomic: of several concurrent claims for the same
// session and path exactly one succeeds.
type VisitFlagRepository interface {
	Claim(ctx context.Context, sessionID, path string) (bool, error)
	Release(ctx context.Context, sessionID, path string) error
}

type visitFlagRepository struct {
	db  database.DB
	log logger.Logger
}

func NewVisitFlag(db database.DB) VisitFlagRepository {
	return &visitFlagRepository{
		db:  db,
		log: logger.New("visitFlagRepository"),
	}
}

func (r *visitFlagRepository) Claim(ctx context.Context, sessionID, path string) (bool, error) {
	claimed, err := database.NewCacheBuilder(r.db.Cache.Visit, visitFlagKeyPrefix+sessionID).
		WithTTL(VISIT_FLAG_EXPIRY).
		WithContext(ctx).
		AddMember(path)
	if err != nil {
		return claimed, r.log.Function("Claim").Err("failed to write visit flag", err, "sessionID", sessionID, "path", path)
	}
	return claimed, nil
}

// Release gives a claimed path back so a later visit can log it again.
func (r *visitFlagRepository) Release(ctx context.Context, sessionID, path string) error {
	if err := database.NewCacheBuilder(r.db.Cache.Visit, visitFlagKeyPrefix+sessionID).
		WithContext(ctx).
		RemoveMember(path); err != nil {
		return r.log.Function("Release").Err("failed to release visit flag", err, "sessionID", sessionID, "path", path)
	}
	return nil
}
