package repositories

import (
	"context"
	"testing"
	"time"

	. "agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitRepository_Counts(t *testing.T) {
	repo := NewVisit(newTestDB(t))
	ctx := context.Background()

	now := time.Now()
	visits := []*Visit{
		{Path: "/", SessionID: "a", VisitedAt: now.Add(-48 * time.Hour)},
		{Path: "/quote", SessionID: "a", VisitedAt: now.Add(-47 * time.Hour)},
		{Path: "/", SessionID: "b", VisitedAt: now, Referrer: stringPtr("https://search.example")},
	}
	for _, visit := range visits {
		require.NoError(t, repo.Create(ctx, visit))
		assert.NotEmpty(t, visit.ID)
	}

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	today, err := repo.CountSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), today)
}
