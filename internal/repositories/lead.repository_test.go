package repositories

import (
	"context"
	"testing"
	"time"

	. "agency/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLead(name, email string) *Lead {
	return &Lead{
		Name:                  name,
		Email:                 email,
		Phone:                 "555-0100",
		Address:               "1 Main St",
		City:                  "Austin",
		State:                 "TX",
		ZipCode:               "78701",
		Gender:                "female",
		Height:                "5'6\"",
		Weight:                "140",
		SmokingStatus:         "never",
		Birthdate:             stringPtr("2000-01-01"),
		Occupation:            "Engineer",
		MaritalStatus:         "single",
		DesiredCoverageAmount: 250000,
		Status:                LeadStatusNew,
	}
}

func TestLeadRepository_CreateAssignsIdentity(t *testing.T) {
	repo := NewLead(newTestDB(t))
	ctx := context.Background()

	lead := testLead("Jane Doe", "jane@example.com")
	require.NoError(t, repo.Create(ctx, lead))

	_, err := uuid.Parse(lead.ID)
	assert.NoError(t, err)
	assert.False(t, lead.CreatedAt.IsZero())

	stored, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.Name)
	require.NotNil(t, stored.Birthdate)
	assert.Equal(t, "2000-01-01", *stored.Birthdate)
	assert.Nil(t, stored.Age)
	assert.Nil(t, stored.SpouseName)
}

func TestLeadRepository_GetAllNewestFirst(t *testing.T) {
	repo := NewLead(newTestDB(t))
	ctx := context.Background()

	older := testLead("Older", "older@example.com")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testLead("Newer", "newer@example.com")
	newer.CreatedAt = time.Now()

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	leads, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Newer", leads[0].Name)
	assert.Equal(t, "Older", leads[1].Name)
}

func TestLeadRepository_UpdateStatus(t *testing.T) {
	repo := NewLead(newTestDB(t))
	ctx := context.Background()

	lead := testLead("Jane Doe", "jane@example.com")
	require.NoError(t, repo.Create(ctx, lead))

	for _, status := range LeadStatuses {
		t.Run(string(status), func(t *testing.T) {
			require.NoError(t, repo.UpdateStatus(ctx, lead.ID, status))

			stored, err := repo.GetByID(ctx, lead.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
		})
	}

	err := repo.UpdateStatus(ctx, uuid.NewString(), LeadStatusClosed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeadRepository_Delete(t *testing.T) {
	repo := NewLead(newTestDB(t))
	ctx := context.Background()

	keep := testLead("Keep", "keep@example.com")
	remove := testLead("Remove", "remove@example.com")
	require.NoError(t, repo.Create(ctx, keep))
	require.NoError(t, repo.Create(ctx, remove))

	require.NoError(t, repo.Delete(ctx, remove.ID))

	leads, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, keep.ID, leads[0].ID)

	_, err = repo.GetByID(ctx, remove.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, remove.ID), ErrNotFound)
}

func TestLeadRepository_SpouseRoundTrip(t *testing.T) {
	repo := NewLead(newTestDB(t))
	ctx := context.Background()

	lead := testLead("Married", "married@example.com")
	lead.MaritalStatus = MaritalStatusMarried
	lead.Spouse = Spouse{
		SpouseName:   stringPtr("Sam Doe"),
		SpouseGender: stringPtr("male"),
		SpouseAge:    intPtr(41),
	}
	require.NoError(t, repo.Create(ctx, lead))

	stored, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SpouseName)
	assert.Equal(t, "Sam Doe", *stored.SpouseName)
	require.NotNil(t, stored.SpouseAge)
	assert.Equal(t, 41, *stored.SpouseAge)
	assert.True(t, stored.Spouse.Present())
}
