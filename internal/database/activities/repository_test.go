package activities

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_activities_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), cleanup
}

func createFixtures(t *testing.T, repo *Repository) (*entities.Family, *entities.User) {
	family := &entities.Family{Name: "Feed", InviteCode: "FEED0001", MaxMembers: 10}
	require.NoError(t, repo.db.Create(family).Error)

	user := &entities.User{
		Email:        "feed@example.com",
		Username:     "feed",
		PasswordHash: "x",
		FamilyID:     &family.ID,
		IsActive:     true,
	}
	require.NoError(t, repo.db.Create(user).Error)
	return family, user
}

func TestRecordAndListForFamily(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	family, user := createFixtures(t, repo)

	_, err := repo.Record(RecordData{
		UserID: user.ID, FamilyID: family.ID,
		Type: entities.ActivityTypeBookAdded, Title: "added Dune", IsPublic: true,
	})
	require.NoError(t, err)
	_, err = repo.Record(RecordData{
		UserID: user.ID, FamilyID: family.ID,
		Type: entities.ActivityTypeGoalSet, Title: "set a private goal", IsPublic: false,
	})
	require.NoError(t, err)

	rows, pagination, err := repo.ListForFamily(family.ID, database.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entities.ActivityTypeBookAdded, rows[0].Type)
	assert.Equal(t, user.ID, rows[0].User.ID)
	assert.Equal(t, int64(1), pagination.Total)
}

func TestListForUser_IncludesPrivate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	family, user := createFixtures(t, repo)

	for _, public := range []bool{true, false} {
		_, err := repo.Record(RecordData{
			UserID: user.ID, FamilyID: family.ID,
			Type: entities.ActivityTypeGoalProgress, Title: "progress", IsPublic: public,
		})
		require.NoError(t, err)
	}

	rows, pagination, err := repo.ListForUser(user.ID, database.PaginationOptions{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), pagination.Total)
}

func TestDeleteOlderThan(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	family, user := createFixtures(t, repo)

	old, err := repo.Record(RecordData{
		UserID: user.ID, FamilyID: family.ID,
		Type: entities.ActivityTypeMemberJoined, Title: "joined", IsPublic: true,
	})
	require.NoError(t, err)
	_, err = repo.Record(RecordData{
		UserID: user.ID, FamilyID: family.ID,
		Type: entities.ActivityTypeBookAdded, Title: "recent", IsPublic: true,
	})
	require.NoError(t, err)

	backdated := time.Now().Add(-100 * 24 * time.Hour)
	require.NoError(t, repo.db.Model(&entities.Activity{}).
		Where("id = ?", old.ID).
		Update("created_at", backdated).Error)

	removed, err := repo.DeleteOlderThan(time.Now().Add(-90 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	rows, _, err := repo.ListForFamily(family.ID, database.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "recent", rows[0].Title)
}
