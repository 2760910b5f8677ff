package goals

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_goals_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), cleanup
}

func createTestUser(t *testing.T, repo *Repository) *entities.User {
	user := &entities.User{
		Email:        "goals@example.com",
		Username:     "goals",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, repo.db.Create(user).Error)
	return user
}

func TestUpsert_CreatesThenUpdatesTarget(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := createTestUser(t, repo)

	goal, err := repo.Upsert(user.ID, 2026, 24)
	require.NoError(t, err)
	assert.Equal(t, 24, goal.Target)
	assert.Equal(t, 0, goal.Progress)

	_, err = repo.AddProgress(user.ID, 2026, 5)
	require.NoError(t, err)

	updated, err := repo.Upsert(user.ID, 2026, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Target)
	assert.Equal(t, 5, updated.Progress)

	var count int64
	require.NoError(t, repo.db.Model(&entities.ReadingGoal{}).
		Where("user_id = ? AND year = ?", user.ID, 2026).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddProgress(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := createTestUser(t, repo)

	_, err := repo.Upsert(user.ID, 2026, 12)
	require.NoError(t, err)

	goal, err := repo.AddProgress(user.ID, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, goal.Progress)
	assert.False(t, goal.Completed())

	goal, err = repo.AddProgress(user.ID, 2026, 9)
	require.NoError(t, err)
	assert.Equal(t, 12, goal.Progress)
	assert.True(t, goal.Completed())
}

func TestAddProgress_NeverBelowZero(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := createTestUser(t, repo)

	_, err := repo.Upsert(user.ID, 2026, 12)
	require.NoError(t, err)

	goal, err := repo.AddProgress(user.ID, 2026, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, goal.Progress)
}

func TestAddProgress_NoGoal(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := createTestUser(t, repo)

	_, err := repo.AddProgress(user.ID, 2031, 1)
	assert.True(t, database.IsNotFound(err))
}

func TestListForUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := createTestUser(t, repo)

	for _, year := range []int{2024, 2026, 2025} {
		_, err := repo.Upsert(user.ID, year, 10)
		require.NoError(t, err)
	}

	rows, err := repo.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2026, rows[0].Year)
	assert.Equal(t, 2024, rows[2].Year)
}

func TestDelete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := createTestUser(t, repo)

	_, err := repo.Upsert(user.ID, 2026, 10)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(user.ID, 2026))
	assert.True(t, database.IsNotFound(repo.Delete(user.ID, 2026)))

	_, err = repo.Get(user.ID, 2026)
	assert.True(t, database.IsNotFound(err))
}
