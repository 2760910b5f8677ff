package http

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/books"
	"github.com/famhub/famhub/internal/database/families"
	"github.com/famhub/famhub/internal/database/goals"
	"github.com/famhub/famhub/internal/database/streaming"
	"github.com/famhub/famhub/internal/database/users"
	"github.com/famhub/famhub/internal/entities"
)

// testStores bundles the repositories controller tests need.
type testStores struct {
	db         *database.Database
	users      *users.Repository
	families   *families.Repository
	books      *books.Repository
	streaming  *streaming.Repository
	goals      *goals.Repository
	activities *activities.Repository
}

func setupControllerTest(t *testing.T) (*testStores, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return &testStores{
		db:         db,
		users:      users.NewRepository(db.DB),
		families:   families.NewRepository(db.DB),
		books:      books.NewRepository(db.DB),
		streaming:  streaming.NewRepository(db.DB),
		goals:      goals.NewRepository(db.DB),
		activities: activities.NewRepository(db.DB),
	}, cleanup
}

func createMember(t *testing.T, stores *testStores, email, username string, familyID *uint, role entities.UserRole) *entities.User {
	t.Helper()
	user, err := stores.users.Create(users.CreateData{
		Email:        email,
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
		Role:         role,
		FamilyID:     familyID,
	})
	require.NoError(t, err)
	return user
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// asUser injects the uniform request claims the auth middleware would set.
func asUser(user *entities.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, user.ID)
		c.Set(auth.ContextKeyRole, user.Role)
		if user.FamilyID != nil {
			c.Set(auth.ContextKeyFamilyID, *user.FamilyID)
		}
		c.Set(auth.ContextKeyAuthType, auth.AuthTypeBearer)
		c.Next()
	}
}
