package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database/users"
	"github.com/famhub/famhub/internal/entities"
)

// UserStore defines profile operations for the controller.
type UserStore interface {
	GetByID(id uint) (*entities.User, error)
	Update(id uint, data users.UpdateData) (*entities.User, error)
	GetStats(userID uint) (*users.UserStats, error)
}

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// Me returns the authenticated user's profile with family preloaded.
// GET /api/users/me
func (uc *UsersController) Me(c *gin.Context) {
	user, err := uc.store.GetByID(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateMe edits the authenticated user's profile. Role and activation
// changes are not accepted here.
// PATCH /api/users/me
func (uc *UsersController) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.store.Update(auth.GetUserID(c), users.UpdateData{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondStoreError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// MyStats returns the authenticated user's item counts.
// GET /api/users/me/stats
func (uc *UsersController) MyStats(c *gin.Context) {
	stats, err := uc.store.GetStats(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "user stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
