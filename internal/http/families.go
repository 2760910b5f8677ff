package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/families"
	"github.com/famhub/famhub/internal/entities"
)

// FamilyStore defines family database operations for the controller.
type FamilyStore interface {
	Create(data families.CreateData) (*entities.Family, error)
	GetByID(id uint) (*entities.Family, error)
	GetByInviteCode(code string) (*entities.Family, error)
	Update(id uint, data families.UpdateData) (*entities.Family, error)
	Delete(id uint) error
	CanAddMember(id uint) (bool, error)
	GetStats(id uint) (*families.FamilyStats, error)
	GetRecentActivity(id uint, since time.Time, limit int) ([]entities.Activity, error)
}

// MemberStore defines the user-side membership operations.
type MemberStore interface {
	GetByID(id uint) (*entities.User, error)
	SetFamily(id uint, familyID *uint) error
	GetFamilyMembers(familyID uint) ([]entities.User, error)
}

// ActivityRecorder appends entries to the family feed.
type ActivityRecorder interface {
	Record(data activities.RecordData) (*entities.Activity, error)
	ListForFamily(familyID uint, opts database.PaginationOptions) ([]entities.Activity, database.Pagination, error)
}

type FamiliesController struct {
	store    FamilyStore
	members  MemberStore
	feed     ActivityRecorder
	sessions *auth.SessionManager
}

func NewFamiliesController(store FamilyStore, members MemberStore, feed ActivityRecorder, sessions *auth.SessionManager) *FamiliesController {
	return &FamiliesController{store: store, members: members, feed: feed, sessions: sessions}
}

type createFamilyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	MaxMembers  int    `json:"max_members"`
}

// Create makes a new family and puts the creator in it.
// POST /api/family
func (fc *FamiliesController) Create(c *gin.Context) {
	if _, ok := auth.GetFamilyID(c); ok {
		respondError(c, http.StatusConflict, "already a member of a family")
		return
	}

	var req createFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	family, err := fc.store.Create(families.CreateData{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		respondStoreError(c, err, "create family")
		return
	}

	userID := auth.GetUserID(c)
	if err := fc.members.SetFamily(userID, &family.ID); err != nil {
		respondStoreError(c, err, "join created family")
		return
	}
	fc.recordMembership(c, userID, family.ID, entities.ActivityTypeMemberJoined, "created the family")

	if fc.sessions != nil {
		fc.sessions.RefreshFamily(c.Request, &family.ID)
	}

	respondCreated(c, gin.H{"family": family})
}

// Get returns the authenticated user's family.
// GET /api/family
func (fc *FamiliesController) Get(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	family, err := fc.store.GetByID(familyID)
	if err != nil {
		respondStoreError(c, err, "get family")
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}

type updateFamilyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPrivate   *bool   `json:"is_private"`
	MaxMembers  *int    `json:"max_members"`
}

// Update changes family settings. Restricted to parents by the router.
// PATCH /api/family
func (fc *FamiliesController) Update(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	var req updateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	family, err := fc.store.Update(familyID, families.UpdateData{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		respondStoreError(c, err, "update family")
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}

type joinFamilyRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// Join adds the authenticated user to the family behind an invite code.
// POST /api/family/join
func (fc *FamiliesController) Join(c *gin.Context) {
	if _, ok := auth.GetFamilyID(c); ok {
		respondError(c, http.StatusConflict, "already a member of a family")
		return
	}

	var req joinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	family, err := fc.store.GetByInviteCode(req.InviteCode)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "invite code")
			return
		}
		respondStoreError(c, err, "join family")
		return
	}

	canAdd, err := fc.store.CanAddMember(family.ID)
	if err != nil {
		respondStoreError(c, err, "join family")
		return
	}
	if !canAdd {
		respondError(c, http.StatusConflict, "family is full")
		return
	}

	userID := auth.GetUserID(c)
	if err := fc.members.SetFamily(userID, &family.ID); err != nil {
		respondStoreError(c, err, "join family")
		return
	}
	fc.recordMembership(c, userID, family.ID, entities.ActivityTypeMemberJoined, "joined the family")

	if fc.sessions != nil {
		fc.sessions.RefreshFamily(c.Request, &family.ID)
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}

// Leave removes the authenticated user from their family.
// POST /api/family/leave
func (fc *FamiliesController) Leave(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	userID := auth.GetUserID(c)
	if err := fc.members.SetFamily(userID, nil); err != nil {
		respondStoreError(c, err, "leave family")
		return
	}
	fc.recordMembership(c, userID, familyID, entities.ActivityTypeMemberLeft, "left the family")

	if fc.sessions != nil {
		fc.sessions.RefreshFamily(c.Request, nil)
	}

	respondSuccess(c, "left the family")
}

// Delete disbands the family. Members keep their accounts and fall back
// to having no family. Restricted to parents by the router.
// DELETE /api/family
func (fc *FamiliesController) Delete(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	if err := fc.store.Delete(familyID); err != nil {
		respondStoreError(c, err, "delete family")
		return
	}

	if fc.sessions != nil {
		fc.sessions.RefreshFamily(c.Request, nil)
	}

	respondSuccess(c, "family deleted")
}

// Members lists the active members of the family.
// GET /api/family/members
func (fc *FamiliesController) Members(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	members, err := fc.members.GetFamilyMembers(familyID)
	if err != nil {
		respondStoreError(c, err, "list members")
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Stats returns the family dashboard numbers.
// GET /api/family/stats
func (fc *FamiliesController) Stats(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	stats, err := fc.store.GetStats(familyID)
	if err != nil {
		respondStoreError(c, err, "family stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Activity returns a page of the family's public feed.
// GET /api/family/activity
func (fc *FamiliesController) Activity(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	rows, pagination, err := fc.feed.ListForFamily(familyID, parsePagination(c))
	if err != nil {
		respondStoreError(c, err, "family activity")
		return
	}

	respondPage(c, rows, pagination)
}

// RecentActivity returns the last week of the family's public feed,
// unpaginated, for the dashboard widget.
// GET /api/family/activity/recent
func (fc *FamiliesController) RecentActivity(c *gin.Context) {
	familyID, ok := auth.GetFamilyID(c)
	if !ok {
		respondNotFound(c, "family")
		return
	}

	since := time.Now().Add(-7 * 24 * time.Hour)
	rows, err := fc.store.GetRecentActivity(familyID, since, parsePagination(c).Limit)
	if err != nil {
		respondStoreError(c, err, "recent activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": rows})
}

// recordMembership appends a membership change to the feed. Feed failures
// are logged, not surfaced; the membership change itself succeeded.
func (fc *FamiliesController) recordMembership(c *gin.Context, userID, familyID uint, activityType entities.ActivityType, title string) {
	if fc.feed == nil {
		return
	}
	if _, err := fc.feed.Record(activities.RecordData{
		UserID:   userID,
		FamilyID: familyID,
		Type:     activityType,
		Title:    title,
		IsPublic: true,
	}); err != nil {
		log.Printf("activity feed error [request_id=%s]: %v", c.GetString("request_id"), err)
	}
}
