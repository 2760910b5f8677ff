package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/books"
	"github.com/famhub/famhub/internal/database/families"
	"github.com/famhub/famhub/internal/entities"
)

func familiesTestRouter(stores *testStores, user *entities.User) *gin.Engine {
	controller := NewFamiliesController(stores.families, stores.users, stores.activities, nil)

	router := gin.New()
	router.Use(asUser(user))
	router.POST("/api/family", controller.Create)
	router.GET("/api/family", controller.Get)
	router.POST("/api/family/join", controller.Join)
	router.POST("/api/family/leave", controller.Leave)
	router.GET("/api/family/members", controller.Members)
	router.GET("/api/family/stats", controller.Stats)
	router.GET("/api/family/activity", controller.Activity)
	router.GET("/api/family/activity/recent", controller.RecentActivity)
	return router
}

func TestFamiliesController_Create(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	user := createMember(t, stores, "solo@example.com", "solo", nil, entities.UserRoleParent)
	router := familiesTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"name": "The Johnsons"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/family", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Family entities.Family `json:"family"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Family.InviteCode, entities.InviteCodeLength)

	// The creator became a member
	reloaded, err := stores.users.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FamilyID)
	assert.Equal(t, resp.Family.ID, *reloaded.FamilyID)
}

func TestFamiliesController_Create_AlreadyInFamily(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	family, err := stores.families.Create(families.CreateData{Name: "Existing"})
	require.NoError(t, err)
	user := createMember(t, stores, "member@example.com", "member", &family.ID, entities.UserRoleParent)

	router := familiesTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"name": "Second Family"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/family", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFamiliesController_JoinAndLeave(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	family, err := stores.families.Create(families.CreateData{Name: "Open"})
	require.NoError(t, err)
	user := createMember(t, stores, "joiner@example.com", "joiner", nil, entities.UserRoleChild)

	router := familiesTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"invite_code": family.InviteCode})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/family/join", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	reloaded, err := stores.users.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FamilyID)

	// Feed shows the join
	feed, _, err := stores.activities.ListForFamily(family.ID, database.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, entities.ActivityTypeMemberJoined, feed[0].Type)

	// Leave (re-auth as the now-member)
	router = familiesTestRouter(stores, reloaded)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/family/leave", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	reloaded, err = stores.users.GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FamilyID)
}

func TestFamiliesController_Join_BadCode(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	user := createMember(t, stores, "lost@example.com", "lost", nil, entities.UserRoleChild)
	router := familiesTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"invite_code": "NOPE0000"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/family/join", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFamiliesController_Join_FullFamily(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	family, err := stores.families.Create(families.CreateData{Name: "Tiny", MaxMembers: 1})
	require.NoError(t, err)
	createMember(t, stores, "first@example.com", "first", &family.ID, entities.UserRoleParent)

	late := createMember(t, stores, "late@example.com", "late", nil, entities.UserRoleChild)
	router := familiesTestRouter(stores, late)

	body, _ := json.Marshal(gin.H{"invite_code": family.InviteCode})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/family/join", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFamiliesController_RecentActivity(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	family, err := stores.families.Create(families.CreateData{Name: "Busy"})
	require.NoError(t, err)
	user := createMember(t, stores, "busy@example.com", "busy", &family.ID, entities.UserRoleParent)

	_, err = stores.activities.Record(activities.RecordData{
		UserID:   user.ID,
		FamilyID: family.ID,
		Type:     entities.ActivityTypeBookAdded,
		Title:    "added Dune",
		IsPublic: true,
	})
	require.NoError(t, err)

	// Private entries stay off the recent feed
	_, err = stores.activities.Record(activities.RecordData{
		UserID:   user.ID,
		FamilyID: family.ID,
		Type:     entities.ActivityTypeBookAdded,
		Title:    "added a secret diary",
	})
	require.NoError(t, err)

	router := familiesTestRouter(stores, user)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/family/activity/recent", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Activities []entities.Activity `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Activities, 1)
	assert.Equal(t, "added Dune", resp.Activities[0].Title)
}

func TestFamiliesController_MembersAndStats(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	family, err := stores.families.Create(families.CreateData{Name: "Readers"})
	require.NoError(t, err)
	parent := createMember(t, stores, "p@example.com", "parent", &family.ID, entities.UserRoleParent)
	createMember(t, stores, "c@example.com", "child", &family.ID, entities.UserRoleChild)

	book, err := stores.books.Create(books.CreateData{
		FamilyID: family.ID, Title: "Dune", Author: "Frank Herbert",
	})
	require.NoError(t, err)
	_, err = stores.books.AddToShelf(parent.ID, book.ID, books.ShelfData{Status: entities.BookStatusCompleted})
	require.NoError(t, err)

	router := familiesTestRouter(stores, parent)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/family/members", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var membersResp struct {
		Members []entities.User `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &membersResp))
	assert.Len(t, membersResp.Members, 2)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/family/stats", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var statsResp struct {
		Stats families.FamilyStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statsResp))
	assert.Equal(t, int64(2), statsResp.Stats.MemberCount)
	assert.Equal(t, int64(1), statsResp.Stats.TotalBooks)
	assert.Equal(t, int64(1), statsResp.Stats.BooksCompleted)
}
