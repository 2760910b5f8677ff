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

	"github.com/famhub/famhub/internal/entities"
)

func goalsTestRouter(stores *testStores, user *entities.User) *gin.Engine {
	controller := NewGoalsController(stores.goals, stores.activities)

	router := gin.New()
	router.Use(asUser(user))
	router.PUT("/api/goals", controller.Set)
	router.GET("/api/goals", controller.List)
	router.POST("/api/goals/progress", controller.AddProgress)
	router.GET("/api/goals/:year", controller.Get)
	router.DELETE("/api/goals/:year", controller.Delete)
	return router
}

func TestGoalsController_SetAndProgress(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	user := createMember(t, stores, "g@example.com", "goals", nil, entities.UserRoleChild)
	router := goalsTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"year": 2026, "target": 12})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/goals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ = json.Marshal(gin.H{"year": 2026, "delta": 3})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/goals/progress", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Goal entities.ReadingGoal `json:"goal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Goal.Progress)
	assert.Equal(t, 12, resp.Goal.Target)
}

func TestGoalsController_Set_BadTarget(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	user := createMember(t, stores, "g@example.com", "goals", nil, entities.UserRoleChild)
	router := goalsTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"year": 2026, "target": -1})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/goals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoalsController_GetAndDelete(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()

	user := createMember(t, stores, "g@example.com", "goals", nil, entities.UserRoleChild)
	_, err := stores.goals.Upsert(user.ID, 2026, 10)
	require.NoError(t, err)

	router := goalsTestRouter(stores, user)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/goals/2026", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/goals/2026", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/goals/2026", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
