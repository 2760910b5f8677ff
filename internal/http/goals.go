package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/entities"
)

// GoalStore defines reading goal operations for the controller.
type GoalStore interface {
	Upsert(userID uint, year, target int) (*entities.ReadingGoal, error)
	Get(userID uint, year int) (*entities.ReadingGoal, error)
	AddProgress(userID uint, year, delta int) (*entities.ReadingGoal, error)
	ListForUser(userID uint) ([]entities.ReadingGoal, error)
	Delete(userID uint, year int) error
}

type GoalsController struct {
	store GoalStore
	feed  ActivityRecorder
}

func NewGoalsController(store GoalStore, feed ActivityRecorder) *GoalsController {
	return &GoalsController{store: store, feed: feed}
}

type setGoalRequest struct {
	Year   int `json:"year"`
	Target int `json:"target" binding:"required"`
}

// Set creates or updates the goal for a year. Year defaults to the
// current one.
// PUT /api/goals
func (gc *GoalsController) Set(c *gin.Context) {
	var req setGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Target < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "target must be positive", Field: "target"})
		return
	}
	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	goal, err := gc.store.Upsert(auth.GetUserID(c), year, req.Target)
	if err != nil {
		respondStoreError(c, err, "set goal")
		return
	}

	gc.record(c, entities.ActivityTypeGoalSet, "set a reading goal for "+strconv.Itoa(year))
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// Get returns the goal for a year (defaults to the current one).
// GET /api/goals/:year
func (gc *GoalsController) Get(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondBadRequest(c, "invalid year")
		return
	}

	goal, getErr := gc.store.Get(auth.GetUserID(c), year)
	if getErr != nil {
		respondStoreError(c, getErr, "get goal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

type goalProgressRequest struct {
	Year  int `json:"year"`
	Delta int `json:"delta" binding:"required"`
}

// AddProgress moves the goal counter; negative deltas roll it back but
// never below zero.
// POST /api/goals/progress
func (gc *GoalsController) AddProgress(c *gin.Context) {
	var req goalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	goal, err := gc.store.AddProgress(auth.GetUserID(c), year, req.Delta)
	if err != nil {
		respondStoreError(c, err, "goal progress")
		return
	}

	if goal.Completed() {
		gc.record(c, entities.ActivityTypeGoalProgress, "completed a reading goal")
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// List returns all of the user's goals.
// GET /api/goals
func (gc *GoalsController) List(c *gin.Context) {
	goals, err := gc.store.ListForUser(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "list goals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// Delete removes the goal for a year.
// DELETE /api/goals/:year
func (gc *GoalsController) Delete(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondBadRequest(c, "invalid year")
		return
	}

	if err := gc.store.Delete(auth.GetUserID(c), year); err != nil {
		respondStoreError(c, err, "delete goal")
		return
	}

	respondSuccess(c, "goal deleted")
}

func (gc *GoalsController) record(c *gin.Context, activityType entities.ActivityType, title string) {
	familyID, ok := auth.GetFamilyID(c)
	if gc.feed == nil || !ok {
		return
	}
	if _, err := gc.feed.Record(activities.RecordData{
		UserID:   auth.GetUserID(c),
		FamilyID: familyID,
		Type:     activityType,
		Title:    title,
		IsPublic: true,
	}); err != nil {
		log.Printf("activity feed error [request_id=%s]: %v", c.GetString("request_id"), err)
	}
}
