package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/streaming"
	"github.com/famhub/famhub/internal/entities"
)

// StreamingStore defines streaming catalog and watchlist operations for
// the controller.
type StreamingStore interface {
	Create(data streaming.CreateData) (*entities.StreamingContent, error)
	GetByID(id uint) (*entities.StreamingContent, error)
	ListForFamily(familyID uint, filters streaming.Filters, opts database.PaginationOptions) ([]entities.StreamingContent, database.Pagination, error)
	Update(id uint, data streaming.UpdateData) (*entities.StreamingContent, error)
	Delete(id uint) error
	AddToWatchlist(userID, contentID uint, data streaming.WatchData) (*entities.UserStreamingItem, error)
	UpdateWatchlist(userID, contentID uint, data streaming.WatchData) (*entities.UserStreamingItem, error)
	RemoveFromWatchlist(userID, contentID uint) error
	GetWatchlist(userID uint, status entities.StreamingStatus, opts database.PaginationOptions) ([]entities.UserStreamingItem, database.Pagination, error)
	AddEpisode(contentID uint, data streaming.EpisodeData) (*entities.Episode, error)
	ListEpisodes(contentID uint, season int) ([]entities.Episode, error)
	DeleteEpisode(contentID, episodeID uint) error
	GetRecentForFamily(familyID uint, limit int) ([]entities.StreamingContent, error)
	GetPopularForFamily(familyID uint, limit int) ([]entities.StreamingContent, error)
	GetWatchStats(userID uint) (*streaming.WatchStats, error)
}

type StreamingController struct {
	store StreamingStore
	feed  ActivityRecorder
}

func NewStreamingController(store StreamingStore, feed ActivityRecorder) *StreamingController {
	return &StreamingController{store: store, feed: feed}
}

type createContentRequest struct {
	Title         string `json:"title" binding:"required"`
	Type          string `json:"type" binding:"required"`
	Description   string `json:"description"`
	ReleaseYear   int    `json:"release_year"`
	Runtime       int    `json:"runtime"`
	Genre         string `json:"genre"`
	Director      string `json:"director"`
	TotalSeasons  int    `json:"total_seasons"`
	TotalEpisodes int    `json:"total_episodes"`
	PosterURL     string `json:"poster_url"`
}

// Create adds a movie or show to the family catalog.
// POST /api/streaming
func (sc *StreamingController) Create(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	contentType := entities.ContentType(req.Type)
	if !entities.ValidContentType(contentType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown content type", Field: "type"})
		return
	}

	content, err := sc.store.Create(streaming.CreateData{
		FamilyID:      familyID,
		Title:         req.Title,
		Type:          contentType,
		Description:   req.Description,
		ReleaseYear:   req.ReleaseYear,
		Runtime:       req.Runtime,
		Genre:         req.Genre,
		Director:      req.Director,
		TotalSeasons:  req.TotalSeasons,
		TotalEpisodes: req.TotalEpisodes,
		PosterURL:     req.PosterURL,
	})
	if err != nil {
		respondStoreError(c, err, "create content")
		return
	}

	sc.record(c, familyID, entities.ActivityTypeStreamingAdded, "added "+content.Title)
	respondCreated(c, gin.H{"content": content})
}

// List returns a page of the family streaming catalog.
// GET /api/streaming
func (sc *StreamingController) List(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	contentType := entities.ContentType(c.Query("type"))
	if contentType != "" && !entities.ValidContentType(contentType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown content type", Field: "type"})
		return
	}

	filters := streaming.Filters{
		Type:   contentType,
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
	}

	rows, pagination, err := sc.store.ListForFamily(familyID, filters, parsePagination(c))
	if err != nil {
		respondStoreError(c, err, "list content")
		return
	}

	respondPage(c, rows, pagination)
}

// Get returns one catalog entry.
// GET /api/streaming/:id
func (sc *StreamingController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, err := sc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get content")
		return
	}
	if !sc.sameFamily(c, content.FamilyID) {
		respondNotFound(c, "content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

type updateContentRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Genre         *string `json:"genre"`
	Director      *string `json:"director"`
	TotalSeasons  *int    `json:"total_seasons"`
	TotalEpisodes *int    `json:"total_episodes"`
	PosterURL     *string `json:"poster_url"`
}

// Update edits a catalog entry.
// PATCH /api/streaming/:id
func (sc *StreamingController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !sc.ownsContent(c, id) {
		return
	}

	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	content, err := sc.store.Update(id, streaming.UpdateData{
		Title:         req.Title,
		Description:   req.Description,
		Genre:         req.Genre,
		Director:      req.Director,
		TotalSeasons:  req.TotalSeasons,
		TotalEpisodes: req.TotalEpisodes,
		PosterURL:     req.PosterURL,
	})
	if err != nil {
		respondStoreError(c, err, "update content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

// Delete removes a catalog entry; watchlist rows and episodes go with it.
// DELETE /api/streaming/:id
func (sc *StreamingController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !sc.ownsContent(c, id) {
		return
	}

	if err := sc.store.Delete(id); err != nil {
		respondStoreError(c, err, "delete content")
		return
	}

	respondSuccess(c, "content deleted")
}

type watchRequest struct {
	Status         string     `json:"status"`
	Progress       *int       `json:"progress"`
	Rating         *int       `json:"rating"`
	CurrentSeason  *int       `json:"current_season"`
	CurrentEpisode *int       `json:"current_episode"`
	Notes          *string    `json:"notes"`
	IsFavorite     *bool      `json:"is_favorite"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

func (r watchRequest) toWatchData() streaming.WatchData {
	return streaming.WatchData{
		Status:         entities.StreamingStatus(r.Status),
		Progress:       r.Progress,
		Rating:         r.Rating,
		CurrentSeason:  r.CurrentSeason,
		CurrentEpisode: r.CurrentEpisode,
		Notes:          r.Notes,
		IsFavorite:     r.IsFavorite,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
	}
}

func validateWatchRequest(c *gin.Context, req watchRequest) bool {
	if req.Status != "" && !entities.ValidStreamingStatus(entities.StreamingStatus(req.Status)) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status", Field: "status"})
		return false
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rating must be between 1 and 5", Field: "rating"})
		return false
	}
	return true
}

// AddToWatchlist puts a catalog entry on the user's watchlist.
// POST /api/streaming/:id/watchlist
func (sc *StreamingController) AddToWatchlist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !sc.ownsContent(c, id) {
		return
	}

	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !validateWatchRequest(c, req) {
		return
	}

	row, err := sc.store.AddToWatchlist(auth.GetUserID(c), id, req.toWatchData())
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			respondError(c, http.StatusConflict, "content is already on your watchlist")
			return
		}
		respondStoreError(c, err, "add to watchlist")
		return
	}

	familyID, _ := auth.GetFamilyID(c)
	sc.record(c, familyID, entities.ActivityTypeStreamingStatus, "queued something to watch")
	respondCreated(c, gin.H{"watchlist_item": row})
}

// UpdateWatchlist edits the user's watchlist row.
// PATCH /api/streaming/:id/watchlist
func (sc *StreamingController) UpdateWatchlist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !validateWatchRequest(c, req) {
		return
	}

	row, err := sc.store.UpdateWatchlist(auth.GetUserID(c), id, req.toWatchData())
	if err != nil {
		respondStoreError(c, err, "update watchlist")
		return
	}

	familyID, _ := auth.GetFamilyID(c)
	if req.Rating != nil {
		sc.record(c, familyID, entities.ActivityTypeStreamingRated, "rated something")
	} else if req.Status != "" {
		sc.record(c, familyID, entities.ActivityTypeStreamingStatus, "moved a watchlist item to "+req.Status)
	}

	c.JSON(http.StatusOK, gin.H{"watchlist_item": row})
}

// RemoveFromWatchlist takes a catalog entry off the user's watchlist.
// DELETE /api/streaming/:id/watchlist
func (sc *StreamingController) RemoveFromWatchlist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.store.RemoveFromWatchlist(auth.GetUserID(c), id); err != nil {
		respondStoreError(c, err, "remove from watchlist")
		return
	}

	respondSuccess(c, "removed from watchlist")
}

// Watchlist returns a page of the user's watchlist.
// GET /api/streaming/watchlist
func (sc *StreamingController) Watchlist(c *gin.Context) {
	status := entities.StreamingStatus(c.Query("status"))
	if status != "" && !entities.ValidStreamingStatus(status) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status", Field: "status"})
		return
	}

	rows, pagination, err := sc.store.GetWatchlist(auth.GetUserID(c), status, parsePagination(c))
	if err != nil {
		respondStoreError(c, err, "get watchlist")
		return
	}

	respondPage(c, rows, pagination)
}

// WatchStats returns the user's watchlist tallies per status.
// GET /api/streaming/stats
func (sc *StreamingController) WatchStats(c *gin.Context) {
	stats, err := sc.store.GetWatchStats(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "watch stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

type addEpisodeRequest struct {
	SeasonNumber  int        `json:"season_number" binding:"required"`
	EpisodeNumber int        `json:"episode_number" binding:"required"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AirDate       *time.Time `json:"air_date"`
	Runtime       int        `json:"runtime"`
}

// AddEpisode registers an episode on a TV show.
// POST /api/streaming/:id/episodes
func (sc *StreamingController) AddEpisode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, err := sc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get content")
		return
	}
	if !sc.sameFamily(c, content.FamilyID) {
		respondNotFound(c, "content")
		return
	}
	if content.Type != entities.ContentTypeTVShow {
		respondBadRequest(c, "episodes can only be added to TV shows")
		return
	}

	var req addEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	episode, err := sc.store.AddEpisode(id, streaming.EpisodeData{
		SeasonNumber:  req.SeasonNumber,
		EpisodeNumber: req.EpisodeNumber,
		Title:         req.Title,
		Description:   req.Description,
		AirDate:       req.AirDate,
		Runtime:       req.Runtime,
	})
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			respondError(c, http.StatusConflict, "episode already exists")
			return
		}
		respondStoreError(c, err, "add episode")
		return
	}

	respondCreated(c, gin.H{"episode": episode})
}

// ListEpisodes returns a show's episodes, optionally for one season.
// GET /api/streaming/:id/episodes?season=N
func (sc *StreamingController) ListEpisodes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !sc.ownsContent(c, id) {
		return
	}

	season := 0
	if seasonStr := c.Query("season"); seasonStr != "" {
		parsed, err := strconv.Atoi(seasonStr)
		if err != nil || parsed < 1 {
			respondBadRequest(c, "invalid season")
			return
		}
		season = parsed
	}

	episodes, err := sc.store.ListEpisodes(id, season)
	if err != nil {
		respondStoreError(c, err, "list episodes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"episodes": episodes})
}

// DeleteEpisode removes one episode from a show.
// DELETE /api/streaming/:id/episodes/:episodeID
func (sc *StreamingController) DeleteEpisode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	episodeID, ok := parseIDParam(c, "episodeID")
	if !ok {
		return
	}
	if !sc.ownsContent(c, id) {
		return
	}

	if err := sc.store.DeleteEpisode(id, episodeID); err != nil {
		respondStoreError(c, err, "delete episode")
		return
	}

	respondSuccess(c, "episode deleted")
}

// Recent returns the newest additions to the family catalog.
// GET /api/streaming/recent
func (sc *StreamingController) Recent(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	rows, err := sc.store.GetRecentForFamily(familyID, parsePagination(c).Limit)
	if err != nil {
		respondStoreError(c, err, "recent content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": rows})
}

// Popular ranks the family catalog by how many members have each entry
// on a watchlist.
// GET /api/streaming/popular
func (sc *StreamingController) Popular(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	rows, err := sc.store.GetPopularForFamily(familyID, parsePagination(c).Limit)
	if err != nil {
		respondStoreError(c, err, "popular content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": rows})
}

func (sc *StreamingController) sameFamily(c *gin.Context, familyID uint) bool {
	own, ok := auth.GetFamilyID(c)
	return ok && own == familyID
}

func (sc *StreamingController) ownsContent(c *gin.Context, id uint) bool {
	content, err := sc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get content")
		return false
	}
	if !sc.sameFamily(c, content.FamilyID) {
		respondNotFound(c, "content")
		return false
	}
	return true
}

func (sc *StreamingController) record(c *gin.Context, familyID uint, activityType entities.ActivityType, title string) {
	if sc.feed == nil || familyID == 0 {
		return
	}
	if _, err := sc.feed.Record(activities.RecordData{
		UserID:   auth.GetUserID(c),
		FamilyID: familyID,
		Type:     activityType,
		Title:    title,
		IsPublic: true,
	}); err != nil {
		log.Printf("activity feed error [request_id=%s]: %v", c.GetString("request_id"), err)
	}
}
