// Package streaming provides database operations for the family streaming
// catalog, per-user watchlists and episodes.
package streaming

import (
	"time"

	"gorm.io/gorm"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// Repository handles all streaming catalog and watchlist operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new streaming repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateData carries the fields for a new catalog entry.
type CreateData struct {
	FamilyID      uint
	Title         string
	Type          entities.ContentType
	Description   string
	ReleaseYear   int
	Runtime       int
	Genre         string
	Director      string
	TotalSeasons  int
	TotalEpisodes int
	PosterURL     string
}

// UpdateData carries optional catalog updates; nil fields are untouched.
type UpdateData struct {
	Title         *string
	Description   *string
	Genre         *string
	Director      *string
	TotalSeasons  *int
	TotalEpisodes *int
	PosterURL     *string
}

// Filters narrows catalog listings. Search matches title as a substring.
type Filters struct {
	Type   entities.ContentType
	Genre  string
	Search string
}

// WatchData carries per-user watchlist state. Nil pointer fields are
// untouched on update.
type WatchData struct {
	Status         entities.StreamingStatus
	Progress       *int
	Rating         *int
	CurrentSeason  *int
	CurrentEpisode *int
	Notes          *string
	IsFavorite     *bool
	StartDate      *time.Time
	EndDate        *time.Time
}

// EpisodeData carries the fields for a new episode.
type EpisodeData struct {
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	Description   string
	AirDate       *time.Time
	Runtime       int
}

// Create inserts a new catalog entry.
func (r *Repository) Create(data CreateData) (*entities.StreamingContent, error) {
	content := &entities.StreamingContent{
		FamilyID:      data.FamilyID,
		Title:         data.Title,
		Type:          data.Type,
		Description:   data.Description,
		ReleaseYear:   data.ReleaseYear,
		Runtime:       data.Runtime,
		Genre:         data.Genre,
		Director:      data.Director,
		TotalSeasons:  data.TotalSeasons,
		TotalEpisodes: data.TotalEpisodes,
		PosterURL:     data.PosterURL,
	}

	if err := r.db.Create(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// GetByID retrieves a catalog entry by ID.
func (r *Repository) GetByID(id uint) (*entities.StreamingContent, error) {
	var content entities.StreamingContent
	if err := r.db.First(&content, id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// ListForFamily returns a page of the family's catalog matching the
// filters, newest first.
func (r *Repository) ListForFamily(familyID uint, filters Filters, opts database.PaginationOptions) ([]entities.StreamingContent, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.StreamingContent{}).Where("family_id = ?", familyID)
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Genre != "" {
		query = query.Where("genre = ?", filters.Genre)
	}
	if filters.Search != "" {
		query = query.Where("title LIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.StreamingContent
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// Update applies the non-nil fields of data to the catalog entry.
func (r *Repository) Update(id uint, data UpdateData) (*entities.StreamingContent, error) {
	updates := map[string]any{}
	if data.Title != nil {
		updates["title"] = *data.Title
	}
	if data.Description != nil {
		updates["description"] = *data.Description
	}
	if data.Genre != nil {
		updates["genre"] = *data.Genre
	}
	if data.Director != nil {
		updates["director"] = *data.Director
	}
	if data.TotalSeasons != nil {
		updates["total_seasons"] = *data.TotalSeasons
	}
	if data.TotalEpisodes != nil {
		updates["total_episodes"] = *data.TotalEpisodes
	}
	if data.PosterURL != nil {
		updates["poster_url"] = *data.PosterURL
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.StreamingContent{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(id)
}

// Delete removes a catalog entry; watchlist rows and episodes cascade.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.StreamingContent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddToWatchlist creates the user's watchlist row for a catalog entry.
// A second add for the same pair fails on the composite primary key.
func (r *Repository) AddToWatchlist(userID, contentID uint, data WatchData) (*entities.UserStreamingItem, error) {
	status := data.Status
	if status == "" {
		status = entities.StreamingStatusWatchlist
	}

	row := &entities.UserStreamingItem{
		UserID:             userID,
		StreamingContentID: contentID,
		Status:             status,
		Rating:             data.Rating,
		StartDate:          data.StartDate,
		EndDate:            data.EndDate,
	}
	if data.Progress != nil {
		row.Progress = *data.Progress
	}
	if data.CurrentSeason != nil {
		row.CurrentSeason = *data.CurrentSeason
	}
	if data.CurrentEpisode != nil {
		row.CurrentEpisode = *data.CurrentEpisode
	}
	if data.Notes != nil {
		row.Notes = *data.Notes
	}
	if data.IsFavorite != nil {
		row.IsFavorite = *data.IsFavorite
	}

	if err := r.db.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetWatchlistItem retrieves one watchlist row with the content preloaded.
func (r *Repository) GetWatchlistItem(userID, contentID uint) (*entities.UserStreamingItem, error) {
	var row entities.UserStreamingItem
	err := r.db.Preload("Content").
		Where("user_id = ? AND streaming_content_id = ?", userID, contentID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateWatchlist applies the non-zero fields of data to an existing
// watchlist row.
func (r *Repository) UpdateWatchlist(userID, contentID uint, data WatchData) (*entities.UserStreamingItem, error) {
	updates := map[string]any{}
	if data.Status != "" {
		updates["status"] = data.Status
	}
	if data.Progress != nil {
		updates["progress"] = *data.Progress
	}
	if data.Rating != nil {
		updates["rating"] = *data.Rating
	}
	if data.CurrentSeason != nil {
		updates["current_season"] = *data.CurrentSeason
	}
	if data.CurrentEpisode != nil {
		updates["current_episode"] = *data.CurrentEpisode
	}
	if data.Notes != nil {
		updates["notes"] = *data.Notes
	}
	if data.IsFavorite != nil {
		updates["is_favorite"] = *data.IsFavorite
	}
	if data.StartDate != nil {
		updates["start_date"] = *data.StartDate
	}
	if data.EndDate != nil {
		updates["end_date"] = *data.EndDate
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.UserStreamingItem{}).
			Where("user_id = ? AND streaming_content_id = ?", userID, contentID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetWatchlistItem(userID, contentID)
}

// RemoveFromWatchlist deletes the user's watchlist row; the catalog entry
// stays.
func (r *Repository) RemoveFromWatchlist(userID, contentID uint) error {
	result := r.db.
		Where("user_id = ? AND streaming_content_id = ?", userID, contentID).
		Delete(&entities.UserStreamingItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetWatchlist returns a page of the user's watchlist, optionally filtered
// by status, most recently updated first.
func (r *Repository) GetWatchlist(userID uint, status entities.StreamingStatus, opts database.PaginationOptions) ([]entities.UserStreamingItem, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.UserStreamingItem{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.UserStreamingItem
	err := query.Preload("Content").
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// AddEpisode inserts an episode for a TV show. A duplicate (content,
// season, episode) triple surfaces as a unique violation.
func (r *Repository) AddEpisode(contentID uint, data EpisodeData) (*entities.Episode, error) {
	episode := &entities.Episode{
		StreamingContentID: contentID,
		SeasonNumber:       data.SeasonNumber,
		EpisodeNumber:      data.EpisodeNumber,
		Title:              data.Title,
		Description:        data.Description,
		AirDate:            data.AirDate,
		Runtime:            data.Runtime,
	}

	if err := r.db.Create(episode).Error; err != nil {
		return nil, err
	}
	return episode, nil
}

// ListEpisodes returns a show's episodes in season/episode order,
// optionally limited to one season (0 means all seasons).
func (r *Repository) ListEpisodes(contentID uint, season int) ([]entities.Episode, error) {
	query := r.db.Where("streaming_content_id = ?", contentID)
	if season > 0 {
		query = query.Where("season_number = ?", season)
	}

	var rows []entities.Episode
	err := query.Order("season_number ASC, episode_number ASC").Find(&rows).Error
	return rows, err
}

// DeleteEpisode removes a single episode. The delete is scoped to the
// show so an episode ID from another show reads as not found.
func (r *Repository) DeleteEpisode(contentID, episodeID uint) error {
	result := r.db.
		Where("streaming_content_id = ?", contentID).
		Delete(&entities.Episode{}, episodeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetRecentForFamily returns the family's newest catalog entries.
func (r *Repository) GetRecentForFamily(familyID uint, limit int) ([]entities.StreamingContent, error) {
	if limit <= 0 || limit > database.MaxLimit {
		limit = database.DefaultLimit
	}

	var rows []entities.StreamingContent
	err := r.db.Where("family_id = ?", familyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// GetPopularForFamily ranks the family's catalog by how many members
// have it on a watchlist, newest first among ties.
func (r *Repository) GetPopularForFamily(familyID uint, limit int) ([]entities.StreamingContent, error) {
	if limit <= 0 || limit > database.MaxLimit {
		limit = database.DefaultLimit
	}

	var rows []entities.StreamingContent
	err := r.db.
		Joins("LEFT JOIN user_streaming_items ON user_streaming_items.streaming_content_id = streaming_content.id").
		Where("streaming_content.family_id = ?", familyID).
		Group("streaming_content.id").
		Order("COUNT(user_streaming_items.streaming_content_id) DESC, streaming_content.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// WatchStats tallies a user's watchlist by status, with every known
// status present even at zero.
type WatchStats struct {
	ByStatus map[entities.StreamingStatus]int64 `json:"by_status"`
	Total    int64                              `json:"total"`
}

// GetWatchStats aggregates the user's watchlist per status. An unknown
// status in the data fails the aggregation instead of vanishing.
func (r *Repository) GetWatchStats(userID uint) (*WatchStats, error) {
	type statusCount struct {
		Status entities.StreamingStatus
		Count  int64
	}

	var counts []statusCount
	err := r.db.Model(&entities.UserStreamingItem{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &WatchStats{ByStatus: make(map[entities.StreamingStatus]int64, len(entities.AllStreamingStatuses))}
	for _, s := range entities.AllStreamingStatuses {
		stats.ByStatus[s] = 0
	}
	for _, c := range counts {
		if !entities.ValidStreamingStatus(c.Status) {
			return nil, &database.ValidationError{
				Field:   "status",
				Message: "unknown streaming status " + string(c.Status),
			}
		}
		stats.ByStatus[c.Status] = c.Count
		stats.Total += c.Count
	}

	return stats, nil
}
