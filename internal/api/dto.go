package api

import "github.com/benwatts/whatson/internal/models"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse represents a status message response
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateShowRequest represents the form-encoded create payload
type CreateShowRequest struct {
	Title          string `form:"title" binding:"required"`
	Service        string `form:"service" binding:"required"`
	CurrentSeason  int    `form:"current_season"`
	CurrentEpisode int    `form:"current_episode"`
	AirDay         string `form:"air_day"`
	Priority       int    `form:"priority"`
	Notes          string `form:"notes"`
	Status         string `form:"status"`
}

// UpdateShowRequest represents a partial JSON update. Every field is
// optional; unknown fields are rejected at decode time instead of being
// passed through to storage.
type UpdateShowRequest struct {
	Title            *string        `json:"title,omitempty"`
	Service          *string        `json:"service,omitempty"`
	Status           *models.Status `json:"status,omitempty"`
	CurrentSeason    *int           `json:"current_season,omitempty"`
	CurrentEpisode   *int           `json:"current_episode,omitempty"`
	TotalSeasons     *int           `json:"total_seasons,omitempty"`
	EpisodesInSeason *int           `json:"episodes_in_season,omitempty"`
	AirDay           *string        `json:"air_day,omitempty"`
	Priority         *int           `json:"priority,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	TMDBID           *int           `json:"tmdb_id,omitempty"`
	PosterURL        *string        `json:"poster_url,omitempty"`
	TraktSlug        *string        `json:"trakt_slug,omitempty"`
}

// MarkWatchedRequest represents the form-encoded watched payload
type MarkWatchedRequest struct {
	Season  int `form:"season" binding:"required"`
	Episode int `form:"episode" binding:"required"`
}

// DismissRequest represents a recommendation dismissal
type DismissRequest struct {
	Slug string `form:"slug" json:"slug" binding:"required"`
}

// AddRecommendationRequest represents adding a show from a recommendation
type AddRecommendationRequest struct {
	Slug    string `form:"slug" json:"slug" binding:"required"`
	Service string `form:"service" json:"service"`
}

// CreatedResponse is returned after a successful create
type CreatedResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// RefreshAllResponse reports the outcome of a bulk metadata refresh
type RefreshAllResponse struct {
	Updated int    `json:"updated"`
	Message string `json:"message"`
}
