package models

import "time"

// Status represents the watch state of a show
type Status string

const (
	StatusWatching Status = "watching"
	StatusCurrent  Status = "current"
	StatusHiatus   Status = "hiatus"
	StatusDropped  Status = "dropped"
)

// Priority levels for a show
const (
	PriorityTop     = 1
	PriorityDefault = 2
	PriorityBackup  = 3
)

// EpisodeCaughtUp is the sentinel episode number meaning "no further
// known episode to watch". It is never a real episode position.
const EpisodeCaughtUp = 99

// Show represents a tracked series
type Show struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Service          string     `gorm:"type:varchar(100);not null" json:"service"`
	Status           Status     `gorm:"type:varchar(20);not null;default:watching;index" json:"status"`
	CurrentSeason    int        `gorm:"not null;default:1" json:"current_season"`
	CurrentEpisode   int        `gorm:"not null;default:1" json:"current_episode"`
	TotalSeasons     *int       `json:"total_seasons,omitempty"`
	EpisodesInSeason *int       `json:"episodes_in_season,omitempty"`
	AirDay           *string    `gorm:"type:varchar(20)" json:"air_day,omitempty"`
	Priority         int        `gorm:"not null;default:2;index" json:"priority"`
	Notes            *string    `gorm:"type:text" json:"notes,omitempty"`
	TMDBID           *int       `json:"tmdb_id,omitempty"`
	PosterURL        *string    `gorm:"type:text" json:"poster_url,omitempty"`
	TraktSlug        *string    `gorm:"type:varchar(255)" json:"trakt_slug,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`

	History []WatchHistoryEntry `gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Show
func (Show) TableName() string {
	return "shows"
}

// CaughtUp reports whether the show carries the caught-up sentinel.
// Value receiver: templates call this on shows ranged over by value.
func (s Show) CaughtUp() bool {
	return s.CurrentEpisode == EpisodeCaughtUp
}
