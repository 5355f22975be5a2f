package testing

import (
	"testing"
	"time"

	"github.com/benwatts/whatson/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB creates an in-memory SQLite database for testing
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Show{},
		&models.WatchHistoryEntry{},
		&models.DismissedRecommendation{},
	); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// CreateShow creates a test show with sensible defaults
func CreateShow(db *gorm.DB, overrides ...func(*models.Show)) *models.Show {
	show := &models.Show{
		Title:          "Test Show",
		Service:        "Netflix",
		Status:         models.StatusWatching,
		CurrentSeason:  1,
		CurrentEpisode: 1,
		Priority:       models.PriorityDefault,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	for _, override := range overrides {
		override(show)
	}

	db.Create(show)
	return show
}

// WithTitle sets the title for a show
func WithTitle(title string) func(*models.Show) {
	return func(show *models.Show) {
		show.Title = title
	}
}

// WithStatus sets the status for a show
func WithStatus(status models.Status) func(*models.Show) {
	return func(show *models.Show) {
		show.Status = status
	}
}

// WithPriority sets the priority for a show
func WithPriority(priority int) func(*models.Show) {
	return func(show *models.Show) {
		show.Priority = priority
	}
}

// WithPosition sets the current season and episode for a show
func WithPosition(season, episode int) func(*models.Show) {
	return func(show *models.Show) {
		show.CurrentSeason = season
		show.CurrentEpisode = episode
	}
}

// WithAirDay sets the air day for a show
func WithAirDay(day string) func(*models.Show) {
	return func(show *models.Show) {
		show.AirDay = &day
	}
}

// WithPoster sets the poster URL for a show
func WithPoster(url string) func(*models.Show) {
	return func(show *models.Show) {
		show.PosterURL = &url
	}
}

// CaughtUp marks the show as fully caught up
func CaughtUp() func(*models.Show) {
	return func(show *models.Show) {
		show.CurrentEpisode = models.EpisodeCaughtUp
		show.Status = models.StatusCurrent
	}
}
