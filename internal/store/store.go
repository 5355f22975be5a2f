package store

import (
	"errors"
	"time"

	"github.com/benwatts/whatson/internal/engine"
	apperrors "github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns persistence and identity assignment for shows, watch
// history, and dismissed recommendations. It is the sole point of
// mutation; the engine only derives views and patches.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given database handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListActive returns all non-dropped shows ordered by priority, then air
// day, then title. This order is what the non-priority display buckets
// preserve.
func (s *Store) ListActive() ([]models.Show, error) {
	var shows []models.Show
	err := s.db.
		Where("status != ?", models.StatusDropped).
		Order("priority ASC, air_day ASC, title ASC").
		Find(&shows).Error
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list shows", err)
	}
	return shows, nil
}

// GetShow returns a single show by id
func (s *Store) GetShow(id uint) (*models.Show, error) {
	var show models.Show
	if err := s.db.First(&show, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("show", id)
		}
		return nil, apperrors.DatabaseError("failed to get show", err)
	}
	return &show, nil
}

// Insert persists a new show and returns its assigned id. Zero-valued
// position and priority fields receive the standard defaults.
func (s *Store) Insert(show *models.Show) (uint, error) {
	if show.Status == "" {
		show.Status = models.StatusWatching
	}
	if show.CurrentSeason == 0 {
		show.CurrentSeason = 1
	}
	if show.CurrentEpisode == 0 {
		show.CurrentEpisode = 1
	}
	if show.Priority == 0 {
		show.Priority = models.PriorityDefault
	}

	if err := s.db.Create(show).Error; err != nil {
		return 0, apperrors.DatabaseError("failed to insert show", err)
	}
	return show.ID, nil
}

// Patch applies a partial update to a show, always stamping updated_at.
// Only fields carried by the typed patch can ever reach the database.
func (s *Store) Patch(id uint, patch engine.ShowPatch) error {
	if _, err := s.GetShow(id); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	updates := patchUpdates(patch)
	updates["updated_at"] = time.Now()

	err := s.db.Model(&models.Show{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return apperrors.DatabaseError("failed to patch show", err)
	}
	return nil
}

// MarkWatched appends a history entry and advances the show position in
// a single transaction. History rows are never deduplicated; marking the
// same episode twice records a rewatch.
func (s *Store) MarkWatched(id uint, season, episode int) error {
	show, err := s.GetShow(id)
	if err != nil {
		return err
	}

	patch, err := engine.AdvanceOnWatched(season, episode)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.WatchHistoryEntry{
			ShowID:    show.ID,
			Season:    season,
			Episode:   episode,
			WatchedAt: time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		updates := patchUpdates(patch)
		updates["updated_at"] = time.Now()
		return tx.Model(&models.Show{}).Where("id = ?", show.ID).Updates(updates).Error
	})
	if err != nil {
		return apperrors.DatabaseError("failed to mark watched", err)
	}
	return nil
}

// Delete removes a show and all of its watch history
func (s *Store) Delete(id uint) error {
	if _, err := s.GetShow(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("show_id = ?", id).Delete(&models.WatchHistoryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Show{}, id).Error
	})
	if err != nil {
		return apperrors.DatabaseError("failed to delete show", err)
	}
	return nil
}

// History returns the watch history for a show, most recent first
func (s *Store) History(showID uint) ([]models.WatchHistoryEntry, error) {
	var entries []models.WatchHistoryEntry
	err := s.db.
		Where("show_id = ?", showID).
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list watch history", err)
	}
	return entries, nil
}

// Dismiss records a rejected recommendation slug. Duplicate dismissals
// are silently absorbed.
func (s *Store) Dismiss(slug string) error {
	rec := models.DismissedRecommendation{
		TraktSlug:   slug,
		DismissedAt: time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
	if err != nil {
		return apperrors.DatabaseError("failed to dismiss recommendation", err)
	}
	return nil
}

// ListDismissed returns all dismissed recommendation slugs
func (s *Store) ListDismissed() ([]string, error) {
	var slugs []string
	err := s.db.Model(&models.DismissedRecommendation{}).Pluck("trakt_slug", &slugs).Error
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list dismissed recommendations", err)
	}
	return slugs, nil
}

// Count returns the total number of shows, including dropped ones
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Show{}).Count(&count).Error; err != nil {
		return 0, apperrors.DatabaseError("failed to count shows", err)
	}
	return count, nil
}

// patchUpdates converts a typed patch into a column update map
func patchUpdates(patch engine.ShowPatch) map[string]interface{} {
	updates := make(map[string]interface{})

	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Service != nil {
		updates["service"] = *patch.Service
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.CurrentSeason != nil {
		updates["current_season"] = *patch.CurrentSeason
	}
	if patch.CurrentEpisode != nil {
		updates["current_episode"] = *patch.CurrentEpisode
	}
	if patch.TotalSeasons != nil {
		updates["total_seasons"] = *patch.TotalSeasons
	}
	if patch.EpisodesInSeason != nil {
		updates["episodes_in_season"] = *patch.EpisodesInSeason
	}
	if patch.AirDay != nil {
		updates["air_day"] = *patch.AirDay
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.TMDBID != nil {
		updates["tmdb_id"] = *patch.TMDBID
	}
	if patch.PosterURL != nil {
		updates["poster_url"] = *patch.PosterURL
	}
	if patch.TraktSlug != nil {
		updates["trakt_slug"] = *patch.TraktSlug
	}

	return updates
}
