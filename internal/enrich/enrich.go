package enrich

import (
	"context"

	"github.com/benwatts/whatson/internal/engine"
	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/external/tmdb"
	"github.com/benwatts/whatson/internal/external/trakt"
	"github.com/benwatts/whatson/internal/logger"
	"github.com/benwatts/whatson/internal/models"
	"github.com/benwatts/whatson/internal/store"
)

// PosterProvider looks up poster art and a catalog id by title
type PosterProvider interface {
	SearchShow(ctx context.Context, title string) (*tmdb.ShowResult, error)
}

// ScheduleProvider looks up catalog slugs and air schedules by title
type ScheduleProvider interface {
	SearchShow(ctx context.Context, title string) (*trakt.Show, error)
	GetShowDetails(ctx context.Context, slug string) (*trakt.ShowDetails, error)
}

// Service fetches metadata from the catalog providers and merges it into
// show records. Provider failures are never fatal: a failed lookup just
// leaves the show as it was.
type Service struct {
	store    *store.Store
	posters  PosterProvider
	schedule ScheduleProvider
	logger   *logger.Logger
}

// NewService creates an enrichment service. Either provider may be nil
// when disabled in configuration.
func NewService(st *store.Store, posters PosterProvider, schedule ScheduleProvider) *Service {
	return &Service{
		store:    st,
		posters:  posters,
		schedule: schedule,
		logger:   logger.App(),
	}
}

// RefreshShow fetches metadata for one show from both providers and
// applies whatever came back. Air day is only filled when the show has
// none; poster art and catalog ids are refreshed unconditionally. It
// reports whether the show record changed.
func (s *Service) RefreshShow(ctx context.Context, id uint) (bool, error) {
	show, err := s.store.GetShow(id)
	if err != nil {
		return false, err
	}

	fetched := s.fetch(ctx, *show)
	patch := engine.MergeEnrichment(*show, fetched)
	if patch.IsEmpty() {
		return false, nil
	}

	if err := s.store.Patch(id, patch); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshAll enriches every active show that has no poster yet and
// returns how many records were updated. Individual provider failures
// are skipped; a later refresh can pick those shows up again.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	shows, err := s.store.ListActive()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, show := range shows {
		if show.PosterURL != nil {
			continue
		}

		changed, err := s.RefreshShow(ctx, show.ID)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"show_id": show.ID,
				"title":   show.Title,
				"error":   err.Error(),
			}).Warn("Skipping show during bulk refresh")
			continue
		}
		if changed {
			updated++
		}
	}

	return updated, nil
}

// fetch queries both providers best-effort and assembles the result.
// Each provider call may fail independently without affecting the other.
func (s *Service) fetch(ctx context.Context, show models.Show) engine.Enrichment {
	var fetched engine.Enrichment

	if s.posters != nil {
		result, err := s.posters.SearchShow(ctx, show.Title)
		switch {
		case err != nil:
			s.logProviderMiss("tmdb", show, err)
		case result != nil:
			fetched.TMDBID = &result.CatalogID
			if result.PosterURL != "" {
				posterURL := result.PosterURL
				fetched.PosterURL = &posterURL
			}
		}
	}

	if s.schedule != nil {
		match, err := s.schedule.SearchShow(ctx, show.Title)
		switch {
		case err != nil:
			s.logProviderMiss("trakt", show, err)
		case match != nil && match.IDs.Slug != "":
			slug := match.IDs.Slug
			fetched.TraktSlug = &slug

			details, err := s.schedule.GetShowDetails(ctx, slug)
			if err != nil {
				s.logProviderMiss("trakt", show, err)
			} else if details != nil && details.Airs.Day != "" {
				airDay := details.Airs.Day
				fetched.AirDay = &airDay
			}
		}
	}

	return fetched
}

func (s *Service) logProviderMiss(provider string, show models.Show, err error) {
	fields := map[string]interface{}{
		"provider": provider,
		"show_id":  show.ID,
		"title":    show.Title,
		"error":    err.Error(),
	}
	if errors.IsProviderError(err) {
		s.logger.WithFields(fields).Warn("Catalog provider unavailable")
		return
	}
	s.logger.WithFields(fields).Warn("Catalog lookup failed")
}
