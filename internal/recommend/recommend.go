package recommend

import (
	"context"

	"github.com/benwatts/whatson/internal/engine"
	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/external/trakt"
	"github.com/benwatts/whatson/internal/logger"
	"github.com/benwatts/whatson/internal/models"
	"github.com/benwatts/whatson/internal/store"
)

// candidateFetchLimit leaves headroom above the display cap so filtered
// candidates still fill the list.
const candidateFetchLimit = 3 * engine.MaxRecommendations

// CatalogProvider supplies recommendation candidates and show details
type CatalogProvider interface {
	TrendingShows(ctx context.Context, limit int) ([]trakt.Show, error)
	SearchShows(ctx context.Context, query string) ([]trakt.Show, error)
	GetShowDetails(ctx context.Context, slug string) (*trakt.ShowDetails, error)
}

// Service surfaces catalog shows the user might want to track, minus
// anything already on the watchlist or previously dismissed
type Service struct {
	store   *store.Store
	catalog CatalogProvider
	logger  *logger.Logger
}

// NewService creates a recommendation service
func NewService(st *store.Store, catalog CatalogProvider) *Service {
	return &Service{
		store:   st,
		catalog: catalog,
		logger:  logger.App(),
	}
}

// Trending returns filtered trending candidates in provider order
func (s *Service) Trending(ctx context.Context) ([]engine.Candidate, error) {
	if s.catalog == nil {
		return []engine.Candidate{}, nil
	}

	shows, err := s.catalog.TrendingShows(ctx, candidateFetchLimit)
	if err != nil {
		// Recommendations degrade to an empty list when the provider
		// is down; this is never a hard failure for the user.
		s.logger.WithFields(map[string]interface{}{"error": err.Error()}).
			Warn("Trending lookup failed")
		return []engine.Candidate{}, nil
	}

	return s.filter(shows)
}

// Search returns filtered search candidates in provider order
func (s *Service) Search(ctx context.Context, query string) ([]engine.Candidate, error) {
	if query == "" {
		return nil, errors.ValidationError("search query is required")
	}
	if s.catalog == nil {
		return []engine.Candidate{}, nil
	}

	shows, err := s.catalog.SearchShows(ctx, query)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{"query": query, "error": err.Error()}).
			Warn("Catalog search failed")
		return []engine.Candidate{}, nil
	}

	return s.filter(shows)
}

// Dismiss marks a candidate slug as rejected. Dismissing the same slug
// twice is a no-op.
func (s *Service) Dismiss(slug string) error {
	if slug == "" {
		return errors.ValidationError("slug is required")
	}
	return s.store.Dismiss(slug)
}

// AddFromRecommendation creates a show from a catalog slug, carrying over
// the air schedule and identifiers the provider knows about
func (s *Service) AddFromRecommendation(ctx context.Context, slug, service string) (*models.Show, error) {
	if slug == "" {
		return nil, errors.ValidationError("slug is required")
	}
	if s.catalog == nil {
		return nil, errors.New(errors.CodeProviderUnavailable, "catalog provider is disabled")
	}

	details, err := s.catalog.GetShowDetails(ctx, slug)
	if err != nil {
		return nil, err
	}
	if details == nil || details.Title == "" {
		return nil, errors.New(errors.CodeNotFound, "catalog show not found: "+slug)
	}

	if service == "" {
		service = details.Network
	}
	if service == "" {
		service = "Unknown"
	}

	show := &models.Show{
		Title:     details.Title,
		Service:   service,
		Status:    models.StatusWatching,
		TraktSlug: &details.IDs.Slug,
	}
	if details.IDs.TMDB != 0 {
		tmdbID := details.IDs.TMDB
		show.TMDBID = &tmdbID
	}
	if details.Airs.Day != "" {
		airDay := details.Airs.Day
		show.AirDay = &airDay
	}

	if _, err := s.store.Insert(show); err != nil {
		return nil, err
	}
	return show, nil
}

func (s *Service) filter(candidates []trakt.Show) ([]engine.Candidate, error) {
	shows, err := s.store.ListActive()
	if err != nil {
		return nil, err
	}
	dismissed, err := s.store.ListDismissed()
	if err != nil {
		return nil, err
	}

	converted := make([]engine.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.IDs.Slug == "" {
			continue
		}
		converted = append(converted, engine.Candidate{
			Slug:     c.IDs.Slug,
			Title:    c.Title,
			Year:     c.Year,
			Status:   c.Status,
			Overview: c.Overview,
		})
	}

	return engine.FilterRecommendations(converted, shows, dismissed), nil
}
