package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwatts/whatson/internal/engine"
	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/external/trakt"
	"github.com/benwatts/whatson/internal/store"
	testhelpers "github.com/benwatts/whatson/internal/testing"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	trending []trakt.Show
	search   []trakt.Show
	details  *trakt.ShowDetails
	err      error
}

func (f *fakeCatalog) TrendingShows(ctx context.Context, limit int) ([]trakt.Show, error) {
	return f.trending, f.err
}

func (f *fakeCatalog) SearchShows(ctx context.Context, query string) ([]trakt.Show, error) {
	return f.search, f.err
}

func (f *fakeCatalog) GetShowDetails(ctx context.Context, slug string) (*trakt.ShowDetails, error) {
	return f.details, f.err
}

func catalogShow(slug, title string) trakt.Show {
	s := trakt.Show{Title: title, Year: 2024}
	s.IDs.Slug = slug
	return s
}

func newTestService(t *testing.T, catalog CatalogProvider) (*Service, *store.Store, *gorm.DB) {
	t.Helper()
	db := testhelpers.TestDB(t)
	st := store.New(db)
	return NewService(st, catalog), st, db
}

func TestTrendingFiltersTrackedAndDismissed(t *testing.T) {
	catalog := &fakeCatalog{trending: []trakt.Show{
		catalogShow("the-pitt", "The Pitt"),
		catalogShow("dismissed-one", "Dismissed One"),
		catalogShow("severance", "Severance"),
	}}
	svc, st, db := newTestService(t, catalog)

	testhelpers.CreateShow(db, testhelpers.WithTitle("the pitt"))
	require.NoError(t, st.Dismiss("dismissed-one"))

	candidates, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "severance", candidates[0].Slug)
}

func TestTrendingDegradesToEmptyOnProviderFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.ProviderError("trakt", "down", nil)}
	svc, _, _ := newTestService(t, catalog)

	candidates, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestTrendingWithoutProvider(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	candidates, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestTrendingRespectsCap(t *testing.T) {
	var shows []trakt.Show
	for _, slug := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		shows = append(shows, catalogShow(slug, "Show "+slug))
	}
	svc, _, _ := newTestService(t, &fakeCatalog{trending: shows})

	candidates, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, engine.MaxRecommendations)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeCatalog{})

	_, err := svc.Search(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDismiss(t *testing.T) {
	svc, st, _ := newTestService(t, &fakeCatalog{})

	require.NoError(t, svc.Dismiss("boring-show"))
	require.NoError(t, svc.Dismiss("boring-show"))

	slugs, err := st.ListDismissed()
	require.NoError(t, err)
	assert.Equal(t, []string{"boring-show"}, slugs)
}

func TestDismissRequiresSlug(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeCatalog{})

	err := svc.Dismiss("")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestAddFromRecommendation(t *testing.T) {
	details := &trakt.ShowDetails{Title: "Slow Horses", Year: 2022, Network: "Apple TV+"}
	details.IDs.Slug = "slow-horses"
	details.IDs.TMDB = 95480
	details.Airs.Day = "Wednesday"

	svc, st, _ := newTestService(t, &fakeCatalog{details: details})

	show, err := svc.AddFromRecommendation(context.Background(), "slow-horses", "")
	require.NoError(t, err)
	require.NotZero(t, show.ID)

	got, err := st.GetShow(show.ID)
	require.NoError(t, err)
	assert.Equal(t, "Slow Horses", got.Title)
	assert.Equal(t, "Apple TV+", got.Service)
	require.NotNil(t, got.TraktSlug)
	assert.Equal(t, "slow-horses", *got.TraktSlug)
	require.NotNil(t, got.TMDBID)
	assert.Equal(t, 95480, *got.TMDBID)
	require.NotNil(t, got.AirDay)
	assert.Equal(t, "Wednesday", *got.AirDay)
	assert.Equal(t, 1, got.CurrentSeason)
	assert.Equal(t, 1, got.CurrentEpisode)
}

func TestAddFromRecommendationUnknownSlug(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeCatalog{details: nil})

	_, err := svc.AddFromRecommendation(context.Background(), "ghost", "")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
