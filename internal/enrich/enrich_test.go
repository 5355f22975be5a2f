package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/external/tmdb"
	"github.com/benwatts/whatson/internal/external/trakt"
	"github.com/benwatts/whatson/internal/store"
	testhelpers "github.com/benwatts/whatson/internal/testing"
	"gorm.io/gorm"
)

type fakePosters struct {
	result *tmdb.ShowResult
	err    error
	calls  int
}

func (f *fakePosters) SearchShow(ctx context.Context, title string) (*tmdb.ShowResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeSchedule struct {
	show    *trakt.Show
	details *trakt.ShowDetails
	err     error
}

func (f *fakeSchedule) SearchShow(ctx context.Context, title string) (*trakt.Show, error) {
	return f.show, f.err
}

func (f *fakeSchedule) GetShowDetails(ctx context.Context, slug string) (*trakt.ShowDetails, error) {
	return f.details, f.err
}

func scheduleFor(slug, airDay string) *fakeSchedule {
	show := &trakt.Show{Title: "Test Show"}
	show.IDs.Slug = slug

	details := &trakt.ShowDetails{Title: "Test Show"}
	details.Airs.Day = airDay

	return &fakeSchedule{show: show, details: details}
}

func newTestService(t *testing.T, posters PosterProvider, schedule ScheduleProvider) (*Service, *store.Store, *gorm.DB) {
	t.Helper()
	db := testhelpers.TestDB(t)
	st := store.New(db)
	return NewService(st, posters, schedule), st, db
}

func TestRefreshShowMergesBothProviders(t *testing.T) {
	posters := &fakePosters{result: &tmdb.ShowResult{CatalogID: 123, PosterURL: "https://posters/x.jpg"}}
	svc, st, db := newTestService(t, posters, scheduleFor("test-show", "Thursday"))

	show := testhelpers.CreateShow(db)

	changed, err := svc.RefreshShow(context.Background(), show.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := st.GetShow(show.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TMDBID)
	assert.Equal(t, 123, *got.TMDBID)
	require.NotNil(t, got.PosterURL)
	assert.Equal(t, "https://posters/x.jpg", *got.PosterURL)
	require.NotNil(t, got.TraktSlug)
	assert.Equal(t, "test-show", *got.TraktSlug)
	require.NotNil(t, got.AirDay)
	assert.Equal(t, "Thursday", *got.AirDay)
}

func TestRefreshShowKeepsUserAirDay(t *testing.T) {
	svc, st, db := newTestService(t, nil, scheduleFor("test-show", "Friday"))

	show := testhelpers.CreateShow(db, testhelpers.WithAirDay("Tuesday"))

	_, err := svc.RefreshShow(context.Background(), show.ID)
	require.NoError(t, err)

	got, err := st.GetShow(show.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AirDay)
	assert.Equal(t, "Tuesday", *got.AirDay)
}

func TestRefreshShowProviderFailureIsNotFatal(t *testing.T) {
	posters := &fakePosters{err: errors.ProviderError("tmdb", "down", nil)}
	schedule := &fakeSchedule{err: errors.ProviderError("trakt", "down", nil)}
	svc, st, db := newTestService(t, posters, schedule)

	show := testhelpers.CreateShow(db)

	changed, err := svc.RefreshShow(context.Background(), show.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := st.GetShow(show.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PosterURL)
}

func TestRefreshShowNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil, nil)

	_, err := svc.RefreshShow(context.Background(), 77)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRefreshAllTargetsShowsWithoutPosters(t *testing.T) {
	posters := &fakePosters{result: &tmdb.ShowResult{CatalogID: 5, PosterURL: "https://posters/new.jpg"}}
	svc, _, db := newTestService(t, posters, nil)

	testhelpers.CreateShow(db, testhelpers.WithTitle("Bare One"))
	testhelpers.CreateShow(db, testhelpers.WithTitle("Bare Two"))
	testhelpers.CreateShow(db, testhelpers.WithTitle("Has Poster"), testhelpers.WithPoster("https://posters/old.jpg"))

	updated, err := svc.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, posters.calls, "shows with posters must be skipped entirely")
}

func TestRefreshAllContinuesPastFailures(t *testing.T) {
	// The poster provider is down but the schedule provider still
	// answers, so every show is attempted and enriched with a slug.
	posters := &fakePosters{err: errors.ProviderError("tmdb", "down", nil)}
	svc, _, db := newTestService(t, posters, scheduleFor("some-show", "Monday"))

	testhelpers.CreateShow(db, testhelpers.WithTitle("One"))
	testhelpers.CreateShow(db, testhelpers.WithTitle("Two"))

	updated, err := svc.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
}
