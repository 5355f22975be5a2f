package engine

import (
	"sort"
	"strings"

	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/models"
)

// MaxRecommendations caps the number of candidates surfaced to the user
const MaxRecommendations = 6

// unscheduledRank sorts shows without an air day after every weekday
const unscheduledRank = 99

// dayOrder ranks air days Sunday-first. "Weekend" is a user label for
// shows watched on either weekend day and ranks with Saturday.
var dayOrder = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
	"Weekend":   6,
}

// ShowPatch is a partial update to a show. Nil fields are left untouched.
// It replaces free-form field maps at the storage boundary so only known
// columns can ever be written.
type ShowPatch struct {
	Title            *string
	Service          *string
	Status           *models.Status
	CurrentSeason    *int
	CurrentEpisode   *int
	TotalSeasons     *int
	EpisodesInSeason *int
	AirDay           *string
	Priority         *int
	Notes            *string
	TMDBID           *int
	PosterURL        *string
	TraktSlug        *string
}

// IsEmpty reports whether the patch changes nothing
func (p ShowPatch) IsEmpty() bool {
	return p == ShowPatch{}
}

// Buckets is the categorized view of the active watchlist
type Buckets struct {
	Priority   []models.Show `json:"priority"`
	Backup     []models.Show `json:"backup"`
	CatchingUp []models.Show `json:"catching_up"`
	Hiatus     []models.Show `json:"hiatus"`
}

// Classify partitions active shows into display buckets. Every show lands
// in exactly one bucket; first matching rule wins. Dropped shows are
// filtered at the store and never reach this function.
func Classify(shows []models.Show) Buckets {
	var b Buckets
	for _, show := range shows {
		switch {
		case show.Status == models.StatusHiatus:
			b.Hiatus = append(b.Hiatus, show)
		case show.Priority == models.PriorityBackup:
			b.Backup = append(b.Backup, show)
		case show.CurrentEpisode != models.EpisodeCaughtUp && show.Status == models.StatusWatching:
			b.CatchingUp = append(b.CatchingUp, show)
		default:
			b.Priority = append(b.Priority, show)
		}
	}
	return b
}

// SortPriority orders the priority bucket by air day (Sunday first,
// unscheduled last), then title. The sort is stable so shows that tie on
// both keys keep store order. Other buckets retain store order and must
// not be passed through this function.
func SortPriority(shows []models.Show) []models.Show {
	sorted := make([]models.Show, len(shows))
	copy(sorted, shows)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := airDayRank(sorted[i].AirDay), airDayRank(sorted[j].AirDay)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Title < sorted[j].Title
	})

	return sorted
}

func airDayRank(day *string) int {
	if day == nil {
		return unscheduledRank
	}
	if rank, ok := dayOrder[*day]; ok {
		return rank
	}
	return unscheduledRank
}

// AdvanceOnWatched produces the position update for a watched episode:
// the season watched becomes current and the position moves to the next
// episode number. There is no rollover into the next season; that is an
// explicit user action via StartNextSeason.
func AdvanceOnWatched(season, episode int) (ShowPatch, error) {
	if season < 1 {
		return ShowPatch{}, errors.ValidationError("season must be at least 1")
	}
	if episode < 1 {
		return ShowPatch{}, errors.ValidationError("episode must be at least 1")
	}

	next := episode + 1
	return ShowPatch{
		CurrentSeason:  &season,
		CurrentEpisode: &next,
	}, nil
}

// MarkCaughtUp flags a show as fully caught up with released episodes.
// Idempotent: applying it twice yields the same state.
func MarkCaughtUp() ShowPatch {
	episode := models.EpisodeCaughtUp
	status := models.StatusCurrent
	return ShowPatch{
		CurrentEpisode: &episode,
		Status:         &status,
	}
}

// MarkHiatus takes a show off the active rotation between seasons
func MarkHiatus() ShowPatch {
	status := models.StatusHiatus
	return ShowPatch{Status: &status}
}

// StartNextSeason moves a show to episode 1 of the next season and puts
// it back into the watching rotation. Intended for the hiatus-to-watching
// transition but valid from any state.
func StartNextSeason(show models.Show) ShowPatch {
	season := show.CurrentSeason + 1
	episode := 1
	status := models.StatusWatching
	return ShowPatch{
		CurrentSeason:  &season,
		CurrentEpisode: &episode,
		Status:         &status,
	}
}

// AdvanceNextEpisode bumps the current episode by one. A caught-up show
// resets to episode 2: the sentinel stands in for "episode 1 watched", so
// the next unwatched episode is the second. Shows marked current stay
// current; anything else goes back to watching.
func AdvanceNextEpisode(show models.Show) ShowPatch {
	next := show.CurrentEpisode + 1
	if show.CurrentEpisode == models.EpisodeCaughtUp {
		next = 2
	}

	patch := ShowPatch{CurrentEpisode: &next}
	if show.Status != models.StatusCurrent {
		status := models.StatusWatching
		patch.Status = &status
	}
	return patch
}

// Enrichment holds metadata fetched from the external catalog providers
type Enrichment struct {
	TMDBID    *int
	PosterURL *string
	TraktSlug *string
	AirDay    *string
}

// MergeEnrichment folds fetched metadata into a patch for the show.
// Air day is user-authoritative once set and is only filled when the show
// has none; poster art and catalog identifiers are refreshed whenever the
// provider returned them.
func MergeEnrichment(show models.Show, fetched Enrichment) ShowPatch {
	var patch ShowPatch

	if fetched.TMDBID != nil {
		patch.TMDBID = fetched.TMDBID
	}
	if fetched.PosterURL != nil {
		patch.PosterURL = fetched.PosterURL
	}
	if fetched.TraktSlug != nil {
		patch.TraktSlug = fetched.TraktSlug
	}
	if fetched.AirDay != nil && show.AirDay == nil {
		patch.AirDay = fetched.AirDay
	}

	return patch
}

// Candidate is a recommendation candidate from the catalog provider
type Candidate struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Status    string `json:"status"`
	Overview  string `json:"overview,omitempty"`
	PosterURL string `json:"poster_url,omitempty"`
}

// FilterRecommendations drops candidates already on the watchlist (by
// case-insensitive title) or previously dismissed (by slug), keeping
// provider order up to MaxRecommendations.
func FilterRecommendations(candidates []Candidate, shows []models.Show, dismissed []string) []Candidate {
	titles := make(map[string]struct{}, len(shows))
	for _, show := range shows {
		titles[strings.ToLower(show.Title)] = struct{}{}
	}

	rejected := make(map[string]struct{}, len(dismissed))
	for _, slug := range dismissed {
		rejected[slug] = struct{}{}
	}

	result := make([]Candidate, 0, MaxRecommendations)
	for _, c := range candidates {
		if _, ok := titles[strings.ToLower(c.Title)]; ok {
			continue
		}
		if _, ok := rejected[c.Slug]; ok {
			continue
		}
		result = append(result, c)
		if len(result) == MaxRecommendations {
			break
		}
	}
	return result
}
