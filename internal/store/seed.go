package store

import "github.com/benwatts/whatson/internal/models"

// defaultShows is the starter watchlist loaded into an empty store on
// first boot.
var defaultShows = []models.Show{
	{Title: "The Pitt", Service: "Max", CurrentSeason: 1, CurrentEpisode: 99, AirDay: airDay("Thursday"), Priority: 1, Notes: notes("Caught up - new eps weekly"), Status: models.StatusCurrent},
	{Title: "Shrinking", Service: "Apple TV+", CurrentSeason: 3, CurrentEpisode: 99, AirDay: airDay("Tuesday"), Priority: 1, Notes: notes("Caught up"), Status: models.StatusCurrent},
	{Title: "Hijack", Service: "Apple TV+", CurrentSeason: 2, CurrentEpisode: 99, AirDay: airDay("Tuesday"), Priority: 1, Notes: notes("S2 through March 4"), Status: models.StatusCurrent},
	{Title: "Will Trent", Service: "Hulu", CurrentSeason: 4, CurrentEpisode: 99, AirDay: airDay("Tuesday"), Priority: 3, Notes: notes("Watch if nothing else on"), Status: models.StatusCurrent},
	{Title: "Law & Order", Service: "Peacock", CurrentSeason: 25, CurrentEpisode: 99, AirDay: airDay("Thursday"), Priority: 2, Notes: notes("Caught up-ish"), Status: models.StatusCurrent},
	{Title: "Trying", Service: "Apple TV+", CurrentSeason: 4, CurrentEpisode: 2, Priority: 2, Notes: notes("Catching up"), Status: models.StatusWatching},
	{Title: "Bad Sisters", Service: "Apple TV+", CurrentSeason: 2, CurrentEpisode: 6, Priority: 1, Notes: notes("S2 in progress"), Status: models.StatusWatching},
	{Title: "Annika", Service: "Prime Video", CurrentSeason: 1, CurrentEpisode: 2, Priority: 1, Notes: notes("Bought on Prime"), Status: models.StatusWatching},
	{Title: "Landman", Service: "Paramount+", CurrentSeason: 1, CurrentEpisode: 99, Priority: 2, Notes: notes("S1 complete - S2 TBD"), Status: models.StatusHiatus},
	{Title: "High Potential", Service: "Hulu", CurrentSeason: 1, CurrentEpisode: 99, AirDay: airDay("Tuesday"), Priority: 3, Notes: notes("Watch if nothing else on"), Status: models.StatusCurrent},
	{Title: "Endeavour", Service: "Prime Video", CurrentSeason: 7, CurrentEpisode: 1, AirDay: airDay("Weekend"), Priority: 2, Notes: notes("Weekend show, nap-friendly"), Status: models.StatusWatching},
}

// SeedIfEmpty loads the default watchlist when the store holds no shows
// at all. It reports whether seeding happened. Safe to call on every
// startup; a non-empty store is left untouched.
func (s *Store) SeedIfEmpty() (bool, error) {
	count, err := s.Count()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for i := range defaultShows {
		show := defaultShows[i]
		if _, err := s.Insert(&show); err != nil {
			return false, err
		}
	}
	return true, nil
}

func airDay(day string) *string {
	return &day
}

func notes(text string) *string {
	return &text
}
