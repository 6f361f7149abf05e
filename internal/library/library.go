// Package library holds the membership transitions of the two durable
// collections, watchlist and history. Every function mutates the given
// aggregate in place and is a defined no-op when the movie is absent, so
// callers never see a "not found" error from here.
//
// Invariants maintained for any sequence of calls:
//   - movie_id is unique within Watchlist and within History
//   - marking a movie watched removes it from Watchlist
//   - History entries carry MatchScore == WatchedScore
package library

import (
	"errors"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// WatchedScore is the match score forced onto a movie when it is marked watched.
const WatchedScore = 1.0

// ErrProfileNotFound is returned by SelectProfile for an id not in the roster.
var ErrProfileNotFound = errors.New("profile not found")

// ToggleWatchlist removes m from the watchlist if present, otherwise
// prepends a copy of it. It reports whether m is in the watchlist afterwards.
func ToggleWatchlist(d *domain.UserData, m domain.Movie) bool {
	if i := indexOf(d.Watchlist, m.MovieID); i >= 0 {
		d.Watchlist = removeAt(d.Watchlist, i)
		return false
	}
	d.Watchlist = prepend(d.Watchlist, m.Clone())
	return true
}

// ToggleWatched un-marks m if it is in history. Otherwise it removes m from
// the watchlist and prepends a copy with MatchScore forced to WatchedScore.
// Un-marking does not restore watchlist membership. It reports whether m
// is in history afterwards.
func ToggleWatched(d *domain.UserData, m domain.Movie) bool {
	if i := indexOf(d.History, m.MovieID); i >= 0 {
		d.History = removeAt(d.History, i)
		return false
	}
	if i := indexOf(d.Watchlist, m.MovieID); i >= 0 {
		d.Watchlist = removeAt(d.Watchlist, i)
	}
	seen := m.Clone()
	seen.MatchScore = WatchedScore
	d.History = prepend(d.History, seen)
	return true
}

// RemoveFromWatchlist drops the movie with id from the watchlist, if present.
func RemoveFromWatchlist(d *domain.UserData, id string) bool {
	if i := indexOf(d.Watchlist, id); i >= 0 {
		d.Watchlist = removeAt(d.Watchlist, i)
		return true
	}
	return false
}

// RemoveFromHistory drops the movie with id from history, if present.
func RemoveFromHistory(d *domain.UserData, id string) bool {
	if i := indexOf(d.History, id); i >= 0 {
		d.History = removeAt(d.History, i)
		return true
	}
	return false
}

// ClearHistory empties history. The watchlist is untouched.
func ClearHistory(d *domain.UserData) int {
	n := len(d.History)
	d.History = []domain.Movie{}
	return n
}

// SelectProfile makes the roster entry with profileID the current user.
func SelectProfile(d *domain.UserData, profileID string) error {
	for _, p := range d.Profiles {
		if p.ID == profileID {
			u := p
			d.User = &u
			return nil
		}
	}
	return ErrProfileNotFound
}

// SignOut clears the current user. Collections are kept.
func SignOut(d *domain.UserData) {
	d.User = nil
}

// Contains reports whether a movie with id is in ms.
func Contains(ms []domain.Movie, id string) bool { return indexOf(ms, id) >= 0 }

func indexOf(ms []domain.Movie, id string) int {
	for i := range ms {
		if ms[i].MovieID == id {
			return i
		}
	}
	return -1
}

func removeAt(ms []domain.Movie, i int) []domain.Movie {
	out := make([]domain.Movie, 0, len(ms)-1)
	out = append(out, ms[:i]...)
	return append(out, ms[i+1:]...)
}

func prepend(ms []domain.Movie, m domain.Movie) []domain.Movie {
	out := make([]domain.Movie, 0, len(ms)+1)
	out = append(out, m)
	return append(out, ms...)
}
