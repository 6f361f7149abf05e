package catalog

import (
	"sort"
	"strings"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// AllGenres is the sentinel genre selection meaning "no genre filter".
const AllGenres = "All"

// SortKey selects the ordering of a view. All keys sort descending.
type SortKey string

const (
	SortMatch  SortKey = "match"
	SortRating SortKey = "rating"
	SortYear   SortKey = "year"
	// SortRecent keeps collection order (most recently added first).
	SortRecent SortKey = "recent"
)

// ParseSortKey maps user input to a SortKey, returning def for unknown or
// empty values.
func ParseSortKey(s string, def SortKey) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortMatch:
		return SortMatch
	case SortRating:
		return SortRating
	case SortYear:
		return SortYear
	case SortRecent:
		return SortRecent
	}
	return def
}

// ParseResultSortKey is ParseSortKey restricted to the keys that apply to
// the result view. "recent" has no meaning there and maps to SortMatch.
func ParseResultSortKey(s string) SortKey {
	if k := ParseSortKey(s, SortMatch); k != SortRecent {
		return k
	}
	return SortMatch
}

// Selection is the UI state applied to the result view.
type Selection struct {
	Genre       string
	HideWatched bool
	Sort        SortKey
}

// AvailableGenres returns "All" followed by the distinct genres of the
// catalog in alphabetical order.
func AvailableGenres(movies []domain.Movie) []string {
	seen := make(map[string]struct{})
	for _, m := range movies {
		for _, g := range m.Genres {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return append([]string{AllGenres}, out...)
}

// Project computes the result view: genre filter, then hide-watched filter
// against history, then a stable sort. The input slice is not modified.
func Project(movies []domain.Movie, history []domain.Movie, sel Selection) []domain.Movie {
	var watched map[string]struct{}
	if sel.HideWatched {
		watched = make(map[string]struct{}, len(history))
		for _, h := range history {
			watched[h.MovieID] = struct{}{}
		}
	}

	filterGenre := sel.Genre != "" && sel.Genre != AllGenres
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if filterGenre && !m.HasGenre(sel.Genre) {
			continue
		}
		if watched != nil {
			if _, seen := watched[m.MovieID]; seen {
				continue
			}
		}
		out = append(out, m)
	}

	key := sel.Sort
	if key == "" || key == SortRecent {
		key = SortMatch
	}
	sortMovies(out, key)
	return out
}

// SortLibrary returns a sorted copy of a watchlist or history. SortRecent
// (and the empty key) keep the stored most-recent-first order.
func SortLibrary(movies []domain.Movie, key SortKey) []domain.Movie {
	out := append([]domain.Movie(nil), movies...)
	if out == nil {
		out = []domain.Movie{}
	}
	if key == "" || key == SortRecent {
		return out
	}
	sortMovies(out, key)
	return out
}

// sortMovies sorts in place, descending by key. Ties keep their relative order.
func sortMovies(ms []domain.Movie, key SortKey) {
	var less func(a, b domain.Movie) bool
	switch key {
	case SortRating:
		less = func(a, b domain.Movie) bool { return a.VoteAverage > b.VoteAverage }
	case SortYear:
		less = func(a, b domain.Movie) bool { return a.ReleaseYear > b.ReleaseYear }
	default:
		less = func(a, b domain.Movie) bool { return a.MatchScore > b.MatchScore }
	}
	sort.SliceStable(ms, func(i, j int) bool { return less(ms[i], ms[j]) })
}
