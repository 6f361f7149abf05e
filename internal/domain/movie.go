// Package domain defines the core entities of the recommendation service:
// movies produced by the recommendation source, user profiles, and the
// durable per-user aggregate (watchlist and history). It also holds the
// GORM persistence models used by the repo layer.
package domain

import (
	"github.com/goccy/go-json"
)

// Movie is a normalized catalog entry. Instances are produced by the
// catalog normalizer and treated as immutable afterwards; collection
// operations store copies.
//
// Extra carries any additional fields the recommendation source supplied.
// They are flattened into the top-level JSON object on encode and
// collected back on decode, so pass-through data survives persistence.
type Movie struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Genres      []string `json:"genres"`
	VoteAverage float64  `json:"vote_average"`
	PosterPath  string   `json:"poster_path"`
	ReleaseYear int      `json:"release_year"`
	MatchScore  float64  `json:"match_score"`
	Reasoning   *string  `json:"reasoning,omitempty"`

	Extra map[string]any `json:"-"`
}

// knownMovieKeys lists the JSON keys owned by Movie's typed fields.
var knownMovieKeys = []string{
	"movie_id", "title", "overview", "genres", "vote_average",
	"poster_path", "release_year", "match_score", "reasoning",
}

// IsMovieKey reports whether key is one of Movie's typed JSON keys.
func IsMovieKey(key string) bool {
	for _, k := range knownMovieKeys {
		if k == key {
			return true
		}
	}
	return false
}

// movieFields mirrors Movie without methods to avoid MarshalJSON recursion.
type movieFields struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Genres      []string `json:"genres"`
	VoteAverage float64  `json:"vote_average"`
	PosterPath  string   `json:"poster_path"`
	ReleaseYear int      `json:"release_year"`
	MatchScore  float64  `json:"match_score"`
	Reasoning   *string  `json:"reasoning,omitempty"`
}

// MarshalJSON encodes the typed fields and flattens Extra alongside them.
// Typed fields win when Extra contains the same key.
func (m Movie) MarshalJSON() ([]byte, error) {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	base, err := json.Marshal(movieFields{
		MovieID:     m.MovieID,
		Title:       m.Title,
		Overview:    m.Overview,
		Genres:      genres,
		VoteAverage: m.VoteAverage,
		PosterPath:  m.PosterPath,
		ReleaseYear: m.ReleaseYear,
		MatchScore:  m.MatchScore,
		Reasoning:   m.Reasoning,
	})
	if err != nil || len(m.Extra) == 0 {
		return base, err
	}

	out := make(map[string]json.RawMessage, len(m.Extra)+len(knownMovieKeys))
	for k, v := range m.Extra {
		if IsMovieKey(k) {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(base, &typed); err != nil {
		return nil, err
	}
	for k, v := range typed {
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the typed fields and keeps every other key in Extra.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var f movieFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*m = Movie{
		MovieID:     f.MovieID,
		Title:       f.Title,
		Overview:    f.Overview,
		Genres:      f.Genres,
		VoteAverage: f.VoteAverage,
		PosterPath:  f.PosterPath,
		ReleaseYear: f.ReleaseYear,
		MatchScore:  f.MatchScore,
		Reasoning:   f.Reasoning,
	}
	for k, v := range all {
		if IsMovieKey(k) {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[k] = v
	}
	return nil
}

// HasGenre reports whether g is one of the movie's genres (exact match).
func (m Movie) HasGenre(g string) bool {
	for _, x := range m.Genres {
		if x == g {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable state with m.
func (m Movie) Clone() Movie {
	c := m
	if m.Genres != nil {
		c.Genres = append([]string(nil), m.Genres...)
	}
	if m.Reasoning != nil {
		r := *m.Reasoning
		c.Reasoning = &r
	}
	if m.Extra != nil {
		c.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			c.Extra[k] = v
		}
	}
	return c
}
