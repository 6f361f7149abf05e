// Package catalog turns untrusted candidate records from the recommendation
// source into well-formed domain.Movie values and projects the current
// catalog into filtered, sorted views.
//
// Everything here is pure: no I/O, no logging, no shared state. Malformed
// input is coerced to safe defaults instead of being rejected, so callers
// never have to handle a normalization error.
package catalog

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// Defaults used when a Normalizer field is left empty.
const (
	DefaultImageBaseURL   = "https://image.tmdb.org/t/p/"
	DefaultPosterWidth    = "w500"
	DefaultPlaceholderURL = "https://placehold.co/500x750/1a1a2e/ffffff?text="

	// syntheticIDLen is the length of ids generated for records without one.
	syntheticIDLen = 9
)

// Normalizer coerces raw records into movies. The zero value is usable and
// falls back to the package defaults and the wall clock.
type Normalizer struct {
	ImageBaseURL   string
	PosterWidth    string
	PlaceholderURL string

	// Now supplies the current time for the release-year fallback.
	Now func() time.Time
	// NewID synthesizes ids for records that lack one.
	NewID func() string
}

var (
	yearRE   = regexp.MustCompile(`\d{4}`)
	schemeRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
)

// Normalize maps each raw record to a Movie. The result always has the same
// length as raw; nil records produce a movie made entirely of defaults.
func (n Normalizer) Normalize(raw []map[string]any) []domain.Movie {
	out := make([]domain.Movie, len(raw))
	for i, r := range raw {
		out[i] = n.One(r)
	}
	return out
}

// One normalizes a single record.
func (n Normalizer) One(r map[string]any) domain.Movie {
	title := asString(r["title"])
	m := domain.Movie{
		MovieID:     n.id(r["movie_id"]),
		Title:       title,
		Overview:    asString(r["overview"]),
		Genres:      asGenres(r["genres"]),
		VoteAverage: asFloat(r["vote_average"]),
		PosterPath:  n.poster(r["poster_path"], title),
		ReleaseYear: n.year(r["release_year"]),
		MatchScore:  asFloat(r["match_score"]),
	}
	if v, ok := r["reasoning"]; ok && v != nil {
		s := asString(v)
		m.Reasoning = &s
	}
	for k, v := range r {
		if domain.IsMovieKey(k) {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[k] = v
	}
	return m
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n Normalizer) id(v any) string {
	if v != nil {
		if s := strings.TrimSpace(asString(v)); s != "" {
			return s
		}
	}
	if n.NewID != nil {
		return n.NewID()
	}
	return NewSyntheticID()
}

func (n Normalizer) poster(v any, title string) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "/"):
		base := n.ImageBaseURL
		if base == "" {
			base = DefaultImageBaseURL
		}
		width := n.PosterWidth
		if width == "" {
			width = DefaultPosterWidth
		}
		return strings.TrimRight(base, "/") + "/" + strings.Trim(width, "/") + s
	case schemeRE.MatchString(s):
		return s
	default:
		ph := n.PlaceholderURL
		if ph == "" {
			ph = DefaultPlaceholderURL
		}
		return ph + url.QueryEscape(title)
	}
}

func (n Normalizer) year(v any) int {
	switch t := v.(type) {
	case float64:
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			return int(t)
		}
	case float32:
		return n.year(float64(t))
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if m := yearRE.FindString(t); m != "" {
			if y, err := strconv.Atoi(m); err == nil {
				return y
			}
		}
	}
	return n.now().Year()
}

// NewSyntheticID returns a short random lowercase alphanumeric token. Ids
// are not stable across calls; collisions are possible but negligible for
// batch sizes the recommendation source returns.
func NewSyntheticID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:syntheticIDLen]
}

// asFloat parses numbers and numeric strings; anything else, NaN, and
// infinities become 0.
func asFloat(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// StringField renders a raw record value the way Normalize renders ids and
// text fields. nil renders as "".
func StringField(v any) string { return asString(v) }

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func asGenres(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		for _, g := range t {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
	case []any:
		for _, g := range t {
			if s := strings.TrimSpace(asString(g)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, g := range strings.Split(t, ",") {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
	}
	return out
}
