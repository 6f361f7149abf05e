package catalog

import (
	"math"
	"strings"
	"testing"
	"time"
)

func fixedNormalizer() Normalizer {
	return Normalizer{
		Now:   func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
		NewID: func() string { return "synth0001" },
	}
}

func TestNormalize_EqualLengthAndNilRecords(t *testing.T) {
	n := fixedNormalizer()
	got := n.Normalize([]map[string]any{nil, {"title": "Heat"}, {}})
	if len(got) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(got))
	}
	if got[0].MovieID != "synth0001" || got[0].ReleaseYear != 2026 {
		t.Fatalf("nil record not defaulted: %+v", got[0])
	}
	if got[0].Genres == nil {
		t.Fatalf("genres must be non-nil")
	}
}

func TestNormalize_Year(t *testing.T) {
	n := fixedNormalizer()
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"missing", nil, 2026},
		{"number", float64(1999), 1999},
		{"int", 2001, 2001},
		{"plain string", "1984", 1984},
		{"date string", "released 2010-07-16", 2010},
		{"first run wins", "1972/2003", 1972},
		{"short digits", "99", 2026},
		{"garbage", "unknown", 2026},
		{"nan", math.NaN(), 2026},
		{"bool", true, 2026},
	}
	for _, tc := range cases {
		r := map[string]any{}
		if tc.in != nil {
			r["release_year"] = tc.in
		}
		if got := n.One(r).ReleaseYear; got != tc.want {
			t.Errorf("%s: year = %d; want %d", tc.name, got, tc.want)
		}
	}
}

func TestNormalize_MissingYearUsesCurrentYear(t *testing.T) {
	var n Normalizer // wall clock
	want := time.Now().Year()
	for _, r := range []map[string]any{{}, {"title": "x"}, {"release_year": nil}} {
		if got := n.One(r).ReleaseYear; got != want {
			t.Fatalf("year = %d; want current year %d", got, want)
		}
	}
}

func TestNormalize_Poster(t *testing.T) {
	n := fixedNormalizer()

	got := n.One(map[string]any{"poster_path": "/abc.jpg"}).PosterPath
	if !strings.HasPrefix(got, DefaultImageBaseURL) || !strings.HasSuffix(got, "/abc.jpg") {
		t.Fatalf("relative poster not resolved: %q", got)
	}
	if got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("unexpected poster url: %q", got)
	}

	abs := "https://cdn.example.com/p.png"
	if got := n.One(map[string]any{"poster_path": abs}).PosterPath; got != abs {
		t.Fatalf("absolute url changed: %q", got)
	}

	got = n.One(map[string]any{"poster_path": "abc.jpg", "title": "The Thing & Co"}).PosterPath
	if !strings.HasPrefix(got, DefaultPlaceholderURL) || !strings.HasSuffix(got, "The+Thing+%26+Co") {
		t.Fatalf("placeholder not synthesized: %q", got)
	}
	if got := n.One(map[string]any{"poster_path": 12}).PosterPath; !strings.HasPrefix(got, DefaultPlaceholderURL) {
		t.Fatalf("non-string poster should use placeholder: %q", got)
	}

	custom := Normalizer{ImageBaseURL: "https://img.local/", PosterWidth: "/w342/"}
	if got := custom.One(map[string]any{"poster_path": "/x.jpg"}).PosterPath; got != "https://img.local/w342/x.jpg" {
		t.Fatalf("custom base not honored: %q", got)
	}
}

func TestNormalize_Rating(t *testing.T) {
	n := fixedNormalizer()
	cases := []struct {
		in   any
		want float64
	}{
		{"7.2", 7.2},
		{" 8 ", 8},
		{"not-a-number", 0},
		{nil, 0},
		{float64(6.5), 6.5},
		{"NaN", 0},
		{"Inf", 0},
		{[]any{1}, 0},
	}
	for _, tc := range cases {
		r := map[string]any{}
		if tc.in != nil {
			r["vote_average"] = tc.in
		}
		if got := n.One(r).VoteAverage; got != tc.want {
			t.Errorf("vote_average(%v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_IDAndMatchScore(t *testing.T) {
	n := fixedNormalizer()
	if got := n.One(map[string]any{"movie_id": float64(603)}).MovieID; got != "603" {
		t.Fatalf("numeric id not stringified: %q", got)
	}
	if got := n.One(map[string]any{"movie_id": "tt0133093"}).MovieID; got != "tt0133093" {
		t.Fatalf("string id changed: %q", got)
	}
	if got := n.One(map[string]any{"movie_id": "  "}).MovieID; got != "synth0001" {
		t.Fatalf("blank id should be synthesized: %q", got)
	}
	if got := n.One(map[string]any{"match_score": "0.75"}).MatchScore; got != 0.75 {
		t.Fatalf("match_score string not coerced: %v", got)
	}
	if got := n.One(map[string]any{}).MatchScore; got != 0 {
		t.Fatalf("match_score default = %v", got)
	}
}

func TestNewSyntheticID(t *testing.T) {
	id := NewSyntheticID()
	if len(id) != syntheticIDLen {
		t.Fatalf("len = %d", len(id))
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			t.Fatalf("non-alphanumeric rune %q in %q", r, id)
		}
	}
	var n Normalizer
	a := n.One(map[string]any{}).MovieID
	b := n.One(map[string]any{}).MovieID
	if a == b {
		t.Fatalf("expected distinct synthesized ids, got %q twice", a)
	}
}

func TestNormalize_PassThroughAndGenres(t *testing.T) {
	n := fixedNormalizer()
	m := n.One(map[string]any{
		"title":     "Alien",
		"overview":  "In space...",
		"genres":    []any{"Horror", " Sci-Fi ", "", 3},
		"reasoning": "You like tension.",
		"director":  "Ridley Scott",
		"cast":      []any{"Sigourney Weaver"},
	})
	if m.Title != "Alien" || m.Overview != "In space..." {
		t.Fatalf("pass-through strings lost: %+v", m)
	}
	if len(m.Genres) != 3 || m.Genres[0] != "Horror" || m.Genres[1] != "Sci-Fi" || m.Genres[2] != "3" {
		t.Fatalf("genres = %#v", m.Genres)
	}
	if m.Reasoning == nil || *m.Reasoning != "You like tension." {
		t.Fatalf("reasoning lost")
	}
	if m.Extra["director"] != "Ridley Scott" || m.Extra["cast"] == nil {
		t.Fatalf("extra fields dropped: %+v", m.Extra)
	}
	if _, ok := m.Extra["title"]; ok {
		t.Fatalf("typed field copied into Extra")
	}

	if g := n.One(map[string]any{"genres": "Action, Thriller"}).Genres; len(g) != 2 || g[1] != "Thriller" {
		t.Fatalf("comma genres = %#v", g)
	}
	if n.One(map[string]any{}).Reasoning != nil {
		t.Fatalf("absent reasoning should stay nil")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := fixedNormalizer()
	first := n.One(map[string]any{
		"movie_id": "1", "title": "Heat", "poster_path": "/h.jpg",
		"release_year": "1995-12-15", "vote_average": "8.3", "match_score": 0.8,
	})
	again := n.One(map[string]any{
		"movie_id": first.MovieID, "title": first.Title, "poster_path": first.PosterPath,
		"release_year": float64(first.ReleaseYear), "vote_average": first.VoteAverage,
		"match_score": first.MatchScore,
	})
	if again.PosterPath != first.PosterPath || again.ReleaseYear != 1995 || again.VoteAverage != 8.3 {
		t.Fatalf("renormalizing changed the movie: %+v vs %+v", again, first)
	}
}

func TestStringField(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"27205", "27205"},
		{float64(27205), "27205"},
		{1.5, "1.5"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := StringField(tc.in); got != tc.want {
			t.Errorf("StringField(%#v) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
