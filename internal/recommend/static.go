package recommend

import (
	"context"
	"math"
	"strings"

	"github.com/tbourn/go-moodreel-backend/internal/search"
)

// StaticSource serves candidates from a fixed list. It is used when no model
// API key is configured and in tests.
//
// Candidates are ranked with a search.Index over their title, overview,
// genres and keywords. A mood request ranks by the mood's keyword set and
// then appends the remaining candidates, so a mood never comes back empty.
// A query request returns matching candidates only, with match_score
// derived from relevance. Excluded titles are always filtered out.
type StaticSource struct {
	records []map[string]any
	byID    map[string]int
	index   search.Index
}

// NewStaticSource returns a StaticSource over a small built-in sample.
func NewStaticSource() *StaticSource {
	return NewStaticSourceFrom(sampleRecords())
}

// NewStaticSourceFrom indexes records. Records without a movie_id are
// served in mood results but never matched by a query.
func NewStaticSourceFrom(records []map[string]any) *StaticSource {
	docs := make([]search.Doc, 0, len(records))
	byID := make(map[string]int, len(records))
	for i, r := range records {
		id, _ := r["movie_id"].(string)
		if id == "" {
			continue
		}
		byID[id] = i
		docs = append(docs, search.Doc{ID: id, Text: recordText(r)})
	}
	return &StaticSource{
		records: records,
		byID:    byID,
		index:   search.NewIndex(docs, search.WithStopwords(search.DefaultStopwords)),
	}
}

// Recommend implements Source.
func (s *StaticSource) Recommend(_ context.Context, req Request) ([]map[string]any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	excluded := make(map[string]struct{}, len(req.Exclude))
	for _, t := range req.Exclude {
		excluded[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	var q string
	if req.Kind() == KindMood {
		q = string(req.Mood) + " " + strings.Join(req.Mood.Keywords(), " ")
	} else {
		q = req.Query
	}
	hits := s.index.TopK(q, 0)

	out := make([]map[string]any, 0, req.count())
	seen := make(map[int]struct{}, len(s.records))
	add := func(i int, score float64) bool {
		seen[i] = struct{}{}
		r := s.records[i]
		title, _ := r["title"].(string)
		if _, skip := excluded[strings.ToLower(title)]; skip {
			return false
		}
		cp := make(map[string]any, len(r))
		for k, v := range r {
			cp[k] = v
		}
		if score > 0 {
			cp["match_score"] = score
		}
		out = append(out, cp)
		return len(out) == req.count()
	}

	var best float64
	if len(hits) > 0 {
		best = hits[0].Score
	}
	for _, h := range hits {
		var score float64
		if req.Kind() == KindQuery {
			score = relevance(h.Score, best)
		}
		if add(s.byID[h.ID], score) {
			return out, nil
		}
	}
	if req.Kind() == KindMood {
		for i := range s.records {
			if _, done := seen[i]; done {
				continue
			}
			if add(i, 0) {
				break
			}
		}
	}
	return out, nil
}

// relevance scales a similarity score relative to the best hit into
// [0.5, 1], rounded to two decimals.
func relevance(score, best float64) float64 {
	if best <= 0 {
		return 0
	}
	return math.Round(100*(0.5+0.5*score/best)) / 100
}

func recordText(r map[string]any) string {
	var b strings.Builder
	for _, k := range []string{"title", "overview"} {
		if s, ok := r[k].(string); ok {
			b.WriteString(s)
			b.WriteByte(' ')
		}
	}
	for _, k := range []string{"genres", "keywords"} {
		if vs, ok := r[k].([]any); ok {
			for _, v := range vs {
				if s, ok := v.(string); ok {
					b.WriteString(s)
					b.WriteByte(' ')
				}
			}
		}
	}
	return b.String()
}

func sampleRecords() []map[string]any {
	strs := func(ss ...string) []any {
		out := make([]any, len(ss))
		for i, s := range ss {
			out[i] = s
		}
		return out
	}
	rec := func(id, title string, year int, rating, score float64, poster, overview string, genres, keywords []any) map[string]any {
		return map[string]any{
			"movie_id":     id,
			"title":        title,
			"overview":     overview,
			"release_year": year,
			"vote_average": rating,
			"match_score":  score,
			"poster_path":  poster,
			"genres":       genres,
			"keywords":     keywords,
		}
	}
	return []map[string]any{
		rec("13", "Forrest Gump", 1994, 8.5, 0.93, "/arw2vcBveWOVZr6pxd9XTd1TdQa.jpg",
			"A kind-hearted man from Alabama drifts through decades of American history.",
			strs("Comedy", "Drama", "Romance"), strs("heartwarming", "uplifting", "moving")),
		rec("155", "The Dark Knight", 2008, 8.5, 0.91, "/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
			"Batman faces the Joker, a criminal mastermind who plunges Gotham into chaos.",
			strs("Action", "Crime", "Drama"), strs("thrilling", "intense", "adrenaline")),
		rec("129", "Spirited Away", 2001, 8.5, 0.9, "/39wmItIWsg5sZMyRUHLkWBcuVCM.jpg",
			"A girl wanders into a world of spirits and must work in a bathhouse to free her parents.",
			strs("Animation", "Family", "Fantasy"), strs("gentle", "dreamlike", "adventure")),
		rec("76341", "Mad Max: Fury Road", 2015, 7.6, 0.88, "/hA2ple9q4qnwxp3hKVNhroipsir.jpg",
			"A drifter and a rebel commander flee across the desert in a war rig.",
			strs("Action", "Adventure", "Thriller"), strs("action-packed", "adrenaline", "thrilling")),
		rec("194", "Amélie", 2001, 7.9, 0.87, "/nSxDa3M9aMvGVLoItzWTepQ5h5d.jpg",
			"A shy waitress in Montmartre quietly improves the lives of the people around her.",
			strs("Comedy", "Romance"), strs("feel-good", "whimsical", "heartwarming")),
		rec("597", "Titanic", 1997, 7.9, 0.84, "/9xjZS2rlVxm8SFx8kPC3aIGCOYQ.jpg",
			"Two passengers from different classes fall in love aboard the doomed ship.",
			strs("Drama", "Romance"), strs("emotional", "tragic", "cathartic")),
		rec("27205", "Inception", 2010, 8.4, 0.83, "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg",
			"A thief who steals secrets through dreams is offered one last job.",
			strs("Action", "Science Fiction", "Adventure"), strs("mind-bending", "thrilling", "heist")),
		rec("8392", "My Neighbor Totoro", 1988, 8.1, 0.82, "/rtGDOeG9LzoerkDGZF9dnVeLppL.jpg",
			"Two sisters move to the countryside and befriend the forest spirits nearby.",
			strs("Animation", "Family", "Fantasy"), strs("calm", "cozy", "gentle")),
		rec("120467", "The Grand Budapest Hotel", 2014, 8.0, 0.8, "/eWdyYQreja6JGCzqHWXpWHDrrPo.jpg",
			"A legendary concierge and his lobby boy are framed for murder.",
			strs("Comedy", "Drama"), strs("quirky", "feel-good", "caper")),
		rec("424", "Schindler's List", 1993, 8.6, 0.78, "/sF1U4EUQS8YHUYjNl3pMGNIQyr0.jpg",
			"An industrialist saves more than a thousand refugees during the Holocaust.",
			strs("Drama", "History", "War"), strs("emotional", "moving", "harrowing")),
		rec("98", "Gladiator", 2000, 8.2, 0.76, "/ty8TGRuvJLPUmAR1H1nRIsgwvim.jpg",
			"A betrayed Roman general fights his way back as a gladiator.",
			strs("Action", "Drama", "Adventure"), strs("epic", "thrilling", "revenge")),
		rec("152601", "Her", 2013, 7.8, 0.74, "/eCOtqtfvn7mxGl6nfmq4b1exJRc.jpg",
			"A lonely writer falls for an operating system with a warm voice.",
			strs("Romance", "Science Fiction", "Drama"), strs("slow-paced", "gentle", "bittersweet")),
	}
}
