// Package services – CatalogService
//
// This file implements CatalogService, which owns the ephemeral per-owner
// catalog: the latest batch of normalized recommendations. Each mood or
// search request replaces the catalog wholesale. The source call runs
// without holding any lock, so readers keep seeing the previous catalog
// while a request is pending.
//
// Overlapping requests from one owner resolve last-request-wins: every
// request takes a generation number, and a response whose generation is no
// longer current is discarded.
package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-moodreel-backend/internal/catalog"
	"github.com/tbourn/go-moodreel-backend/internal/domain"
	"github.com/tbourn/go-moodreel-backend/internal/recommend"
	"github.com/tbourn/go-moodreel-backend/internal/store"
)

// CatalogView is a projection of an owner's current catalog.
type CatalogView struct {
	Kind      string
	Mood      string
	Query     string
	UpdatedAt time.Time
	// Total is the size of the unfiltered catalog.
	Total  int
	Genres []string
	Movies []domain.Movie
}

type catalogSession struct {
	mu        sync.RWMutex
	gen       uint64
	kind      recommend.Kind
	mood      recommend.Mood
	query     string
	movies    []domain.Movie
	updatedAt time.Time
}

// CatalogService resolves recommendations and serves catalog views.
type CatalogService struct {
	Source     recommend.Source
	Store      store.Store
	Normalizer catalog.Normalizer

	// Optional guards
	MaxQueryRunes int
	Count         int

	// IdleTTL drops an owner's catalog after this long without requests.
	// Zero means DefaultIdleTTL.
	IdleTTL time.Duration

	now      func() time.Time
	sessions ownerTable[*catalogSession]
}

// Recommend replaces owner's catalog with movies matching mood, excluding
// titles already in owner's history.
func (s *CatalogService) Recommend(ctx context.Context, owner, mood string, sel catalog.Selection) (*CatalogView, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Recommend",
		trace.WithAttributes(
			attribute.String("user.id", owner),
			attribute.String("mood", mood),
		),
	)
	defer span.End()

	m, ok := recommend.ParseMood(mood)
	if !ok {
		return nil, ErrUnknownMood
	}
	return s.refresh(ctx, owner, recommend.Request{Mood: m}, sel)
}

// Search replaces owner's catalog with movies matching a free-text query.
func (s *CatalogService) Search(ctx context.Context, owner, query string, sel catalog.Selection) (*CatalogView, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Search",
		trace.WithAttributes(attribute.String("user.id", owner)),
	)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.MaxQueryRunes > 0 && utf8.RuneCountInString(query) > s.MaxQueryRunes {
		return nil, ErrQueryTooLong
	}
	span.SetAttributes(attribute.Int("query.runes", utf8.RuneCountInString(query)))
	return s.refresh(ctx, owner, recommend.Request{Query: query}, sel)
}

// View projects owner's current catalog through sel. An owner that never
// requested recommendations gets an empty view.
func (s *CatalogService) View(ctx context.Context, owner string, sel catalog.Selection) *CatalogView {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "View",
		trace.WithAttributes(
			attribute.String("user.id", owner),
			attribute.String("genre", sel.Genre),
			attribute.Bool("hide_watched", sel.HideWatched),
		),
	)
	defer span.End()

	var history []domain.Movie
	if sel.HideWatched {
		history = store.LoadOrDefault(ctx, s.Store, owner, *zerolog.Ctx(ctx)).History
	}
	sess, ok := s.sessions.peek(owner, clockOrNow(s.now), idleTTL(s.IdleTTL))
	if !ok {
		sess = newCatalogSession()
	}
	return sess.view(history, sel)
}

// Find returns the movie with id from owner's current catalog.
func (s *CatalogService) Find(owner, id string) (domain.Movie, bool) {
	sess, ok := s.sessions.peek(owner, clockOrNow(s.now), idleTTL(s.IdleTTL))
	if !ok {
		return domain.Movie{}, false
	}
	return sess.find(id)
}

func (s *CatalogService) refresh(ctx context.Context, owner string, req recommend.Request, sel catalog.Selection) (*CatalogView, error) {
	lg := zerolog.Ctx(ctx)
	kind := string(req.Kind())

	data := store.LoadOrDefault(ctx, s.Store, owner, *lg)
	req.Exclude = data.HistoryTitles()
	req.Count = s.Count

	sess, release := s.sessions.acquire(owner, clockOrNow(s.now), idleTTL(s.IdleTTL), newCatalogSession)
	defer release()
	gen := sess.begin()

	recs, err := s.Source.Recommend(ctx, req)
	outcome := outcomeOK
	if err != nil {
		lg.Warn().Err(err).Str("kind", kind).Msg("recommendation source failed; serving empty catalog")
		recs = nil
		outcome = outcomeError
	}
	movies := s.Normalizer.Normalize(recs)
	if outcome == outcomeOK && len(movies) == 0 {
		outcome = outcomeEmpty
	}

	if sess.commit(gen, req, movies) {
		catalogSize.Observe(float64(len(movies)))
	} else {
		lg.Debug().Uint64("generation", gen).Str("kind", kind).Msg("discarding stale recommendation response")
		outcome = outcomeStale
	}
	recommendationsTotal.WithLabelValues(kind, outcome).Inc()

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("recommend.outcome", outcome),
		attribute.Int("catalog.size", len(movies)),
	)

	var history []domain.Movie
	if sel.HideWatched {
		history = data.History
	}
	return sess.view(history, sel), nil
}

func newCatalogSession() *catalogSession {
	return &catalogSession{movies: []domain.Movie{}}
}

// begin starts a new request generation.
func (c *catalogSession) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// commit installs movies if gen is still the latest generation.
func (c *catalogSession) commit(gen uint64, req recommend.Request, movies []domain.Movie) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.kind = req.Kind()
	c.mood = req.Mood
	c.query = req.Query
	c.movies = movies
	c.updatedAt = time.Now().UTC()
	return true
}

func (c *catalogSession) find(id string) (domain.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.movies {
		if m.MovieID == id {
			return m.Clone(), true
		}
	}
	return domain.Movie{}, false
}

func (c *catalogSession) view(history []domain.Movie, sel catalog.Selection) *CatalogView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &CatalogView{
		Kind:      string(c.kind),
		Mood:      string(c.mood),
		Query:     c.query,
		UpdatedAt: c.updatedAt,
		Total:     len(c.movies),
		Genres:    catalog.AvailableGenres(c.movies),
		Movies:    catalog.Project(c.movies, history, sel),
	}
}
