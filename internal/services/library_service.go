// Package services – LibraryService
//
// This file implements LibraryService, the single writer for each owner's
// UserData aggregate (active profile, watchlist, history). Every mutation
// loads the aggregate, applies a pure transition from the library package,
// and saves the result while holding the owner's lock, so concurrent
// requests for one owner are applied strictly in order.
//
// Reads and loads are fail-open: a missing or unreadable document yields
// the default aggregate. Save failures are returned to the caller.
//
// Movies arriving from clients are raw records. ResolveMovie prefers the
// owner's current catalog entry for the id and otherwise runs the record
// through the same Normalizer the catalog uses, so persisted collections
// only ever hold normalized movies.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-moodreel-backend/internal/catalog"
	"github.com/tbourn/go-moodreel-backend/internal/domain"
	"github.com/tbourn/go-moodreel-backend/internal/library"
	"github.com/tbourn/go-moodreel-backend/internal/store"
)

// Mutation is the outcome of a collection change.
type Mutation struct {
	// Present reports membership after a toggle.
	Present bool
	// Changed reports whether the aggregate was modified and saved.
	Changed bool
	// Removed counts entries dropped by a bulk operation.
	Removed int
	State   *domain.UserData
}

// MovieFinder looks up a movie in an owner's current catalog.
// *CatalogService satisfies it.
type MovieFinder interface {
	Find(owner, id string) (domain.Movie, bool)
}

// LibraryService serializes per-owner mutations of UserData.
type LibraryService struct {
	Store store.Store
	// Catalog is consulted first when resolving a client movie. Optional.
	Catalog MovieFinder
	// Normalizer coerces client records not found in the catalog.
	Normalizer catalog.Normalizer

	// IdleTTL drops an owner's write lock after this long without use.
	// Zero means DefaultIdleTTL.
	IdleTTL time.Duration

	now   func() time.Time
	locks ownerTable[*sync.Mutex]
}

// ResolveMovie turns a client-supplied record into a Movie. A record without
// a movie_id, or one that resolves to an untitled movie, is ErrInvalidMovie.
func (s *LibraryService) ResolveMovie(owner string, raw map[string]any) (domain.Movie, error) {
	if raw == nil || strings.TrimSpace(catalog.StringField(raw["movie_id"])) == "" {
		return domain.Movie{}, ErrInvalidMovie
	}
	m := s.Normalizer.One(raw)
	if s.Catalog != nil {
		if found, ok := s.Catalog.Find(owner, m.MovieID); ok {
			m = found
		}
	}
	if err := validMovie(m); err != nil {
		return domain.Movie{}, err
	}
	return m, nil
}

// State returns owner's aggregate, or the default one when none is stored.
func (s *LibraryService) State(ctx context.Context, owner string) *domain.UserData {
	ctx, span := s.start(ctx, "State", owner)
	defer span.End()
	return store.LoadOrDefault(ctx, s.Store, owner, *zerolog.Ctx(ctx))
}

// Watchlist returns owner's watchlist sorted by key.
func (s *LibraryService) Watchlist(ctx context.Context, owner string, key catalog.SortKey) []domain.Movie {
	return catalog.SortLibrary(s.State(ctx, owner).Watchlist, key)
}

// History returns owner's history sorted by key.
func (s *LibraryService) History(ctx context.Context, owner string, key catalog.SortKey) []domain.Movie {
	return catalog.SortLibrary(s.State(ctx, owner).History, key)
}

// ToggleWatchlist adds m to the watchlist or removes it when present.
func (s *LibraryService) ToggleWatchlist(ctx context.Context, owner string, m domain.Movie) (*Mutation, error) {
	if err := validMovie(m); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "ToggleWatchlist", owner, func(d *domain.UserData) (*Mutation, error) {
		return &Mutation{Present: library.ToggleWatchlist(d, m), Changed: true}, nil
	})
}

// ToggleWatched marks m as watched, or un-marks it when already in history.
func (s *LibraryService) ToggleWatched(ctx context.Context, owner string, m domain.Movie) (*Mutation, error) {
	if err := validMovie(m); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "ToggleWatched", owner, func(d *domain.UserData) (*Mutation, error) {
		return &Mutation{Present: library.ToggleWatched(d, m), Changed: true}, nil
	})
}

// RemoveFromWatchlist drops id from the watchlist. Unknown ids are a no-op.
func (s *LibraryService) RemoveFromWatchlist(ctx context.Context, owner, id string) (*Mutation, error) {
	return s.mutate(ctx, "RemoveFromWatchlist", owner, func(d *domain.UserData) (*Mutation, error) {
		ok := library.RemoveFromWatchlist(d, id)
		return &Mutation{Changed: ok, Removed: boolToInt(ok)}, nil
	})
}

// RemoveFromHistory drops id from history. Unknown ids are a no-op.
func (s *LibraryService) RemoveFromHistory(ctx context.Context, owner, id string) (*Mutation, error) {
	return s.mutate(ctx, "RemoveFromHistory", owner, func(d *domain.UserData) (*Mutation, error) {
		ok := library.RemoveFromHistory(d, id)
		return &Mutation{Changed: ok, Removed: boolToInt(ok)}, nil
	})
}

// ClearHistory empties history and leaves the watchlist untouched.
func (s *LibraryService) ClearHistory(ctx context.Context, owner string) (*Mutation, error) {
	return s.mutate(ctx, "ClearHistory", owner, func(d *domain.UserData) (*Mutation, error) {
		n := library.ClearHistory(d)
		return &Mutation{Changed: n > 0, Removed: n}, nil
	})
}

// SelectProfile makes profileID the active profile.
func (s *LibraryService) SelectProfile(ctx context.Context, owner, profileID string) (*Mutation, error) {
	return s.mutate(ctx, "SelectProfile", owner, func(d *domain.UserData) (*Mutation, error) {
		if err := library.SelectProfile(d, strings.TrimSpace(profileID)); err != nil {
			return nil, ErrProfileNotFound
		}
		return &Mutation{Present: true, Changed: true}, nil
	})
}

// SignOut clears the active profile. Collections are kept.
func (s *LibraryService) SignOut(ctx context.Context, owner string) (*Mutation, error) {
	return s.mutate(ctx, "SignOut", owner, func(d *domain.UserData) (*Mutation, error) {
		changed := d.User != nil
		library.SignOut(d)
		return &Mutation{Changed: changed}, nil
	})
}

// Reset deletes owner's stored aggregate. The next read yields defaults.
func (s *LibraryService) Reset(ctx context.Context, owner string) (*Mutation, error) {
	ctx, span := s.start(ctx, "Reset", owner)
	defer span.End()

	mu, release := s.locks.acquire(owner, clockOrNow(s.now), idleTTL(s.IdleTTL), newOwnerLock)
	defer release()
	mu.Lock()
	defer mu.Unlock()

	if err := s.Store.Delete(ctx, owner); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete user data")
		zerolog.Ctx(ctx).Error().Err(err).Str("owner", owner).Msg("deleting user data failed")
		return nil, err
	}
	return &Mutation{Changed: true, State: domain.DefaultUserData()}, nil
}

func (s *LibraryService) mutate(ctx context.Context, op, owner string, fn func(*domain.UserData) (*Mutation, error)) (*Mutation, error) {
	ctx, span := s.start(ctx, op, owner)
	defer span.End()

	mu, release := s.locks.acquire(owner, clockOrNow(s.now), idleTTL(s.IdleTTL), newOwnerLock)
	defer release()
	mu.Lock()
	defer mu.Unlock()

	lg := zerolog.Ctx(ctx)
	d := store.LoadOrDefault(ctx, s.Store, owner, *lg)

	res, err := fn(d)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		if err := s.Store.Save(ctx, owner, d); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save user data")
			lg.Error().Err(err).Str("op", op).Str("owner", owner).Msg("saving user data failed")
			return nil, err
		}
	}
	span.SetAttributes(
		attribute.Bool("library.changed", res.Changed),
		attribute.Int("library.watchlist", len(d.Watchlist)),
		attribute.Int("library.history", len(d.History)),
	)
	res.State = d
	return res, nil
}

func newOwnerLock() *sync.Mutex { return &sync.Mutex{} }

func (s *LibraryService) start(ctx context.Context, op, owner string) (context.Context, trace.Span) {
	return otel.Tracer("services/LibraryService").Start(ctx, op,
		trace.WithAttributes(attribute.String("user.id", owner)),
	)
}

func validMovie(m domain.Movie) error {
	if strings.TrimSpace(m.MovieID) == "" || strings.TrimSpace(m.Title) == "" {
		return ErrInvalidMovie
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
