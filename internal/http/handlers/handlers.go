// Package handlers exposes the moodreel API over HTTP.
//
// Handlers are transport-thin: they parse input, call the catalog and
// library services, and render results. Every collection endpoint acts on
// the owner resolved by middleware.Identity.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-moodreel-backend/internal/catalog"
	"github.com/tbourn/go-moodreel-backend/internal/domain"
	"github.com/tbourn/go-moodreel-backend/internal/http/middleware"
	"github.com/tbourn/go-moodreel-backend/internal/services"
	"github.com/tbourn/go-moodreel-backend/internal/sysutil"
	"github.com/tbourn/go-moodreel-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogService resolves recommendations and projects the owner's catalog.
//
// Implementations must be safe for concurrent use.
type CatalogService interface {
	// Recommend replaces the catalog with movies for a mood.
	Recommend(ctx context.Context, owner, mood string, sel catalog.Selection) (*services.CatalogView, error)
	// Search replaces the catalog with movies for a free-text query.
	Search(ctx context.Context, owner, query string, sel catalog.Selection) (*services.CatalogView, error)
	// View projects the current catalog without calling the source.
	View(ctx context.Context, owner string, sel catalog.Selection) *services.CatalogView
}

// LibraryService manages the owner's profile, watchlist and history.
//
// Implementations must be safe for concurrent use and must serialize
// mutations per owner.
type LibraryService interface {
	State(ctx context.Context, owner string) *domain.UserData
	Reset(ctx context.Context, owner string) (*services.Mutation, error)
	ResolveMovie(owner string, raw map[string]any) (domain.Movie, error)
	Watchlist(ctx context.Context, owner string, key catalog.SortKey) []domain.Movie
	History(ctx context.Context, owner string, key catalog.SortKey) []domain.Movie
	ToggleWatchlist(ctx context.Context, owner string, m domain.Movie) (*services.Mutation, error)
	ToggleWatched(ctx context.Context, owner string, m domain.Movie) (*services.Mutation, error)
	RemoveFromWatchlist(ctx context.Context, owner, id string) (*services.Mutation, error)
	RemoveFromHistory(ctx context.Context, owner, id string) (*services.Mutation, error)
	ClearHistory(ctx context.Context, owner string) (*services.Mutation, error)
	SelectProfile(ctx context.Context, owner, profileID string) (*services.Mutation, error)
	SignOut(ctx context.Context, owner string) (*services.Mutation, error)
}

//
// Handler wiring
//

// Handlers groups the catalog and library endpoints.
type Handlers struct {
	catalogSvc CatalogService
	librarySvc LibraryService
}

// New constructs Handlers bound to the given services.
func New(catalogSvc CatalogService, librarySvc LibraryService) *Handlers {
	return &Handlers{catalogSvc: catalogSvc, librarySvc: librarySvc}
}

func userID(c *gin.Context) string { return middleware.Owner(c) }

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// SelectionDTO echoes the view options applied to a catalog response.
type SelectionDTO struct {
	Genre       string `json:"genre" example:"All"`
	HideWatched bool   `json:"hide_watched"`
	Sort        string `json:"sort" example:"match"`
}

// CatalogResponse is the result view of the owner's current catalog.
type CatalogResponse struct {
	// Kind is "mood" or "query"; empty before the first request.
	Kind  string `json:"kind,omitempty" example:"mood"`
	Mood  string `json:"mood,omitempty" example:"happy"`
	Query string `json:"query,omitempty"`
	// UpdatedAt is when the catalog was last replaced.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	// Total is the unfiltered catalog size; Count the size after filtering.
	Total     int            `json:"total"`
	Count     int            `json:"count"`
	Genres    []string       `json:"genres"`
	Selection SelectionDTO   `json:"selection"`
	Movies    []domain.Movie `json:"movies"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// selectionFromQuery reads genre, hide_watched and sort. Unknown sort keys
// and "recent" fall back to match, so the echoed selection is the one applied.
func selectionFromQuery(c *gin.Context) catalog.Selection {
	return catalog.Selection{
		Genre:       c.Query("genre"),
		HideWatched: sysutil.IsTruthy(c.Query("hide_watched")),
		Sort:        catalog.ParseResultSortKey(c.Query("sort")),
	}
}

func catalogResponse(v *services.CatalogView, sel catalog.Selection) CatalogResponse {
	genre := sel.Genre
	if genre == "" {
		genre = catalog.AllGenres
	}
	resp := CatalogResponse{
		Kind:   v.Kind,
		Mood:   v.Mood,
		Query:  v.Query,
		Total:  v.Total,
		Count:  len(v.Movies),
		Genres: v.Genres,
		Movies: v.Movies,
		Selection: SelectionDTO{
			Genre:       genre,
			HideWatched: sel.HideWatched,
			Sort:        string(sel.Sort),
		},
	}
	if !v.UpdatedAt.IsZero() {
		ts := v.UpdatedAt
		resp.UpdatedAt = &ts
	}
	return resp
}
