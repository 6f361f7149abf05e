// Library HTTP handlers.
//
// This file exposes the owner's persisted state:
//   - GET    /state                      (profile, profiles, collections; weak ETag)
//   - DELETE /state                      (reset to defaults)
//   - PUT    /state/user                 (select profile)
//   - DELETE /state/user                 (sign out)
//   - GET    /library/watchlist          (sorted, paginated)
//   - GET    /library/history            (sorted, paginated)
//   - POST   /library/watchlist/toggle   (add or remove)
//   - DELETE /library/watchlist/{id}
//   - POST   /library/history/toggle     (mark or unmark watched)
//   - DELETE /library/history/{id}
//   - DELETE /library/history            (clear)
//
// Removing an id that is not present is a no-op answered with 200 and
// removed=0. Toggles are routed behind middleware.Replay so a retried
// request carrying the same Idempotency-Key does not toggle twice.
package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/tbourn/go-moodreel-backend/internal/catalog"
	"github.com/tbourn/go-moodreel-backend/internal/domain"
	"github.com/tbourn/go-moodreel-backend/internal/services"
	"github.com/tbourn/go-moodreel-backend/internal/utils"
)

// SelectProfileRequest is the JSON payload for PUT /state/user.
type SelectProfileRequest struct {
	ProfileID string `json:"profile_id" binding:"required" example:"p1"`
}

// MovieRequest carries the movie to toggle. The record is matched by
// movie_id against the owner's catalog, or normalized like a source record.
type MovieRequest struct {
	Movie map[string]any `json:"movie" swaggertype:"object"`
}

// ToggleResponse reports membership after a toggle plus the updated state.
type ToggleResponse struct {
	MovieID string           `json:"movie_id" example:"27205"`
	Present bool             `json:"present"`
	State   *domain.UserData `json:"state"`
}

// MutationResponse is returned by removals, profile changes and sign-out.
type MutationResponse struct {
	Changed bool             `json:"changed"`
	Removed int              `json:"removed"`
	State   *domain.UserData `json:"state"`
}

// LibraryResponse is one page of a sorted collection.
type LibraryResponse struct {
	Sort       string         `json:"sort" example:"recent"`
	Movies     []domain.Movie `json:"movies"`
	Pagination Pagination     `json:"pagination"`
}

// GetState godoc
// @ID          getState
// @Summary     Owner state
// @Description Returns the active profile, available profiles, watchlist and history. Supports weak ETag via If-None-Match.
// @Tags        Library
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Owner id"  example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  domain.UserData
// @Header      200  {string}  ETag  "Weak ETag for the current state"
// @Success     304  {string}  string "Not Modified"
// @Router      /state [get]
func (h *Handlers) GetState(c *gin.Context) {
	state := h.librarySvc.State(c.Request.Context(), userID(c))
	body, err := json.Marshal(state)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not encode state")
		return
	}

	sum := sha256.Sum256(body)
	etag := `W/"state:` + hex.EncodeToString(sum[:8]) + `"`
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// SelectProfile godoc
// @ID          selectProfile
// @Summary     Select the active profile
// @Tags        Library
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Param       body       body    handlers.SelectProfileRequest  true  "Profile"
//
// @Success     200  {object}  handlers.MutationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown profile"
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /state/user [put]
func (h *Handlers) SelectProfile(c *gin.Context) {
	var req SelectProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProfileID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "profile_id is required")
		return
	}
	res, err := h.librarySvc.SelectProfile(c.Request.Context(), userID(c), req.ProfileID)
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, mutationResponse(res))
}

// SignOut godoc
// @ID          signOut
// @Summary     Clear the active profile
// @Description Collections are kept.
// @Tags        Library
// @Produce     json
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Success     200  {object}  handlers.MutationResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /state/user [delete]
func (h *Handlers) SignOut(c *gin.Context) {
	res, err := h.librarySvc.SignOut(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, mutationResponse(res))
}

// ResetState godoc
// @ID          resetState
// @Summary     Reset owner state
// @Description Deletes the stored profile selection, watchlist and history. Returns the default state.
// @Tags        Library
// @Produce     json
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Success     200  {object}  handlers.MutationResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /state [delete]
func (h *Handlers) ResetState(c *gin.Context) {
	res, err := h.librarySvc.Reset(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, mutationResponse(res))
}

// ListWatchlist godoc
// @ID          listWatchlist
// @Summary     Watchlist (sorted, paginated)
// @Tags        Library
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Param       sort       query   string  false "Sort key"  Enums(recent, match, rating, year) default(recent)
// @Param       page       query   int     false "Page number"  minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.LibraryResponse
// @Router      /library/watchlist [get]
func (h *Handlers) ListWatchlist(c *gin.Context) {
	key := catalog.ParseSortKey(c.Query("sort"), catalog.SortRecent)
	h.listLibrary(c, key, h.librarySvc.Watchlist(c.Request.Context(), userID(c), key))
}

// ListHistory godoc
// @ID          listHistory
// @Summary     History (sorted, paginated)
// @Tags        Library
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Param       sort       query   string  false "Sort key"  Enums(recent, match, rating, year) default(recent)
// @Param       page       query   int     false "Page number"  minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.LibraryResponse
// @Router      /library/history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	key := catalog.ParseSortKey(c.Query("sort"), catalog.SortRecent)
	h.listLibrary(c, key, h.librarySvc.History(c.Request.Context(), userID(c), key))
}

func (h *Handlers) listLibrary(c *gin.Context, key catalog.SortKey, movies []domain.Movie) {
	page, pageSize := clampPagination(c)
	items, totalPages := utils.Page(movies, page, pageSize)
	ok(c, http.StatusOK, LibraryResponse{
		Sort:   string(key),
		Movies: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      len(movies),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// ToggleWatchlist godoc
// @ID          toggleWatchlist
// @Summary     Add to or remove from the watchlist
// @Description Adds the movie (most recent first) or removes it when already present. Honors Idempotency-Key.
// @Tags        Library
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Owner id"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replays the first response for retries"
// @Param       body             body    handlers.MovieRequest  true  "Movie"
//
// @Success     200  {object}  handlers.ToggleResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid movie"
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /library/watchlist/toggle [post]
func (h *Handlers) ToggleWatchlist(c *gin.Context) {
	h.toggle(c, h.librarySvc.ToggleWatchlist)
}

// ToggleWatched godoc
// @ID          toggleWatched
// @Summary     Mark or unmark a movie as watched
// @Description Marking moves the movie into history with match_score 1.0 and drops it from the watchlist. Unmarking removes it from history only. Honors Idempotency-Key.
// @Tags        Library
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Owner id"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replays the first response for retries"
// @Param       body             body    handlers.MovieRequest  true  "Movie"
//
// @Success     200  {object}  handlers.ToggleResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid movie"
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /library/history/toggle [post]
func (h *Handlers) ToggleWatched(c *gin.Context) {
	h.toggle(c, h.librarySvc.ToggleWatched)
}

func (h *Handlers) toggle(c *gin.Context, fn func(context.Context, string, domain.Movie) (*services.Mutation, error)) {
	var req MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	owner := userID(c)
	m, err := h.librarySvc.ResolveMovie(owner, req.Movie)
	if err != nil {
		failService(c, err, ErrCodeInvalidMovie)
		return
	}
	res, err := fn(c.Request.Context(), owner, m)
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, ToggleResponse{MovieID: m.MovieID, Present: res.Present, State: res.State})
}

// RemoveFromWatchlist godoc
// @ID          removeFromWatchlist
// @Summary     Remove a movie from the watchlist
// @Tags        Library
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Param       id         path    string  true  "Movie id"  example(27205)
//
// @Success     200  {object}  handlers.MutationResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /library/watchlist/{id} [delete]
func (h *Handlers) RemoveFromWatchlist(c *gin.Context) {
	res, err := h.librarySvc.RemoveFromWatchlist(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, mutationResponse(res))
}

// RemoveFromHistory godoc
// @ID          removeFromHistory
// @Summary     Remove a movie from history
// @Tags        Library
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Param       id         path    string  true  "Movie id"  example(27205)
//
// @Success     200  {object}  handlers.MutationResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /library/history/{id} [delete]
func (h *Handlers) RemoveFromHistory(c *gin.Context) {
	res, err := h.librarySvc.RemoveFromHistory(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, mutationResponse(res))
}

// ClearHistory godoc
// @ID          clearHistory
// @Summary     Clear history
// @Description Empties history. The watchlist is not touched.
// @Tags        Library
// @Produce     json
// @Param       X-User-ID  header  string  false "Owner id"  example(user123)
// @Success     200  {object}  handlers.MutationResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Save failed"
// @Router      /library/history [delete]
func (h *Handlers) ClearHistory(c *gin.Context) {
	res, err := h.librarySvc.ClearHistory(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, mutationResponse(res))
}

func mutationResponse(m *services.Mutation) MutationResponse {
	return MutationResponse{Changed: m.Changed, Removed: m.Removed, State: m.State}
}
