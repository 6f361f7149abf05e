// Catalog HTTP handlers.
//
// This file exposes the recommendation endpoints:
//   - GET  /moods            (supported moods)
//   - POST /recommendations  (replace catalog by mood)
//   - POST /search           (replace catalog by free-text query)
//   - GET  /catalog          (re-project the current catalog)
//
// Recommendation and search always answer 200 with a (possibly empty)
// result view: a failing model yields no results rather than an error.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-moodreel-backend/internal/recommend"
)

// MoodsResponse lists the moods accepted by POST /recommendations.
type MoodsResponse struct {
	Moods []recommend.MoodInfo `json:"moods"`
}

// RecommendRequest is the JSON payload for mood recommendations.
type RecommendRequest struct {
	Mood string `json:"mood" binding:"required" example:"happy"`
}

// SearchRequest is the JSON payload for free-text search.
type SearchRequest struct {
	Query string `json:"query" binding:"required" example:"space movies with a twist ending"`
}

// ListMoods godoc
// @ID          listMoods
// @Summary     List moods
// @Description Returns the supported moods with their labels and keyword sets.
// @Tags        Catalog
// @Produce     json
// @Success     200  {object}  handlers.MoodsResponse
// @Router      /moods [get]
func (h *Handlers) ListMoods(c *gin.Context) {
	ok(c, http.StatusOK, MoodsResponse{Moods: recommend.Moods()})
}

// Recommend godoc
// @ID          recommend
// @Summary     Recommend movies for a mood
// @Description Replaces the caller's catalog with movies matching the mood, excluding titles already watched. A failing model yields an empty result.
// @Tags        Catalog
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  false "Owner id"  example(user123)
// @Param       body          body    handlers.RecommendRequest  true  "Mood"
// @Param       genre         query   string  false "Genre filter"  default(All)
// @Param       hide_watched  query   bool    false "Hide watched movies"
// @Param       sort          query   string  false "Sort key"  Enums(match, rating, year) default(match)
//
// @Success     200  {object}  handlers.CatalogResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown mood"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /recommendations [post]
func (h *Handlers) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mood is required")
		return
	}
	sel := selectionFromQuery(c)
	view, err := h.catalogSvc.Recommend(c.Request.Context(), userID(c), req.Mood, sel)
	if err != nil {
		failService(c, err, ErrCodeRecommendFailed)
		return
	}
	ok(c, http.StatusOK, catalogResponse(view, sel))
}

// Search godoc
// @ID          search
// @Summary     Search movies by description
// @Description Replaces the caller's catalog with movies matching a free-text query. A failing model yields an empty result.
// @Tags        Catalog
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  false "Owner id"  example(user123)
// @Param       body          body    handlers.SearchRequest  true  "Query"
// @Param       genre         query   string  false "Genre filter"  default(All)
// @Param       hide_watched  query   bool    false "Hide watched movies"
// @Param       sort          query   string  false "Sort key"  Enums(match, rating, year) default(match)
//
// @Success     200  {object}  handlers.CatalogResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or oversized query"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /search [post]
func (h *Handlers) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidQuery, "query is required")
		return
	}
	sel := selectionFromQuery(c)
	view, err := h.catalogSvc.Search(c.Request.Context(), userID(c), req.Query, sel)
	if err != nil {
		failService(c, err, ErrCodeRecommendFailed)
		return
	}
	ok(c, http.StatusOK, catalogResponse(view, sel))
}

// GetCatalog godoc
// @ID          getCatalog
// @Summary     Current results view
// @Description Re-projects the caller's current catalog through genre, hide-watched and sort options without calling the model.
// @Tags        Catalog
// @Produce     json
//
// @Param       X-User-ID     header  string  false "Owner id"  example(user123)
// @Param       genre         query   string  false "Genre filter"  default(All)
// @Param       hide_watched  query   bool    false "Hide watched movies"
// @Param       sort          query   string  false "Sort key"  Enums(match, rating, year) default(match)
//
// @Success     200  {object}  handlers.CatalogResponse
// @Router      /catalog [get]
func (h *Handlers) GetCatalog(c *gin.Context) {
	sel := selectionFromQuery(c)
	view := h.catalogSvc.View(c.Request.Context(), userID(c), sel)
	ok(c, http.StatusOK, catalogResponse(view, sel))
}
