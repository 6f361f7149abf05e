// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, access logging, panic recovery, compression,
// metrics, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-moodreel-backend/docs"
	"github.com/tbourn/go-moodreel-backend/internal/catalog"
	"github.com/tbourn/go-moodreel-backend/internal/config"
	"github.com/tbourn/go-moodreel-backend/internal/http/handlers"
	"github.com/tbourn/go-moodreel-backend/internal/http/middleware"
	"github.com/tbourn/go-moodreel-backend/internal/recommend"
	"github.com/tbourn/go-moodreel-backend/internal/repo"
	"github.com/tbourn/go-moodreel-backend/internal/services"
	"github.com/tbourn/go-moodreel-backend/internal/store"
)

// Deps are the collaborators RegisterRoutes builds services from.
type Deps struct {
	// DB holds idempotency records. Nil disables Idempotency-Key support.
	DB         *gorm.DB
	Store      store.Store
	Source     recommend.Source
	Normalizer catalog.Normalizer
}

// idempotencyStore adapts the repo free functions to
// middleware.IdempotencyStore.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// Lookup proxies repo.GetIdempotency, mapping not-found to a miss.
func (s idempotencyStore) Lookup(ctx context.Context, owner, scope, key string, now time.Time) (*middleware.StoredResponse, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, owner, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &middleware.StoredResponse{Status: rec.Status, Body: []byte(rec.Body)}, nil
}

// Record proxies repo.CreateIdempotency. A concurrent duplicate is not an
// error: the first recorded response wins.
func (s idempotencyStore) Record(ctx context.Context, owner, scope, key string, resp middleware.StoredResponse) error {
	_, err := repo.CreateIdempotency(ctx, s.db, owner, scope, key, resp.Status, string(resp.Body), s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID, Identity: correlation id and owner
//  3. AccessLog: structured logs with scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter, gzip
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per owner/IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity())
	r.Use(middleware.AccessLog(middleware.LogOptions{
		MaskHeaders: []string{"X-API-Key", "X-Goog-Api-Key"},
		SkipPaths:   []string{"/health", "/metrics"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics("/metrics"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var idem middleware.IdempotencyStore
	if deps.DB != nil {
		idem = idempotencyStore{db: deps.DB, ttl: cfg.IdempotencyTTL}
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderUserID, middleware.HeaderIdempotencyKey, "If-None-Match"},
		ExposeHeaders:    []string{"X-Request-ID", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// ACAO: * even without an Origin header, so plain clients see it too.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		corsCfg.AllowAllOrigins = true
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", health(deps.Source))

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	catalogSvc := &services.CatalogService{
		Source:        deps.Source,
		Store:         deps.Store,
		Normalizer:    deps.Normalizer,
		MaxQueryRunes: cfg.MaxQueryRunes,
		Count:         cfg.Gemini.Count,
		IdleTTL:       cfg.OwnerIdleTTL,
	}
	librarySvc := &services.LibraryService{
		Store:      deps.Store,
		Catalog:    catalogSvc,
		Normalizer: deps.Normalizer,
		IdleTTL:    cfg.OwnerIdleTTL,
	}
	h := handlers.New(catalogSvc, librarySvc)

	modelRL := middleware.NewRateLimiter(cfg.ModelRateRPS, cfg.ModelRateBurst, middleware.KeyByUserOrIP())
	replay := middleware.Replay(idem)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Catalog
		api.GET("/moods", h.ListMoods)
		api.POST("/recommendations", modelRL.Handler(), h.Recommend)
		api.POST("/search", modelRL.Handler(), h.Search)
		api.GET("/catalog", h.GetCatalog)

		// State
		api.GET("/state", h.GetState)
		api.DELETE("/state", h.ResetState)
		api.PUT("/state/user", h.SelectProfile)
		api.DELETE("/state/user", h.SignOut)

		// Library
		api.GET("/library/watchlist", h.ListWatchlist)
		api.POST("/library/watchlist/toggle", replay, h.ToggleWatchlist)
		api.DELETE("/library/watchlist/:id", h.RemoveFromWatchlist)
		api.GET("/library/history", h.ListHistory)
		api.POST("/library/history/toggle", replay, h.ToggleWatched)
		api.DELETE("/library/history/:id", h.RemoveFromHistory)
		api.DELETE("/library/history", h.ClearHistory)
	}
}

// health reports liveness plus the breaker state when the source has one.
func health(src recommend.Source) gin.HandlerFunc {
	type stater interface{ State() string }
	return func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if s, ok := src.(stater); ok {
			body["source"] = s.State()
		}
		c.JSON(http.StatusOK, body)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
