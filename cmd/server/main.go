// Command server runs the MoodReel HTTP API.
//
// @title           MoodReel API
// @version         1.0
// @description     Mood and free-text movie recommendations with a persistent watchlist and history.
// @BasePath        /api/v1
// @schemes         http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-moodreel-backend/internal/catalog"
	"github.com/tbourn/go-moodreel-backend/internal/config"
	httpapi "github.com/tbourn/go-moodreel-backend/internal/http"
	"github.com/tbourn/go-moodreel-backend/internal/observability"
	"github.com/tbourn/go-moodreel-backend/internal/recommend"
	"github.com/tbourn/go-moodreel-backend/internal/repo"
	"github.com/tbourn/go-moodreel-backend/internal/store"
	"github.com/tbourn/go-moodreel-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	logger := sysutil.SetupLogger(cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	st, closeStore, err := openStore(ctx, cfg.Store, db)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open user-data store")
	}
	defer closeStore()

	src, srcName, err := openSource(ctx, cfg.Gemini, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("create recommendation source")
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version, observability.Backends{
		Store:  cfg.Store.Driver,
		Source: srcName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:     db,
		Store:  st,
		Source: src,
		Normalizer: catalog.Normalizer{
			ImageBaseURL:   cfg.Images.BaseURL,
			PosterWidth:    cfg.Images.PosterWidth,
			PlaceholderURL: cfg.Images.PlaceholderURL,
		},
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go purgeIdempotency(ctx, db, time.Hour)

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Driver).
			Str("source", srcName).
			Str("version", version).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openStore selects the user-data backend. The returned close func is never nil.
func openStore(ctx context.Context, cfg config.StoreConfig, db *gorm.DB) (store.Store, func(), error) {
	switch cfg.Driver {
	case "redis":
		rdb, err := store.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, func() {}, err
		}
		return store.NewRedisStore(rdb, cfg.KeyPrefix, cfg.RedisTTL), func() { _ = rdb.Close() }, nil
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		return store.NewSQLStore(db, cfg.KeyPrefix), func() {}, nil
	}
}

// openSource returns the Gemini source when an API key is configured and the
// static catalog otherwise, both behind the circuit breaker.
func openSource(ctx context.Context, cfg config.GeminiConfig, logger zerolog.Logger) (recommend.Source, string, error) {
	var (
		next recommend.Source
		name string
	)
	if cfg.APIKey != "" {
		g, err := recommend.NewGeminiSource(ctx, recommend.GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, "", err
		}
		next, name = g, "gemini"
	} else {
		log.Warn().Msg("no Gemini API key configured, serving the built-in static catalog")
		next, name = recommend.NewStaticSource(), "static"
	}
	failures := uint32(0)
	if cfg.BreakerFailures > 0 {
		failures = uint32(cfg.BreakerFailures)
	}
	return recommend.NewBreakerSource(next, recommend.BreakerConfig{
		Failures: failures,
		Timeout:  cfg.BreakerTimeout,
	}, logger), name, nil
}

func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency records")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("purged expired idempotency records")
			}
		}
	}
}
