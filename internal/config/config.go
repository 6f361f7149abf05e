// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-moodreel-backend/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "moodreel-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig selects and configures the user-data backend.
type StoreConfig struct {
	Driver    string        // STORE_DRIVER: sqlite|redis|memory
	RedisAddr string        // REDIS_ADDR (host:port)
	RedisTTL  time.Duration // REDIS_TTL, 0 keeps documents forever
	KeyPrefix string        // STORAGE_KEY, versioned namespace for documents
}

// GeminiConfig configures the recommendation model.
type GeminiConfig struct {
	APIKey          string        // GEMINI_API_KEY or GOOGLE_API_KEY; empty selects the static source
	Model           string        // GEMINI_MODEL
	Timeout         time.Duration // GEMINI_TIMEOUT per model call
	Count           int           // RECOMMEND_COUNT candidates per request
	BreakerFailures int           // BREAKER_FAILURES consecutive failures that open the breaker
	BreakerTimeout  time.Duration // BREAKER_TIMEOUT open-state duration
}

// ImagesConfig controls poster URL construction.
type ImagesConfig struct {
	BaseURL        string // IMAGE_BASE_URL
	PosterWidth    string // POSTER_WIDTH (e.g. w500)
	PlaceholderURL string // PLACEHOLDER_URL, title is appended URL-escaped
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath        string // SQLite path (user data and idempotency records)
	MaxQueryRunes int    // upper bound for free-text search queries
	Store         StoreConfig
	Gemini        GeminiConfig
	Images        ImagesConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)
	// Recommendation and search routes each cost a model call.
	ModelRateRPS   float64 // MODEL_RATE_RPS
	ModelRateBurst int     // MODEL_RATE_BURST

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// OwnerIdleTTL is how long an owner's in-process catalog and write lock
	// survive without requests (OWNER_IDLE_TTL).
	OwnerIdleTTL time.Duration

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:        getenv("DB_PATH", "moodreel.db"),
		MaxQueryRunes: getint("MAX_QUERY_RUNES", 200),
		Store: StoreConfig{
			Driver:    strings.ToLower(getenv("STORE_DRIVER", "sqlite")),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			RedisTTL:  getdur("REDIS_TTL", 0),
			KeyPrefix: getenv("STORAGE_KEY", "moodreel_user_data_v1"),
		},
		Gemini: GeminiConfig{
			APIKey:          strings.TrimSpace(sysutil.FirstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))),
			Model:           getenv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:         getdur("GEMINI_TIMEOUT", 30*time.Second),
			Count:           getint("RECOMMEND_COUNT", 12),
			BreakerFailures: getint("BREAKER_FAILURES", 5),
			BreakerTimeout:  getdur("BREAKER_TIMEOUT", 30*time.Second),
		},
		Images: ImagesConfig{
			BaseURL:        getenv("IMAGE_BASE_URL", "https://image.tmdb.org/t/p/"),
			PosterWidth:    getenv("POSTER_WIDTH", "w500"),
			PlaceholderURL: getenv("PLACEHOLDER_URL", "https://placehold.co/500x750/1a1a2e/ffffff?text="),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		ModelRateRPS:   getfloat("MODEL_RATE_RPS", 0.5),
		ModelRateBurst: getint("MODEL_RATE_BURST", 3),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),
		OwnerIdleTTL:   getdur("OWNER_IDLE_TTL", 30*time.Minute),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "moodreel-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.MaxQueryRunes < 1 {
		return cfg, errors.New("MAX_QUERY_RUNES must be >= 1")
	}
	switch cfg.Store.Driver {
	case "sqlite", "memory":
	case "redis":
		if strings.TrimSpace(cfg.Store.RedisAddr) == "" {
			return cfg, errors.New("REDIS_ADDR must not be empty when STORE_DRIVER=redis")
		}
	default:
		return cfg, errors.New("STORE_DRIVER must be one of: sqlite, redis, memory")
	}
	if strings.TrimSpace(cfg.Store.KeyPrefix) == "" {
		return cfg, errors.New("STORAGE_KEY must not be empty")
	}
	if cfg.Store.RedisTTL < 0 {
		return cfg, errors.New("REDIS_TTL must be >= 0")
	}
	if cfg.Gemini.Timeout <= 0 || cfg.Gemini.BreakerTimeout <= 0 {
		return cfg, errors.New("GEMINI_TIMEOUT and BREAKER_TIMEOUT must be positive durations")
	}
	if cfg.Gemini.Count < 1 || cfg.Gemini.Count > 50 {
		return cfg, errors.New("RECOMMEND_COUNT must be between 1 and 50")
	}
	if cfg.Gemini.BreakerFailures < 1 {
		return cfg, errors.New("BREAKER_FAILURES must be >= 1")
	}
	if !strings.HasPrefix(cfg.Images.BaseURL, "http") || !strings.HasPrefix(cfg.Images.PlaceholderURL, "http") {
		return cfg, errors.New("IMAGE_BASE_URL and PLACEHOLDER_URL must be absolute http(s) URLs")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.ModelRateRPS < 0 || cfg.ModelRateBurst < 1 {
		return cfg, errors.New("MODEL_RATE_RPS must be >= 0 and MODEL_RATE_BURST >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OwnerIdleTTL <= 0 {
		return cfg, errors.New("OWNER_IDLE_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
