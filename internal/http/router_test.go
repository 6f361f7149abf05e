package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-moodreel-backend/internal/config"
	"github.com/tbourn/go-moodreel-backend/internal/http/middleware"
	"github.com/tbourn/go-moodreel-backend/internal/recommend"
	"github.com/tbourn/go-moodreel-backend/internal/repo"
	"github.com/tbourn/go-moodreel-backend/internal/store"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        100,
		RateBurst:      50,
		ModelRateRPS:   100,
		ModelRateBurst: 50,
		MaxQueryRunes:  200,
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Gemini:         config.GeminiConfig{Count: 12},
	}
}

func newRouter(t *testing.T, cfg config.Config, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:     db,
		Store:  store.NewMemoryStore(),
		Source: recommend.NewBreakerSource(recommend.NewStaticSource(), recommend.BreakerConfig{}, zerolog.Nop()),
	}, cfg)
	return r
}

func send(r http.Handler, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	var rdr io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newRouter(t, testConfig(), newTestDB(t))

	w := send(r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	var health map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &health)
	if health["status"] != "ok" || health["source"] != "closed" {
		t.Fatalf("health body = %v", health)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("request id / security headers missing: %v", w.Header())
	}

	w = send(r, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	w = send(r, http.MethodGet, "/nope", nil, nil)
	if w.Code != http.StatusNotFound || !bytes.Contains(w.Body.Bytes(), []byte(`"not_found"`)) {
		t.Fatalf("GET /nope = %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/health", nil, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r := newRouter(t, cfg, newTestDB(t))

	w := send(r, http.MethodGet, "/health", nil, map[string]string{"Origin": "http://example.com"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
	w = send(r, http.MethodGet, "/health", nil, map[string]string{"Origin": "http://evil.test"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected ACAO for foreign origin: %q", got)
	}
}

func TestRegisterRoutes_RecommendAndCatalog(t *testing.T) {
	r := newRouter(t, testConfig(), newTestDB(t))
	owner := map[string]string{middleware.HeaderUserID: "alice"}

	w := send(r, http.MethodGet, "/api/v1/moods", nil, owner)
	if w.Code != http.StatusOK {
		t.Fatalf("moods = %d", w.Code)
	}

	w = send(r, http.MethodPost, "/api/v1/recommendations", map[string]string{"mood": "excited"}, owner)
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations = %d %s", w.Code, w.Body.String())
	}
	var view struct {
		Kind   string           `json:"kind"`
		Total  int              `json:"total"`
		Movies []map[string]any `json:"movies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Kind != "mood" || view.Total == 0 {
		t.Fatalf("view = %+v", view)
	}
	if p, _ := view.Movies[0]["poster_path"].(string); len(p) < 8 || p[:8] != "https://" {
		t.Fatalf("poster not normalized: %v", view.Movies[0]["poster_path"])
	}

	// Catalogs are per owner.
	w = send(r, http.MethodGet, "/api/v1/catalog", nil, map[string]string{middleware.HeaderUserID: "bob"})
	if !bytes.Contains(w.Body.Bytes(), []byte(`"total":0`)) {
		t.Fatalf("bob should have an empty catalog: %s", w.Body.String())
	}
}

func TestRegisterRoutes_ToggleIdempotency(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, testConfig(), db)
	body := map[string]any{"movie": map[string]any{"movie_id": "27205", "title": "Inception"}}
	hdr := map[string]string{middleware.HeaderUserID: "alice", middleware.HeaderIdempotencyKey: "toggle-1"}

	first := send(r, http.MethodPost, "/api/v1/library/watchlist/toggle", body, hdr)
	if first.Code != http.StatusOK || !bytes.Contains(first.Body.Bytes(), []byte(`"present":true`)) {
		t.Fatalf("first toggle = %d %s", first.Code, first.Body.String())
	}
	retry := send(r, http.MethodPost, "/api/v1/library/watchlist/toggle", body, hdr)
	if retry.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" || retry.Body.String() != first.Body.String() {
		t.Fatalf("retry not replayed: %v %s", retry.Header(), retry.Body.String())
	}

	hdr[middleware.HeaderIdempotencyKey] = "toggle-2"
	second := send(r, http.MethodPost, "/api/v1/library/watchlist/toggle", body, hdr)
	if !bytes.Contains(second.Body.Bytes(), []byte(`"present":false`)) {
		t.Fatalf("new key should toggle again: %s", second.Body.String())
	}

	var n int64
	db.Table("idempotency").Count(&n)
	if n != 2 {
		t.Fatalf("idempotency rows = %d, want 2", n)
	}
}

func TestRegisterRoutes_ToggleStoresNormalizedMovie(t *testing.T) {
	r := newRouter(t, testConfig(), newTestDB(t))
	owner := map[string]string{middleware.HeaderUserID: "dave"}

	w := send(r, http.MethodPost, "/api/v1/library/history/toggle",
		map[string]any{"movie": map[string]any{"movie_id": "x1", "title": "Heat", "poster_path": "abc.jpg"}}, owner)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle = %d %s", w.Code, w.Body.String())
	}

	var st struct {
		History []struct {
			PosterPath  string `json:"poster_path"`
			ReleaseYear int    `json:"release_year"`
		} `json:"history"`
	}
	w = send(r, http.MethodGet, "/api/v1/state", nil, owner)
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil || len(st.History) != 1 {
		t.Fatalf("state: %v %s", err, w.Body.String())
	}
	if p := st.History[0].PosterPath; !strings.HasPrefix(p, "https://") {
		t.Fatalf("stored poster not absolute: %q", p)
	}
	if y := st.History[0].ReleaseYear; y != time.Now().Year() {
		t.Fatalf("stored year = %d; want current year", y)
	}

	w = send(r, http.MethodPost, "/api/v1/library/watchlist/toggle",
		map[string]any{"movie": map[string]any{"movie_id": "x2", "title": "Ronin", "vote_average": "7.2"}}, owner)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"vote_average":7.2`)) {
		t.Fatalf("string rating not coerced: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodDelete, "/api/v1/state", nil, owner)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"watchlist":[]`)) {
		t.Fatalf("reset = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_ModelRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.ModelRateRPS = 0
	cfg.ModelRateBurst = 1
	r := newRouter(t, cfg, nil)
	owner := map[string]string{middleware.HeaderUserID: "carol"}

	if w := send(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "heist"}, owner); w.Code != http.StatusOK {
		t.Fatalf("first search = %d", w.Code)
	}
	w := send(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "heist"}, owner)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second search = %d", w.Code)
	}
	// Non-model routes are unaffected.
	if w := send(r, http.MethodGet, "/api/v1/state", nil, owner); w.Code != http.StatusOK {
		t.Fatalf("state = %d", w.Code)
	}
}

func TestRegisterRoutes_SwaggerAndGzip(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r := newRouter(t, cfg, nil)

	w := send(r, http.MethodGet, "/swagger/doc.json", nil, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("/library/watchlist/toggle")) {
		t.Fatalf("swagger doc = %d", w.Code)
	}

	w = send(r, http.MethodGet, "/api/v1/moods", nil, map[string]string{"Accept-Encoding": "gzip"})
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, headers=%v", w.Header())
	}
}

func TestIdempotencyStore_Shim(t *testing.T) {
	db := newTestDB(t)
	st := idempotencyStore{db: db, ttl: time.Hour}
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := st.Lookup(ctx, "u1", "POST /x", "k", now)
	if rec != nil || err != nil {
		t.Fatalf("miss: %v %v", rec, err)
	}
	if err := st.Record(ctx, "u1", "POST /x", "k", middleware.StoredResponse{Status: 200, Body: []byte(`{"a":1}`)}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := st.Record(ctx, "u1", "POST /x", "k", middleware.StoredResponse{Status: 200, Body: []byte(`{"a":2}`)}); err != nil {
		t.Fatalf("duplicate record should be ignored: %v", err)
	}
	rec, err = st.Lookup(ctx, "u1", "POST /x", "k", now)
	if err != nil || rec == nil || rec.Status != 200 || string(rec.Body) != `{"a":1}` {
		t.Fatalf("hit: %+v %v", rec, err)
	}

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	if _, err := st.Lookup(ctx, "u1", "POST /x", "k", now); err == nil {
		t.Fatal("expected error from closed db")
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}
