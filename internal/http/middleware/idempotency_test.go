package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type memIdem struct {
	mu        sync.Mutex
	recs      map[string]StoredResponse
	lookups   int
	lookupErr error
	recordErr error
}

func newMemIdem() *memIdem { return &memIdem{recs: map[string]StoredResponse{}} }

func (m *memIdem) Lookup(_ context.Context, owner, scope, key string, _ time.Time) (*StoredResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	rec, ok := m.recs[owner+"|"+scope+"|"+key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memIdem) Record(_ context.Context, owner, scope, key string, resp StoredResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recs[owner+"|"+scope+"|"+key] = resp
	return nil
}

// toggleRouter counts handler executions so replays can be told apart.
func toggleRouter(st IdempotencyStore, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Identity(), IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, st))
	r.POST("/toggle", Replay(st), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"present": *calls%2 == 1})
	})
	r.POST("/fail", Replay(st), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusBadRequest, gin.H{"code": "invalid_movie"})
	})
	r.GET("/read", func(c *gin.Context) {
		_, has := GetIdempotencyKey(c)
		if has {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func post(r http.Handler, path, owner, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if owner != "" {
		req.Header.Set(HeaderUserID, owner)
	}
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestReplay_RecordsAndReplaysToggle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newMemIdem()
	calls := 0
	r := toggleRouter(st, &calls)

	first := post(r, "/toggle", "u1", "k-1")
	if first.Code != http.StatusOK || !strings.Contains(first.Body.String(), `"present":true`) {
		t.Fatalf("first: %d %s", first.Code, first.Body.String())
	}
	second := post(r, "/toggle", "u1", "k-1")
	if second.Code != http.StatusOK || second.Body.String() != first.Body.String() {
		t.Fatalf("replay mismatch: %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get(HeaderIdempotencyReplayed) != "true" {
		t.Fatal("missing replay header")
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times; want 1", calls)
	}

	// Keys are scoped by owner.
	other := post(r, "/toggle", "u2", "k-1")
	if other.Header().Get(HeaderIdempotencyReplayed) != "" || calls != 2 {
		t.Fatalf("other owner must not replay (calls=%d)", calls)
	}

	// No key: plain toggle every time.
	post(r, "/toggle", "u1", "")
	post(r, "/toggle", "u1", "")
	if calls != 4 {
		t.Fatalf("calls=%d want 4", calls)
	}
}

func TestReplay_DoesNotRecordErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newMemIdem()
	calls := 0
	r := toggleRouter(st, &calls)

	post(r, "/fail", "u1", "k-2")
	post(r, "/fail", "u1", "k-2")
	if calls != 2 {
		t.Fatalf("error responses must not be replayed; calls=%d", calls)
	}
	if len(st.recs) != 0 {
		t.Fatalf("unexpected records: %v", st.recs)
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newMemIdem()
	calls := 0
	r := toggleRouter(st, &calls)

	for _, key := range []string{"has space", strings.Repeat("a", 17), "semi;colon"} {
		w := post(r, "/toggle", "", key)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: %d %s", key, w.Code, w.Body.String())
		}
	}
	if calls != 0 || st.lookups != 0 {
		t.Fatalf("rejected keys must not reach lookup or handler (calls=%d lookups=%d)", calls, st.lookups)
	}
}

func TestIdempotencyValidator_IgnoresSafeMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newMemIdem()
	calls := 0
	r := toggleRouter(st, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.Header.Set(HeaderIdempotencyKey, "not valid at all")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || st.lookups != 0 {
		t.Fatalf("GET should bypass validation: %d lookups=%d", w.Code, st.lookups)
	}
}

func TestIdempotency_StoreFailuresAreSoft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newMemIdem()
	st.lookupErr = errors.New("db down")
	st.recordErr = errors.New("db down")
	calls := 0
	r := toggleRouter(st, &calls)

	for i := 0; i < 2; i++ {
		if w := post(r, "/toggle", "u1", "k-3"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: %d", i, w.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("calls=%d want 2", calls)
	}
}

func TestIdempotencyScopeAndFlags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var scope string
	var replay, bypass bool
	st := newMemIdem()
	st.recs["demo-user|DELETE /items/:id|k"] = StoredResponse{Status: http.StatusOK, Body: []byte(`{}`)}
	r.Use(IdempotencyValidator(IdempotencyOptions{}, st))
	r.DELETE("/items/:id", func(c *gin.Context) {
		scope = IdempotencyScope(c)
		replay = IsReplay(c)
		bypass = IsRateBypass(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/items/42", nil)
	req.Header.Set(HeaderIdempotencyKey, "k")
	r.ServeHTTP(w, req)

	if scope != "DELETE /items/:id" {
		t.Fatalf("scope=%q", scope)
	}
	if !replay || !bypass {
		t.Fatalf("replay=%v bypass=%v", replay, bypass)
	}
}
