// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for collection toggles. A
// toggle is not naturally idempotent (a retried "toggle watchlist" would
// remove what the first attempt added), so the first successful response
// for an (owner, route, key) triple is recorded and replayed verbatim for
// retries within the TTL.
//
// It is split in two halves:
//   - IdempotencyValidator (global) validates the header and looks up a
//     recorded response. A hit marks the request as a replay, which also
//     lets the rate limiter skip it.
//   - Replay (per route) serves the recorded response on a hit, or captures
//     the handler's 2xx response and records it.
package middleware

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on replayed responses.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyIdemRecord = "idem.record"
	ctxKeyRateBypass = "rate.bypass"
)

// StoredResponse is a recorded response for an idempotency key.
type StoredResponse struct {
	Status int
	Body   []byte
}

// IdempotencyStore persists recorded responses.
//
// Lookup returns (nil, nil) when nothing unexpired is recorded. Record may
// report a duplicate when a concurrent request recorded first; callers
// ignore that case.
type IdempotencyStore interface {
	Lookup(ctx context.Context, owner, scope, key string, now time.Time) (*StoredResponse, error)
	Record(ctx context.Context, owner, scope, key string, resp StoredResponse) error
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Defaults to ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether a recorded response exists for this request.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyScope identifies the operation a key applies to: the method
// plus the registered route, so one key can be reused across endpoints.
func IdempotencyScope(c *gin.Context) string {
	return c.Request.Method + " " + routePath(c)
}

// IdempotencyValidator validates Idempotency-Key on unsafe methods and
// looks up a recorded response. Safe methods and requests without the
// header pass through untouched. Lookup failures are logged and treated as
// a miss.
func IdempotencyValidator(opts IdempotencyOptions, st IdempotencyStore) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !unsafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(c, "bad_idempotency_key", "invalid Idempotency-Key"))
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if st != nil {
			rec, err := st.Lookup(c.Request.Context(), Owner(c), IdempotencyScope(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if rec != nil {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyIdemRecord, rec)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// Replay serves a recorded response when IdempotencyValidator found one.
// Otherwise it runs the handler and records its response if the request
// carried a key and the handler answered 2xx.
func Replay(st IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(ctxKeyIdemRecord); ok {
			if rec, ok := v.(*StoredResponse); ok {
				c.Header(HeaderIdempotencyReplayed, "true")
				c.Data(rec.Status, "application/json; charset=utf-8", rec.Body)
				c.Abort()
				return
			}
		}

		key, ok := GetIdempotencyKey(c)
		if !ok || st == nil {
			c.Next()
			return
		}

		rw := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rw
		c.Next()

		status := rw.Status()
		if status < 200 || status >= 300 {
			return
		}
		err := st.Record(c.Request.Context(), Owner(c), IdempotencyScope(c), key, StoredResponse{
			Status: status,
			Body:   rw.buf.Bytes(),
		})
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}
}

func unsafeMethod(m string) bool {
	switch m {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// bodyRecorder tees the response body so it can be recorded.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
