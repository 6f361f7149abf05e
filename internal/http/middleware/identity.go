// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the owner of a request. There is no authentication:
// the owner id comes from the X-User-ID header and keys the owner's
// persisted watchlist and history.
package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the caller-chosen owner id.
	HeaderUserID = "X-User-ID"
	// DefaultOwner is used when no owner header is sent.
	DefaultOwner = "demo-user"

	ctxKeyUserID = "userID"
)

var ownerRE = regexp.MustCompile(`^[A-Za-z0-9._@:\-]{1,128}$`)

// Identity stores the request owner in the Gin context under "userID".
// A malformed header is rejected with 400 because the value becomes part of
// a storage key.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if owner == "" {
			owner = DefaultOwner
		} else if !ownerRE.MatchString(owner) {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(c, "bad_user_id", "invalid X-User-ID"))
			return
		}
		c.Set(ctxKeyUserID, owner)
		c.Next()
	}
}

// Owner returns the owner resolved by Identity, or DefaultOwner.
func Owner(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return DefaultOwner
}

// errorBody renders the standard error envelope for middleware-level
// rejections.
func errorBody(c *gin.Context, code, msg string) gin.H {
	return gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	}
}
