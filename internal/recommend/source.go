// Package recommend resolves a mood or a free-text query into raw candidate
// movie records by asking an external text model. Records are returned
// untyped; callers normalize them with the catalog package.
package recommend

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyRequest is returned when a Request carries neither a mood nor a query.
var ErrEmptyRequest = errors.New("request has neither mood nor query")

// Kind distinguishes mood-driven from query-driven requests.
type Kind string

const (
	KindMood  Kind = "mood"
	KindQuery Kind = "query"
)

// Request parameterizes a recommendation call. Exactly one of Mood or Query
// is expected; Mood takes precedence when both are set.
type Request struct {
	Mood  Mood
	Query string
	// Exclude lists titles the model must not suggest (usually the
	// caller's watch history).
	Exclude []string
	// Count is the number of candidates to ask for. Zero means DefaultCount.
	Count int
}

// DefaultCount is the number of candidates requested when Request.Count is zero.
const DefaultCount = 12

// Kind reports which flavor of request r is.
func (r Request) Kind() Kind {
	if r.Mood != "" {
		return KindMood
	}
	return KindQuery
}

// Validate rejects requests with nothing to recommend from.
func (r Request) Validate() error {
	if r.Mood == "" && strings.TrimSpace(r.Query) == "" {
		return ErrEmptyRequest
	}
	return nil
}

func (r Request) count() int {
	if r.Count <= 0 {
		return DefaultCount
	}
	return r.Count
}

// Source turns a Request into raw candidate records. Implementations return
// an error on transport or decoding failure; they never partially succeed.
type Source interface {
	Recommend(ctx context.Context, req Request) ([]map[string]any, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, req Request) ([]map[string]any, error)

func (f SourceFunc) Recommend(ctx context.Context, req Request) ([]map[string]any, error) {
	return f(ctx, req)
}
