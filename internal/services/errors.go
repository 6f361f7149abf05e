// Package services defines the business logic for mood recommendations,
// catalog views, and the per-owner watchlist/history aggregate.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import (
	"errors"

	"github.com/tbourn/go-moodreel-backend/internal/library"
)

var (
	// ErrUnknownMood is returned when a recommendation names a mood outside
	// the enumerated set.
	ErrUnknownMood = errors.New("unknown mood")

	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrQueryTooLong is returned when a search query exceeds the configured
	// rune limit.
	ErrQueryTooLong = errors.New("query too long")

	// ErrProfileNotFound indicates the selected profile is not in the roster.
	ErrProfileNotFound = library.ErrProfileNotFound

	// ErrInvalidMovie is returned when a collection mutation carries a movie
	// without an id or title.
	ErrInvalidMovie = errors.New("movie must have an id and a title")
)
