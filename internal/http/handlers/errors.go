// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics; the domain
// codes below them name the specific recommendation or library failure.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "unknown_mood",
//	  "message": "mood must be one of happy, sad, excited, relaxed"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeUnknownMood     = "unknown_mood"
	ErrCodeInvalidQuery    = "invalid_query"
	ErrCodeQueryTooLong    = "query_too_long"
	ErrCodeInvalidMovie    = "invalid_movie"
	ErrCodeProfileNotFound = "profile_not_found"
	ErrCodeSaveFailed      = "save_failed"
	ErrCodeRecommendFailed = "recommend_failed"
)
