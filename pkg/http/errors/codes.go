package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Game errors
	ErrCodeUsernameTaken       = "username_taken"
	ErrCodeGameNotFound        = "game_not_found"
	ErrCodeGameFinished        = "game_finished"
	ErrCodeStartFailed         = "start_failed"
	ErrCodeQuestionFetchFailed = "question_fetch_failed"
	ErrCodeSubmitFailed        = "submit_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// Leaderboard errors
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
)
