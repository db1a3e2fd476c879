package batch

import "errors"

var (
	ErrInvalidRecordingStart = errors.New("invalid recording start instant")
	ErrMalformedBatchID      = errors.New("malformed batch id")

	ErrInvalidSegment       = errors.New("invalid path segment")
	ErrInvalidArtifactType  = errors.New("invalid artifact type")
	ErrInsufficientSegments = errors.New("insufficient path segments")
	ErrPathTraversal        = errors.New("path traversal detected")

	ErrBatchNotFound = errors.New("batch not found")

	ErrMissingBatchID         = errors.New("batch_id is required")
	ErrMissingUserID          = errors.New("user_id is required")
	ErrInvalidEventStatus     = errors.New("status must be completed or failed")
	ErrMissingRecordingStart  = errors.New("recording_started_at is required")
	ErrMissingArtifactPaths   = errors.New("artifact_paths is required")
	ErrMissingPublishedAt     = errors.New("published_at is required")
	ErrMissingErrorMessage    = errors.New("error_message is required for failed events")
	ErrUnexpectedErrorMessage = errors.New("error_message is forbidden for completed events")
)
