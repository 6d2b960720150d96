package pipeline

import (
	"errors"
)

// Error classes for the external side effects. Adapters wrap their
// transport failures with the matching class so the engine and runner
// can tell an outage apart from a single-item stage failure using
// errors.Is.
var (
	// ErrFeedUnavailable means the upstream feed itself is unreachable.
	// The whole run fails; the runner retries it on a longer interval.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrUploadFailed, ErrPostFailed and ErrCommentFailed are
	// single-item stage failures. The item stays at its persisted stage
	// and is retried on the next top-level invocation, never within the
	// same pass.
	ErrUploadFailed  = errors.New("media upload failed")
	ErrPostFailed    = errors.New("link post failed")
	ErrCommentFailed = errors.New("comment failed")
)
