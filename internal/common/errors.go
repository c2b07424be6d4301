// Package common defines shared constants and sentinel errors used across
// the file-to-link service. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Registry-level errors.
	ErrorNotFound = errors.New("not found")

	// Range negotiation errors (mapped to 416 by the HTTP layer).
	ErrorInvalidRange = errors.New("invalid range")

	// Streaming errors.
	ErrorUpstreamUnavailable = errors.New("upstream unavailable")
	ErrorLocalIO             = errors.New("local cache unreadable")

	// Cached-mode link dereferenced before the local copy is complete
	// (mapped to 503, never 404).
	ErrorNotReady = errors.New("file not ready")
)
