package model

import "errors"

// Error taxonomy (spec.md §7). These are sentinels meant to be wrapped with
// fmt.Errorf("...: %w", ErrX) and matched with errors.Is at the boundary where
// a caller decides abort-vs-continue.
var (
	// ErrRetryable marks a transient transport failure or a 429, 500, 502,
	// 503 or 504 response.
	// The HTTP client retries these up to MaxAttempts before giving up.
	ErrRetryable = errors.New("retryable error")

	// ErrTerminalTransport marks a non-retryable HTTP failure: any non-2xx
	// status other than 429/500/502/503/504, or a JSON decode failure on a
	// 2xx response.
	ErrTerminalTransport = errors.New("terminal transport error")

	// ErrEmptyUpstream marks an empty-but-successful response. Not an error
	// condition by itself; callers decide whether an empty result is fatal.
	ErrEmptyUpstream = errors.New("empty upstream response")

	// ErrNoRelationsFound marks a country-root query that returned nothing at
	// the configured start level.
	ErrNoRelationsFound = errors.New("no relations found")

	// ErrLevelAborted marks a geometry batch that exhausted its retries,
	// aborting the country's current admin level.
	ErrLevelAborted = errors.New("admin level aborted")
)
