// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Shared by the OpenAI client for consistent retry behavior
package util

import (
	"math/rand/v2"
	"time"
)

// DefaultMaxBackoff caps the pre-jitter delay when callers pass no cap.
const DefaultMaxBackoff = 30 * time.Second

// CalculateBackoff returns the delay before the given retry attempt:
// baseDelay doubled per attempt, capped at maxDelay, with random jitter
// of up to 25% in either direction. maxDelay <= 0 selects
// DefaultMaxBackoff. Attempts at or below zero wait nothing.
func CalculateBackoff(baseDelay, maxDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMaxBackoff
	}
	// Shifting past 30 would overflow long before any realistic cap.
	if attempt > 30 {
		attempt = 30
	}

	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > maxDelay || backoff <= 0 {
		backoff = maxDelay
	}

	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
