package waveform

import "sync/atomic"

// CancelToken is a cooperative cancellation flag checked at chunk
// boundaries by long-running builders (cache builds, filter/sort passes).
// Cancellation is not an error: consumers discard the Cancelled outcome.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel marks the token cancelled. Safe to call from any goroutine.
func (c *CancelToken) Cancel() {
	if c == nil {
		return
	}
	c.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called. A nil token is never
// cancelled, so callers may pass nil to opt out of cancellation.
func (c *CancelToken) Cancelled() bool {
	return c != nil && c.cancelled.Load()
}

// ChunkSize is the default number of rows processed between cancellation
// checks during a cache build.
const ChunkSize = 256
