package out

import "context"

// RateLimiter paces calls to the log backend.
type RateLimiter interface {
	// Wait blocks until a call identified by key may proceed or ctx is
	// done. Key is typically "<group>/<stream>".
	Wait(ctx context.Context, key string) error
}
