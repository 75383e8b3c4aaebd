package advisory

import (
	"context"
	"time"
)

// withRetry runs fn up to attempts times, sleeping delay before each retry
// and doubling it each time. The context cancels the wait.
func withRetry[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var out T
	var err error
	for i := 0; i < attempts; i++ {
		out, err = fn()
		if err == nil {
			return out, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return out, ctx.Err()
		}
		delay *= 2
	}
	return out, err
}
