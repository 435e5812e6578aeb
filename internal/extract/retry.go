package extract

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// withRetry runs op up to maxRetries+1 times with a fixed delay between
// attempts, returning the value of the first success or the last error after
// exhausting retries. Any error kind is retried; context cancellation stops
// the loop at the next delay.
//
// Not safe for operations with non-idempotent side effects; the extraction
// pipeline only wraps read-only model queries.
func withRetry[T any](ctx context.Context, maxRetries uint, delay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := retry.Do(
		func() error {
			v, err := op(ctx)
			if err != nil {
				return err
			}
			out = v
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxRetries+1),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	return out, err
}
