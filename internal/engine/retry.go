package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// linearBackOff waits n*step before retry n (1-based), so the first retry
// waits one step, the second two steps, and so on.
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }

// RetryDo runs fn up to attempts times with linear backoff.
// Errors wrapped with backoff.Permanent stop the loop immediately and are
// returned unwrapped.
func RetryDo[T any](ctx context.Context, attempts int, step time.Duration, fn func() (T, error)) (T, error) {
	if attempts <= 0 {
		attempts = 1
	}
	res, err := backoff.Retry(ctx, fn,
		backoff.WithBackOff(&linearBackOff{step: step}),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			metrics.HTTPRetries.Add(1)
			slog.Debug("retrying", slog.Duration("wait", wait), slog.Any("error", err))
		}),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		// the try limit can be hit before the permanent check unwraps it
		err = permanent.Unwrap()
	}
	return res, err
}
