package remote

import (
	"context"
	"math/rand"
	"time"
)

const maxBackoffShift = 16

// Policy is an explicit retry policy: a bounded number of attempts with
// exponential backoff and full jitter between them. The zero value performs a
// single attempt with no retries.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 behave as 1.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff: attempt n waits up to
	// BaseDelay * 2^n. Zero disables waiting between attempts.
	BaseDelay time.Duration
}

// DefaultPolicy mirrors the sync engine's bounded retry requirement: three
// attempts with a short exponential backoff.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}

// Do invokes fn until it succeeds, attempts are exhausted, or ctx is
// cancelled. The last error is returned; context cancellation wins over it so
// callers can distinguish a shutdown from a remote failure.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		if err := sleepContext(ctx, p.delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// delay computes the jittered backoff for a zero-based attempt number:
// a random duration in [0, BaseDelay * 2^attempt).
func (p Policy) delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	ceiling := p.BaseDelay << uint(attempt)
	if ceiling <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(ceiling)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
