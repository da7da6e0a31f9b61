package usecase

import (
	"context"
	"englishtalk/config"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy is a bounded constant-backoff retry. MaxRetries counts attempts after the first.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func NewRetryPolicy(c *config.Config) RetryPolicy {
	return RetryPolicy{MaxRetries: c.Dialogue.MaxRetries, Backoff: c.Dialogue.RetryBackoff}
}

// Retryable marks err so that Do tries again.
func Retryable(err error) error {
	return retry.RetryableError(err)
}

// Do runs fn until it succeeds, returns a non-retryable error, or the bound is used up.
// It returns the number of attempts made.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = time.Millisecond
	}
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	b := retry.WithMaxRetries(uint64(maxRetries), retry.NewConstant(backoff))

	attempts := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++
		return fn(ctx)
	})
	return attempts, err
}
