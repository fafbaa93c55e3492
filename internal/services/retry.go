package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"conferencecentral/internal/domain"
)

// RetryPolicy bounds how often a transaction that lost an optimistic race is re-run.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
}

// DefaultRetryPolicy allows three attempts in total.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 3, InitialInterval: 20 * time.Millisecond}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	b.MaxInterval = 2 * time.Second
	return b
}

// retryOnConflict runs op until it succeeds, fails with anything other than
// ErrConcurrentModification, or the policy runs out of tries. Exhausted
// retries are reported as ErrTransactionConflict.
func retryOnConflict[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	maxTries := policy.MaxTries
	if maxTries == 0 {
		maxTries = 1
	}
	attempts := 0
	res, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		res, err := op(ctx)
		if err != nil && !errors.Is(err, domain.ErrConcurrentModification) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, backoff.WithBackOff(policy.backOff()), backoff.WithMaxTries(maxTries))
	if err == nil {
		return res, nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		return res, fmt.Errorf("%w: gave up after %d attempts", domain.ErrTransactionConflict, attempts)
	case errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrStoreTimeout):
		return res, fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	}
	return res, err
}
