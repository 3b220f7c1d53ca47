// Package retry provides a bounded retry helper shared by the external
// service adapters. Every retry policy in the pipeline is bounded to keep
// worst-case request latency predictable.
package retry

import (
	"context"
	"log"
	"time"
)

// DefaultBackoff is the pause before the single retry attempt.
const DefaultBackoff = 2 * time.Second

// Policy describes which failures are worth one more attempt.
type Policy struct {
	// Retryable reports whether the error is transient. Nil means nothing
	// is retryable.
	Retryable func(error) bool
	// Backoff is the wait before retrying. Zero means DefaultBackoff.
	Backoff time.Duration
	// Label names the operation in log output.
	Label string
}

// Do runs op, retrying exactly once after a backoff if the policy classifies
// the failure as transient. Non-retryable errors are returned immediately.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil {
		return nil
	}
	if policy.Retryable == nil || !policy.Retryable(err) {
		return err
	}

	backoff := policy.Backoff
	if backoff == 0 {
		backoff = DefaultBackoff
	}

	log.Printf("%s failed (%v), retrying once after %s", policy.Label, err, backoff)

	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	return op(ctx)
}
