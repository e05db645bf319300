// ABOUTME: Bounded collaborator calls for the dispatcher
// ABOUTME: Calls are detached from caller cancellation; late results are discarded
package core

import (
	"context"
	"fmt"
	"time"
)

type callResult[T any] struct {
	val T
	err error
}

// boundedCall runs fn with a context that survives caller cancellation and waits at most
// timeout for it. On timeout or caller cancellation fn keeps running to completion and its
// result is dropped, so a half-finished write is never aborted mid-flight.
func boundedCall[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	done := make(chan callResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult[T]{err: fmt.Errorf("%w: panic: %v", ErrCollaboratorUnavailable, r)}
			}
		}()
		v, err := fn(context.WithoutCancel(ctx))
		done <- callResult[T]{val: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return zero, fmt.Errorf("%w: %w", ErrCollaboratorUnavailable, r.err)
		}
		return r.val, nil
	case <-timer.C:
		return zero, fmt.Errorf("%w after %s", ErrCollaboratorTimeout, timeout)
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", ErrCollaboratorUnavailable, ctx.Err())
	}
}
