package system

import (
	"context"
	"errors"
	"time"
)

// Executes an operation with context awareness. The operation receives a
// context that is cancelled when the parent is, and the caller always waits
// for the operation to return so no work outlives the call.
//
// The function handles three key scenarios:
//   - Normal completion: The operation finishes and its error is returned as is
//   - Error during the operation: The error is propagated to the caller
//   - Context cancellation: The operation is signaled to stop and the parent's
//     context error is returned unless the operation failed for another reason
//
// Returns:
//   - nil if the operation completes successfully.
//   - original error if the operation fails.
//   - the parent context's error if interrupted.
func RunWithContext(ctx context.Context, operation func(context.Context) error) error {
	// Fast feedback if the request was cancelled before we started.
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so the goroutine can exit even if nobody reads the result.
	done := make(chan error, 1)

	go func() {
		done <- operation(opCtx)
		close(done)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		// Wait for the operation so the caller never races with it.
		err := <-done
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ctx.Err()
		}
		return err
	}
}

// RunWithTimeout is RunWithContext bounded by timeout. A zero timeout only
// inherits the parent's deadline.
func RunWithTimeout(ctx context.Context, timeout time.Duration, operation func(context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return RunWithContext(ctx, operation)
}
