package commands

import (
	"context"
	"time"
)

// runContext is the context a single command runs under. Handlers carry no
// deadline unless WithTimeout set one; a publish waits on the database for as
// long as the caller's context allows. err is non-nil when ctx is already
// done, in which case the command must not start.
func runContext(ctx context.Context, timeout time.Duration) (run context.Context, cancel context.CancelFunc, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		run, cancel = context.WithTimeout(ctx, timeout)
	} else {
		run, cancel = context.WithCancel(ctx)
	}
	return run, cancel, run.Err()
}
