// Package collect gathers raw system state for every artifact class and
// normalizes it into canonical entries. Each collector reads one source
// family (files or a system utility), applies a bounded time budget, and
// degrades to an error instead of aborting the run when the source is
// unreadable or the utility is unavailable.
package collect

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// defaultTimeout bounds a single external command when the caller's context
// carries no deadline of its own.
const defaultTimeout = 15 * time.Second

// runCommand executes a system utility and returns its stdout. The command is
// killed when the context deadline passes so no collection call can block a
// run indefinitely.
func runCommand(ctx context.Context, bin string, args ...string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s timed out", bin)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", bin, err)
	}
	return stdout.Bytes(), nil
}
