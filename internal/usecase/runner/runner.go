// Package runner launches the external tool's processes and captures their
// output. It runs one process per call, captures stdout in full, and waits
// for exit before returning; there is no streaming delivery. Callers that
// must not block run Run on their own goroutine, which is how the suspending
// variant is expressed in Go.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"simkit/internal/domain"
)

// Runner executes external processes synchronously.
type Runner struct {
	logger *slog.Logger
}

// New creates a Runner.
func New(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run launches path with args and the ambient environment plus env overrides
// (override wins on key collision), waits for exit, and returns the full
// stdout bytes. A process that cannot be started yields a domain.LaunchError;
// a process that runs and exits non-zero yields a domain.CommandError carrying
// the tool's stderr diagnostic.
func (r *Runner) Run(ctx context.Context, path string, args []string, env map[string]string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = MergeEnv(os.Environ(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &domain.LaunchError{Path: path, Err: err}
	}

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug("process failed", "path", path, "exit_code", exitErr.ExitCode())
			return stdout.Bytes(), &domain.CommandError{
				Argv:     append([]string{path}, args...),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.Bytes(),
			}
		}
		// Wait failures outside ExitError (I/O errors, context kill) are
		// launch-class: the invocation never produced a tool verdict.
		return nil, &domain.LaunchError{Path: path, Err: err}
	}

	r.logger.Debug("process completed", "path", path, "stdout_bytes", stdout.Len())
	return stdout.Bytes(), nil
}

// MergeEnv layers overrides on top of a base environment in the KEY=VALUE
// form understood by os/exec. Overridden keys keep a single entry with the
// override's value; ordering of untouched entries is preserved.
func MergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key := kv
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				key = kv[:i]
				break
			}
		}
		if val, ok := overrides[key]; ok {
			merged = append(merged, fmt.Sprintf("%s=%s", key, val))
			seen[key] = true
			continue
		}
		merged = append(merged, kv)
	}
	for key, val := range overrides {
		if !seen[key] {
			merged = append(merged, fmt.Sprintf("%s=%s", key, val))
		}
	}
	return merged
}
