package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels. Use errors.Is against these to branch on failure kind;
// the typed wrappers below carry the per-failure detail.
var (
	ErrLaunch       = errors.New("tool could not be launched")
	ErrCommand      = errors.New("tool reported failure")
	ErrDecode       = errors.New("tool output did not decode")
	ErrNotFound     = errors.New("not found")
	ErrLimitReached = errors.New("limit reached")
	ErrInvalidInput = errors.New("invalid input")
)

// LaunchError means the external tool's process could not be started at all:
// missing binary, permission denial, or pipe/environment setup failure.
// It is never produced for a tool that ran and exited non-zero.
type LaunchError struct {
	Path string // executable path that failed to start
	Err  error  // underlying system error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() []error { return []error{ErrLaunch, e.Err} }

// CommandError means the external tool ran and reported failure. Stderr holds
// the tool's own diagnostic bytes verbatim for user display.
type CommandError struct {
	Argv     []string
	ExitCode int
	Stderr   []byte
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(string(e.Stderr))
	if msg == "" {
		return fmt.Sprintf("%s: exit status %d", strings.Join(e.Argv, " "), e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d: %s", strings.Join(e.Argv, " "), e.ExitCode, msg)
}

func (e *CommandError) Unwrap() error { return ErrCommand }

// DecodeError means the tool succeeded but its output bytes did not match the
// expected schema. Kept distinct from CommandError: the remediation differs
// ("the tool failed" vs "the tool's output was unparseable").
type DecodeError struct {
	Format string // "json" or "plist"
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s output: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// WrapOp adds operation context to an error.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
