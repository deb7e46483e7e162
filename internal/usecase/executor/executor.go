// Package executor turns command descriptions into tool invocations. It owns
// the fixed tool path, renders the argument vector, classifies failures, and
// offers raw, decoded, callback, and detached execution modes.
package executor

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"simkit/internal/codec"
	"simkit/internal/domain"
	"simkit/internal/infra/tracer"
	"simkit/internal/usecase/capture"
)

// ProcessRunner abstracts the runner for testing.
type ProcessRunner interface {
	Run(ctx context.Context, path string, args []string, env map[string]string) ([]byte, error)
}

// Config identifies the external tool.
type Config struct {
	ToolPath string   // absolute path launched for every command
	ToolArgs []string // fixed leading arguments, e.g. ["simctl"] under xcrun
}

// Executor invokes the external tool. It is stateless and safe for concurrent
// use; callers needing ordering across invocations serialize themselves.
type Executor struct {
	toolPath string
	toolArgs []string
	runner   ProcessRunner
	captures *capture.Manager
	logger   *slog.Logger
}

// New creates an Executor. captures may be nil when detached execution is not
// needed.
func New(cfg Config, r ProcessRunner, captures *capture.Manager, logger *slog.Logger) *Executor {
	return &Executor{
		toolPath: cfg.ToolPath,
		toolArgs: cfg.ToolArgs,
		runner:   r,
		captures: captures,
		logger:   logger,
	}
}

// argv renders the full argument vector: fixed leading args, then the
// subcommand name, then the command's arguments in original order.
func (e *Executor) argv(cmd domain.Command) []string {
	args := make([]string, 0, len(e.toolArgs)+len(cmd.Args)+1)
	args = append(args, e.toolArgs...)
	args = append(args, cmd.Argv()...)
	return args
}

// Execute runs the command and returns its raw stdout bytes. The call blocks
// the calling goroutine until the process exits and its output is fully
// captured; run it on a worker goroutine when the caller must stay
// responsive. Errors are typed: launch failures, tool-reported failures, and
// decode failures are distinguishable with errors.Is.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command) ([]byte, error) {
	ctx, span := tracer.StartSpan(ctx, "executor.execute",
		trace.WithAttributes(tracer.StringAttr("subcommand", cmd.Name)))
	defer span.End()

	out, err := e.runner.Run(ctx, e.toolPath, e.argv(cmd), cmd.Env)
	if err != nil {
		tracer.RecordError(span, err)
		e.logger.Warn("command failed", "subcommand", cmd.Name, "error", err)
		return nil, err
	}
	tracer.SetOK(span)
	e.logger.Debug("command completed", "subcommand", cmd.Name, "stdout_bytes", len(out))
	return out, nil
}

// Go runs the command on its own goroutine and delivers the outcome to done
// exactly once. Fire-and-forget callers pass a done that ignores the result.
func (e *Executor) Go(ctx context.Context, cmd domain.Command, done func([]byte, error)) {
	go func() {
		done(e.Execute(ctx, cmd))
	}()
}

// Detach starts the command without waiting for completion and returns a
// handle the caller owns. The executor does not track the process further.
func (e *Executor) Detach(ctx context.Context, cmd domain.Command) (*capture.Handle, error) {
	if e.captures == nil {
		return nil, domain.WrapOp("executor.Detach", domain.ErrInvalidInput)
	}
	return e.captures.Start(ctx, e.toolPath, e.argv(cmd), cmd.Env)
}

// Decoded runs the command and applies decode to its output. A process
// failure is surfaced untouched, without attempting to decode; a successful
// run whose bytes do not match the schema yields the decoder's DecodeError.
func Decoded[T any](ctx context.Context, e *Executor, cmd domain.Command, decode codec.DecodeFunc[T]) (T, error) {
	out, err := e.Execute(ctx, cmd)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode(out)
}
