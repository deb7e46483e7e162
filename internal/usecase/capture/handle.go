package capture

import (
	"context"
	"os"

	"simkit/internal/domain"
)

// Handle is the caller's reference to a detached session. It is returned
// before the underlying process completes; terminating it affects only its
// own process.
type Handle struct {
	id string
	m  *Manager
}

// ID returns the session identifier.
func (h *Handle) ID() string { return h.id }

// Session returns a snapshot of the session's current state.
func (h *Handle) Session() (domain.CaptureSession, error) {
	e, err := h.m.lookup(h.id)
	if err != nil {
		return domain.CaptureSession{}, err
	}
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	return e.session, nil
}

// Interrupt sends SIGINT to the process. Video recording treats this as the
// stop signal and finalizes its output file before exiting.
func (h *Handle) Interrupt() error {
	e, err := h.m.lookup(h.id)
	if err != nil {
		return err
	}
	return e.cmd.Process.Signal(os.Interrupt)
}

// Kill terminates the process immediately.
func (h *Handle) Kill(ctx context.Context) error {
	return h.m.kill(ctx, h.id)
}

// Wait blocks until the process exits or ctx is cancelled.
func (h *Handle) Wait(ctx context.Context) error {
	e, err := h.m.lookup(h.id)
	if err != nil {
		return err
	}
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Output returns the buffered stdout captured so far.
func (h *Handle) Output() (string, error) {
	e, err := h.m.lookup(h.id)
	if err != nil {
		return "", err
	}
	return e.stdout.String(), nil
}

// Stderr returns the buffered stderr captured so far.
func (h *Handle) Stderr() (string, error) {
	e, err := h.m.lookup(h.id)
	if err != nil {
		return "", err
	}
	return e.stderr.String(), nil
}
