// Package capture tracks detached invocations of the external tool: processes
// started without waiting for completion, owned by the caller through a Handle
// once returned. The canonical user is video recording, which runs until the
// caller signals it to stop.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"simkit/internal/domain"
	"simkit/internal/usecase/runner"
)

// ManagerConfig holds configuration for the Manager.
type ManagerConfig struct {
	MaxSessions     int           // max concurrent running sessions (default: 8)
	SessionTTL      time.Duration // auto-cleanup finished sessions after this (default: 30m)
	OutputBufferMax int           // max bytes of output to buffer per session (default: 256KB)
	CleanupInterval time.Duration // how often to run TTL cleanup (default: 1m)
}

// entry holds the runtime state for a single detached session.
type entry struct {
	session domain.CaptureSession
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	stdout  *ringBuffer
	stderr  *ringBuffer
	done    chan struct{}
}

// Manager launches and tracks detached sessions. Sessions are in-memory only.
type Manager struct {
	sessions map[string]*entry
	mu       sync.Mutex
	config   ManagerConfig
	bus      domain.EventBus
	logger   *slog.Logger
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewManager creates a Manager and starts the TTL cleanup goroutine.
func NewManager(cfg ManagerConfig, bus domain.EventBus, logger *slog.Logger) *Manager {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 8
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.OutputBufferMax <= 0 {
		cfg.OutputBufferMax = 256 * 1024
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 1 * time.Minute
	}

	m := &Manager{
		sessions: make(map[string]*entry),
		config:   cfg,
		bus:      bus,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Start launches path with args detached and returns a Handle immediately.
// The returned Handle is owned by the caller; the Manager only retains the
// session for listing and TTL cleanup.
func (m *Manager) Start(ctx context.Context, path string, args []string, env map[string]string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	activeCount := 0
	for _, e := range m.sessions {
		if e.session.Status == domain.CaptureStatusRunning {
			activeCount++
		}
	}
	if activeCount >= m.config.MaxSessions {
		return nil, domain.WrapOp("capture.Start",
			fmt.Errorf("%w: %d/%d active sessions", domain.ErrLimitReached, activeCount, m.config.MaxSessions))
	}

	sessionID := m.newID()

	// Detached context so the process outlives the triggering request.
	cmdCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(cmdCtx, path, args...)
	cmd.Env = runner.MergeEnv(os.Environ(), env)

	stdoutBuf := newRingBuffer(m.config.OutputBufferMax)
	stderrBuf := newRingBuffer(m.config.OutputBufferMax)
	cmd.Stdout = stdoutBuf
	cmd.Stderr = stderrBuf

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &domain.LaunchError{Path: path, Err: err}
	}

	session := domain.CaptureSession{
		ID:        sessionID,
		Command:   path,
		Args:      args,
		Status:    domain.CaptureStatusRunning,
		StartedAt: time.Now(),
	}

	e := &entry{
		session: session,
		cmd:     cmd,
		cancel:  cancel,
		stdout:  stdoutBuf,
		stderr:  stderrBuf,
		done:    make(chan struct{}),
	}
	m.sessions[sessionID] = e

	go m.waitForCompletion(e)

	m.emitEvent(ctx, domain.EventCaptureStarted, session)
	m.logger.Info("capture started", "session_id", sessionID, "command", path)

	return &Handle{id: sessionID, m: m}, nil
}

// List returns summary entries for all tracked sessions.
func (m *Manager) List() []domain.CaptureListEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]domain.CaptureListEntry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, domain.CaptureListEntry{
			ID:        e.session.ID,
			Command:   e.session.Command,
			Status:    e.session.Status,
			StartedAt: e.session.StartedAt,
			EndedAt:   e.session.EndedAt,
			ExitCode:  e.session.ExitCode,
		})
	}
	return entries
}

// Clear removes all finished (completed/failed/killed) sessions.
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if e.session.Status != domain.CaptureStatusRunning {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Stop shuts down the cleanup goroutine and kills all running sessions.
func (m *Manager) Stop(ctx context.Context) {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})

	m.mu.Lock()
	var running []*entry
	now := time.Now()
	for _, e := range m.sessions {
		if e.session.Status == domain.CaptureStatusRunning {
			e.session.Status = domain.CaptureStatusKilled
			e.session.EndedAt = &now
			running = append(running, e)
		}
	}
	m.mu.Unlock()

	for _, e := range running {
		e.cancel()
		<-e.done
	}
}

// --- internal ---

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, domain.WrapOp("capture", fmt.Errorf("%w: session %s", domain.ErrNotFound, id))
	}
	return e, nil
}

func (m *Manager) kill(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return domain.WrapOp("capture.Kill", fmt.Errorf("%w: session %s", domain.ErrNotFound, id))
	}
	if e.session.Status != domain.CaptureStatusRunning {
		m.mu.Unlock()
		return domain.WrapOp("capture.Kill", fmt.Errorf("%w: session is not running", domain.ErrInvalidInput))
	}
	// Set status BEFORE cancel so waitForCompletion sees it and skips the
	// status update.
	e.session.Status = domain.CaptureStatusKilled
	now := time.Now()
	e.session.EndedAt = &now
	m.mu.Unlock()

	e.cancel()
	<-e.done

	m.emitEvent(ctx, domain.EventCaptureKilled, e.session)
	m.logger.Info("capture killed", "session_id", id)
	return nil
}

func (m *Manager) waitForCompletion(e *entry) {
	err := e.cmd.Wait()
	close(e.done)

	m.mu.Lock()
	// Only update status and emit if Kill()/Stop() hasn't already set it.
	emitCompletion := e.session.Status == domain.CaptureStatusRunning
	if emitCompletion {
		now := time.Now()
		e.session.EndedAt = &now
		if err != nil {
			e.session.Status = domain.CaptureStatusFailed
			if exitErr, ok := err.(*exec.ExitError); ok {
				code := exitErr.ExitCode()
				e.session.ExitCode = &code
			}
		} else {
			e.session.Status = domain.CaptureStatusCompleted
			code := 0
			e.session.ExitCode = &code
		}
	}
	m.mu.Unlock()

	if emitCompletion {
		m.emitEvent(context.Background(), domain.EventCaptureCompleted, e.session)
	}
	m.logger.Info("capture finished", "session_id", e.session.ID, "status", e.session.Status)
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.cleanupExpired()
		}
	}
}

func (m *Manager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.config.SessionTTL)
	for id, e := range m.sessions {
		if e.session.Status != domain.CaptureStatusRunning && e.session.EndedAt != nil {
			if e.session.EndedAt.Before(cutoff) {
				delete(m.sessions, id)
				m.logger.Debug("capture session expired", "session_id", id)
			}
		}
	}
}

func (m *Manager) emitEvent(ctx context.Context, eventType domain.EventType, payload any) {
	if m.bus == nil {
		return
	}
	data, _ := json.Marshal(payload)
	m.bus.Publish(ctx, domain.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   data,
	})
}

func (m *Manager) newID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
